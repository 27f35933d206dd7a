package labeledpipe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

type compiler struct {
	logger *slog.Logger
	opts   []model.BuildOption
	// depthOffset is the number of spans added around the ledger before compiling it.
	depthOffset int
}

// Build compiles the pipe into a live unit. Each call instantiates every task again and returns an independent
// chain.
//
// Errors emitted by a stage are re-emitted by the returned unit, unless the stage got a listener for them through
// one of the event methods.
func (p *Pipe) Build(opts ...model.BuildOption) (stream.Unit, error) {
	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply build option")
		}
	}

	cpl := &compiler{
		logger:      p.logger,
		opts:        opts,
		depthOffset: 1,
	}

	unit, err := cpl.combine(bracket(cpl.reduce(p.Steps())))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to build %q", p.name)
	}

	if duplex, ok := unit.(*stream.Duplex); ok {
		p.logger.Debug("chain built", "name", p.name, "steps", len(p.steps), "units", len(duplex.Units()), "chain", duplex.ID())
	}

	return unit, nil
}

// combine instantiates the tasks of steps and connects them.
// A single task which is the only step is returned as is, so that events bound to it reach the unit itself.
// Without tasks the chain is a pass-through, composed when build options have to observe it.
func (c *compiler) combine(steps []model.Step) (stream.Unit, error) {
	units, infos, err := c.instantiate(steps)
	if err != nil {
		return nil, err
	}

	switch {
	case len(units) == 0 && len(c.opts) == 0:
		return stream.NewPassThrough(stream.TransformLogger(c.logger)), nil
	case len(units) == 1 && len(steps) == 1:
		return units[0], nil
	}

	return c.compose(units, infos)
}

func (c *compiler) instantiate(steps []model.Step) ([]stream.Unit, []*model.StepInfo, error) {
	units := make([]stream.Unit, 0, len(steps))
	infos := make([]*model.StepInfo, 0, len(steps))
	depth := -c.depthOffset

	for _, step := range steps {
		switch step.Kind {
		case model.SpanOpen:
			depth++

			continue
		case model.SpanClose:
			depth--

			continue
		}

		if !step.HasTask() {
			continue
		}

		info := &model.StepInfo{
			ID:    uuid.NewString(),
			Name:  step.Label,
			Index: len(units),
			Depth: max(depth, 0),
		}
		if info.Name == "" {
			info.Name = fmt.Sprintf("step %d", info.Index)
		}

		unit, err := step.Task(step.Args...)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to instantiate step %s", info.Name)
		}

		if unit == nil {
			return nil, nil, errors.Wrapf(ErrNilUnit, "unable to instantiate step %s", info.Name)
		}

		units = append(units, unit)
		infos = append(infos, info)
	}

	return units, infos, nil
}

// compose links units behind an internal pass-through unit, which never fails, and bubbles their errors.
//
// Linking a unit gives it one error listener. A unit with more than that got a listener from the event methods
// and handles its own errors.
func (c *compiler) compose(units []stream.Unit, infos []*model.StepInfo) (stream.Unit, error) {
	units = append([]stream.Unit{stream.NewPassThrough(stream.TransformLogger(c.logger))}, units...)
	infos = append([]*model.StepInfo{model.StartStep}, infos...)

	err := c.prepare(infos)
	if err != nil {
		return nil, err
	}

	var result *stream.Duplex

	links := make([]*stream.Link, 0, len(units)-1)
	for i := 1; i < len(units); i++ {
		links = append(links, stream.Pipe(units[i-1], units[i], c.linkOptions(infos[i-1], infos[i], func(err error) {
			result.Emit(stream.EventError, err)
		})...))
	}

	result = stream.NewDuplex(units, links, stream.DuplexFinalizer(c.finish), stream.DuplexLogger(c.logger))

	for _, unit := range units {
		if unit.ListenerCount(stream.EventError) == 1 {
			unit.On(stream.EventError, result.Forwarder(stream.EventError))
		}
	}

	return result, nil
}

func (c *compiler) prepare(infos []*model.StepInfo) error {
	if len(c.opts) == 0 {
		return nil
	}

	infos = append(infos, model.EndStep)
	for i := 1; i < len(infos); i++ {
		for _, opt := range c.opts {
			err := opt.PrepareStep(infos[i-1], infos[i])
			if err != nil {
				return errors.Wrapf(err, "unable to prepare step %s", infos[i].Name)
			}
		}
	}

	return nil
}

func (c *compiler) linkOptions(parent, step *model.StepInfo, onErr func(err error)) []stream.LinkOption {
	if len(c.opts) == 0 {
		return nil
	}

	return []stream.LinkOption{stream.LinkObserver(func(elapsed time.Duration) {
		for _, opt := range c.opts {
			err := opt.OnStepOutput(parent, step, elapsed)
			if err != nil {
				onErr(errors.Wrapf(err, "unable to observe output of %s", parent.Name))
			}
		}
	})}
}

func (c *compiler) finish() error {
	for _, opt := range c.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish build option")
		}
	}

	return nil
}
