package lazypipe

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

// ErrNilUnit is returned by Build when a task returns no unit.
var ErrNilUnit = errors.New("task returned a nil unit")

// Pipe is an immutable list of tasks.
type Pipe struct {
	steps []model.Step
}

// New creates an empty pipe.
func New() *Pipe {
	return &Pipe{}
}

// Pipe appends task, called with args by Build.
func (p *Pipe) Pipe(task model.Task, args ...any) *Pipe {
	return p.append([]model.Step{model.NewTaskStep("", task, args...)})
}

// Embed appends the tasks exported by sub.
func (p *Pipe) Embed(sub model.Exporter) *Pipe {
	return p.append(sub.ExportSteps(nil, false))
}

func (p *Pipe) append(steps []model.Step) *Pipe {
	res := make([]model.Step, 0, len(p.steps)+len(steps))
	res = append(res, p.steps...)

	return &Pipe{steps: append(res, steps...)}
}

// ExportSteps appends the tasks of the pipe to existing. There are no labels to keep, so keepLabels is ignored.
func (p *Pipe) ExportSteps(existing []model.Step, _ bool) []model.Step {
	return append(existing, p.steps...)
}

// Build instantiates every task and chains the units.
func (p *Pipe) Build() (*stream.Duplex, error) {
	units := make([]stream.Unit, 0, len(p.steps))

	for i, step := range p.steps {
		if !step.HasTask() {
			continue
		}

		unit, err := step.Task(step.Args...)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to instantiate task %d", i)
		}

		if unit == nil {
			return nil, errors.Wrapf(ErrNilUnit, "unable to instantiate task %d", i)
		}

		units = append(units, unit)
	}

	return stream.Chain(units...), nil
}

// Task returns a task building the pipe.
func (p *Pipe) Task() model.Task {
	return func(...any) (stream.Unit, error) {
		unit, err := p.Build()
		if err != nil {
			return nil, err
		}

		return unit, nil
	}
}

var _ model.Exporter = (*Pipe)(nil)
