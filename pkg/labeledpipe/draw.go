package labeledpipe

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/drawer"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

// Draw renders the task steps of the ledger in order, without compiling it. Steps are shaded by the number of spans
// enclosing them.
func (p *Pipe) Draw(drw drawer.Drawer) error {
	for _, step := range []*model.StepInfo{model.StartStep, model.EndStep} {
		err := drw.AddStep(step)
		if err != nil {
			return errors.Wrapf(err, "unable to add %s step to drawer", step.Name)
		}
	}

	parent := model.StartStep
	depth := 0

	for i, step := range p.steps {
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
			ID:    fmt.Sprintf("%d", i),
			Name:  step.Label,
			Index: i,
			Depth: depth,
		}
		if info.Name == "" {
			info.Name = fmt.Sprintf("step %d", i)
		}

		err := drw.AddStep(info)
		if err != nil {
			return errors.Wrapf(err, "unable to add step %s to drawer", info.Name)
		}

		err = drw.AddLink(parent.ID, info.ID)
		if err != nil {
			return errors.Wrapf(err, "unable to link step %s", info.Name)
		}

		parent = info
	}

	err := drw.AddLink(parent.ID, model.EndStep.ID)
	if err != nil {
		return errors.Wrap(err, "unable to link end step")
	}

	err = drw.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}
