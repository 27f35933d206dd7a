package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/measure"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

type buildDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (bd *buildDrawer) New() error {
	bd.startTime = time.Now()

	err := bd.AddStep(model.StartStep)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = bd.AddStep(model.EndStep)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (bd *buildDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	if step != model.EndStep {
		err := bd.AddStep(step)
		if err != nil {
			return err
		}
	}

	return bd.AddLink(parentStep.ID, step.ID)
}

func (bd *buildDrawer) OnStepOutput(_, _ *model.StepInfo, _ time.Duration) error {
	return nil
}

func (bd *buildDrawer) Finish() error {
	if bd.m != nil {
		err := bd.SetTotalTime(model.EndStep.ID, bd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}

		err = bd.AddMeasure(bd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := bd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// BuildDrawer returns a build option drawing the compiled chain once it has been drained.
// When msr is set, it must be fed by measure.BuildMeasure passed before this option.
func BuildDrawer(drawer Drawer, msr measure.Measure) model.BuildOption {
	return &buildDrawer{Drawer: drawer, m: msr}
}
