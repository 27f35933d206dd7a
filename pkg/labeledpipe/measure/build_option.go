package measure

import (
	"time"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

type buildMeasure struct {
	Measure
	startTime time.Time
}

func (bm *buildMeasure) New() error {
	bm.startTime = time.Now()
	bm.AddMetric(model.StartStep.ID, model.StartStep.Name)
	bm.AddMetric(model.EndStep.ID, model.EndStep.Name)

	return nil
}

func (bm *buildMeasure) PrepareStep(_, step *model.StepInfo) error {
	bm.AddMetric(step.ID, step.Name)

	return nil
}

func (bm *buildMeasure) OnStepOutput(parentStep, step *model.StepInfo, transportDuration time.Duration) error {
	bm.AddMetric(step.ID, step.Name).AddTransportDuration(parentStep.ID, transportDuration)

	return nil
}

func (bm *buildMeasure) Finish() error {
	bm.GetMetric(model.EndStep.ID).SetTotalDuration(time.Since(bm.startTime))

	return nil
}

// BuildMeasure returns a build option feeding measure with the transport durations of the compiled chain.
func BuildMeasure(measure Measure) model.BuildOption {
	return &buildMeasure{Measure: measure}
}
