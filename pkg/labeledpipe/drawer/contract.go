// Package drawer renders a labeledpipe, or a chain compiled from it, as a DOT graph.
package drawer

import (
	"time"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/measure"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(step *model.StepInfo) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepID, childrenStepID string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime sets the total time for the step.
	SetTotalTime(stepID string, startTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
