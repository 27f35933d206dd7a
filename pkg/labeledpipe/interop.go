package labeledpipe

import (
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

// ExportSteps appends the steps of the pipe to existing.
//
// With keepLabels the raw steps are appended, so the pipe can be embedded as a labeled span of another pipe.
// Otherwise spans carrying events are collapsed first and only the task steps are appended, without labels, for
// composers which have no notion of labels.
func (p *Pipe) ExportSteps(existing []model.Step, keepLabels bool) []model.Step {
	if p == nil {
		return existing
	}

	if keepLabels {
		return append(existing, p.steps...)
	}

	cpl := &compiler{logger: p.logger}
	for _, step := range cpl.reduce(p.Steps()) {
		if !step.HasTask() {
			continue
		}

		step.Label = ""
		existing = append(existing, step)
	}

	return existing
}

var _ model.Exporter = (*Pipe)(nil)
