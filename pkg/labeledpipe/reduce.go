package labeledpipe

import (
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

// reduce collapses every span holding a step with deferred events into a single task step. The task compiles the
// span and replays the events on the result, so listeners observe the unit the whole span becomes.
//
// open holds the positions in res of the spans not closed yet. A step with events collapses the innermost one,
// which is the step itself when it is a task. Inner spans are therefore collapsed before the spans enclosing them.
func (c *compiler) reduce(steps []model.Step) []model.Step {
	res := make([]model.Step, 0, len(steps))
	open := []int{}

	for _, step := range steps {
		if step.Opens() {
			open = append(open, len(res))
		}

		res = append(res, step)

		if len(step.Events) > 0 {
			start := 0
			if len(open) > 0 {
				start = open[len(open)-1]
			}

			enclosed := append([]model.Step(nil), res[start:]...)
			res = append(res[:start], model.NewTaskStep(enclosed[0].Label, c.spanTask(enclosed)))
		}

		if step.Closes() && len(open) > 0 {
			open = open[:len(open)-1]
		}
	}

	return res
}

// spanTask compiles enclosed and replays the events of its last step, the one that triggered the collapse.
func (c *compiler) spanTask(enclosed []model.Step) model.Task {
	inner := &compiler{logger: c.logger}

	return func(...any) (stream.Unit, error) {
		unit, err := inner.combine(enclosed)
		if err != nil {
			return nil, err
		}

		for _, event := range enclosed[len(enclosed)-1].Events {
			event.Apply(unit)
		}

		return unit, nil
	}
}

// bracket wraps steps into an unlabeled span, so a lone task is composed like any other chain.
func bracket(steps []model.Step) []model.Step {
	res := make([]model.Step, 0, len(steps)+2)
	res = append(res, model.OpenSpan(""))
	res = append(res, steps...)

	return append(res, model.CloseSpan(""))
}
