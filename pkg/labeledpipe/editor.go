package labeledpipe

import (
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
)

// Pipe inserts task at the cursor and moves the cursor behind it. The task is only called by Build, with args.
//
// A nil task inserts an empty labeled span: a marker other steps can be placed around or into.
func (p *Pipe) Pipe(label string, task model.Task, args ...any) *Pipe {
	return p.insert(taskBlock(label, task, args))
}

// Embed inserts the steps exported by sub as a span labeled label, and moves the cursor behind the span.
// The labels of sub stay addressable. A nil sub inserts a marker.
func (p *Pipe) Embed(label string, sub model.Exporter) *Pipe {
	return p.insert(embedBlock(label, sub))
}

// Remove deletes the span of label.
func (p *Pipe) Remove(label string) (*Pipe, error) {
	loc, err := p.locate(label, OpRemove)
	if err != nil {
		return nil, err
	}

	return p.with(splice(p.steps, loc.start, loc.length, nil), loc.cursorAfterRemoval(p.cursor)), nil
}

// Replace swaps the span of label for task, keeping the label.
func (p *Pipe) Replace(label string, task model.Task, args ...any) (*Pipe, error) {
	return p.replace(label, taskBlock(label, task, args))
}

// ReplaceWith swaps the span of label for the steps exported by sub, keeping the label.
func (p *Pipe) ReplaceWith(label string, sub model.Exporter) (*Pipe, error) {
	return p.replace(label, embedBlock(label, sub))
}

// replace moves a cursor that was not in front of the old span one step past where removal would leave it.
// That lands behind a single step replacement.
func (p *Pipe) replace(label string, block []model.Step) (*Pipe, error) {
	loc, err := p.locate(label, OpReplace)
	if err != nil {
		return nil, err
	}

	cursor := p.cursor
	if cursor >= loc.start {
		cursor = loc.cursorAfterRemoval(cursor) + 1
	}

	return p.with(splice(p.steps, loc.start, loc.length, block), cursor), nil
}

func (p *Pipe) insert(block []model.Step) *Pipe {
	return p.with(splice(p.steps, p.cursor, 0, block), p.cursor+len(block))
}

func taskBlock(label string, task model.Task, args []any) []model.Step {
	if task == nil {
		return markerBlock(label)
	}

	return []model.Step{model.NewTaskStep(label, task, args...)}
}

func markerBlock(label string) []model.Step {
	return []model.Step{model.OpenSpan(label), model.CloseSpan(label)}
}

func embedBlock(label string, sub model.Exporter) []model.Step {
	if sub == nil {
		return markerBlock(label)
	}

	block := []model.Step{model.OpenSpan(label)}
	block = sub.ExportSteps(block, true)

	return append(block, model.CloseSpan(label))
}

// splice returns a new slice where deleteCount steps from at are replaced by block.
func splice(steps []model.Step, at, deleteCount int, block []model.Step) []model.Step {
	res := make([]model.Step, 0, len(steps)-deleteCount+len(block))
	res = append(res, steps[:at]...)
	res = append(res, block...)

	return append(res, steps[at+deleteCount:]...)
}
