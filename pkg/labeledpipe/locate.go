package labeledpipe

// location is the span owned by a label: the indexes of its opening and closing steps.
type location struct {
	start, end, length int
}

// locate finds the first step opening label and pairs it with the nearest following step closing label.
// The empty label marks unlabeled steps and is never found.
func (p *Pipe) locate(label string, op Op) (location, error) {
	if label == "" {
		return location{}, notFound(op, label)
	}

	for start, step := range p.steps {
		if step.Label != label || !step.Opens() {
			continue
		}

		for end := start; end < len(p.steps); end++ {
			if p.steps[end].Label == label && p.steps[end].Closes() {
				return location{start: start, end: end, length: end - start + 1}, nil
			}
		}

		break
	}

	return location{}, notFound(op, label)
}

// cursorAfterRemoval returns where cursor lands once the span is deleted.
func (l location) cursorAfterRemoval(cursor int) int {
	switch {
	case cursor < l.start:
		return cursor
	case cursor <= l.end:
		return l.start
	default:
		return cursor - l.length
	}
}

func (p *Pipe) moveTo(label string, op Op, cursor func(l location) int) (*Pipe, error) {
	loc, err := p.locate(label, op)
	if err != nil {
		return nil, err
	}

	return p.with(p.steps, cursor(loc)), nil
}

// Before moves the cursor in front of the span of label.
func (p *Pipe) Before(label string) (*Pipe, error) {
	return p.moveTo(label, OpBefore, func(l location) int { return l.start })
}

// After moves the cursor behind the span of label.
func (p *Pipe) After(label string) (*Pipe, error) {
	return p.moveTo(label, OpAfter, func(l location) int { return l.end + 1 })
}

// BeginningOf moves the cursor right after the opening of the span of label, so the next step becomes its first
// step.
func (p *Pipe) BeginningOf(label string) (*Pipe, error) {
	return p.moveTo(label, OpBeginningOf, func(l location) int { return l.start + 1 })
}

// EndOf moves the cursor right before the closing of the span of label, so the next step becomes its last step.
func (p *Pipe) EndOf(label string) (*Pipe, error) {
	return p.moveTo(label, OpEndOf, func(l location) int { return l.end })
}

// First moves the cursor to the beginning of the ledger.
func (p *Pipe) First() *Pipe {
	return p.with(p.steps, 0)
}

// Last moves the cursor to the end of the ledger.
func (p *Pipe) Last() *Pipe {
	return p.with(p.steps, len(p.steps))
}
