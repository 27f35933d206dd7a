package labeledpipe

import (
	"github.com/pkg/errors"
)

var (
	ErrLabelNotFound        = errors.New("label not found")
	ErrNoEmitterUnderCursor = errors.New("No event emitter under cursor") //nolint:stylecheck // message is part of the API
	ErrNilUnit              = errors.New("task returned a nil unit")
)

// Op names the edit that looked up a label.
type Op string

const (
	OpBefore      Op = "before"
	OpAfter       Op = "after"
	OpBeginningOf Op = "beginningOf"
	OpEndOf       Op = "endOf"
	OpRemove      Op = "remove"
	OpReplace     Op = "replace"
)

var opMessages = map[Op]string{
	OpBefore:      "Unable to move cursor before step ",
	OpAfter:       "Unable to move cursor after step ",
	OpBeginningOf: "Unable to move cursor to the beginning of ",
	OpEndOf:       "Unable to move cursor to the end of ",
	OpRemove:      "Unable to remove step ",
	OpReplace:     "Unable to remove step ",
}

// NotFoundError is returned when an edit addresses a label that has no span in the ledger.
type NotFoundError struct {
	Op    Op
	Label string
}

func (e *NotFoundError) Error() string {
	return opMessages[e.Op] + e.Label
}

// Is makes NotFoundError match ErrLabelNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrLabelNotFound
}

func notFound(op Op, label string) error {
	return errors.WithStack(&NotFoundError{Op: op, Label: label})
}
