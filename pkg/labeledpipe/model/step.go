package model

import "github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"

// Task instantiates a processing unit from the arguments it was piped with.
type Task func(args ...any) (stream.Unit, error)

// StepKind tags the variant of a step.
type StepKind int

const (
	// TaskStep holds a task and its arguments and occupies one position.
	TaskStep StepKind = iota
	// SpanOpen opens a labeled span.
	SpanOpen
	// SpanClose closes the labeled span opened by the nearest preceding SpanOpen with the same label.
	SpanClose
)

func (k StepKind) String() string {
	switch k {
	case TaskStep:
		return "task"
	case SpanOpen:
		return "open"
	case SpanClose:
		return "close"
	default:
		return "unknown"
	}
}

// Step is one entry of a ledger.
// Steps are values: Args and Events are never modified once the step is part of a ledger.
type Step struct {
	Kind   StepKind
	Label  string
	Task   Task
	Args   []any
	Events []Event
}

// NewTaskStep creates a step running task with args.
func NewTaskStep(label string, task Task, args ...any) Step {
	return Step{
		Kind:  TaskStep,
		Label: label,
		Task:  task,
		Args:  append([]any(nil), args...),
	}
}

// OpenSpan creates the opening boundary of a span.
func OpenSpan(label string) Step {
	return Step{Kind: SpanOpen, Label: label}
}

// CloseSpan creates the closing boundary of a span.
func CloseSpan(label string) Step {
	return Step{Kind: SpanClose, Label: label}
}

// Opens reports whether the step starts a span. Single position steps both start and end one.
func (s Step) Opens() bool {
	return s.Kind != SpanClose
}

// Closes reports whether the step ends a span.
func (s Step) Closes() bool {
	return s.Kind != SpanOpen
}

// HasTask reports whether the step produces a unit when compiled.
func (s Step) HasTask() bool {
	return s.Kind == TaskStep && s.Task != nil
}

// WithEvent returns a copy of the step with event appended to its deferred events.
func (s Step) WithEvent(event Event) Step {
	events := make([]Event, 0, len(s.Events)+1)
	events = append(events, s.Events...)
	s.Events = append(events, event)

	return s
}

// Exporter is implemented by composers whose steps can be spliced into another composer.
//
// ExportSteps appends the composer's steps to existing and returns the result. With keepLabels the raw steps are
// appended, span boundaries included; otherwise only task steps are appended, without labels.
type Exporter interface {
	ExportSteps(existing []Step, keepLabels bool) []Step
}
