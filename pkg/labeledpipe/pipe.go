package labeledpipe

import (
	"log/slog"

	"github.com/kr/pretty"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

// Pipe is an editable, not yet compiled chain: an ordered list of steps and the cursor where the next step goes.
type Pipe struct {
	name   string
	steps  []model.Step
	cursor int
	logger *slog.Logger
}

// Option configures a new pipe.
type Option func(p *Pipe)

// WithName sets the display name of the pipe.
func WithName(name string) Option {
	return func(p *Pipe) {
		p.name = name
	}
}

// WithLogger sets the logger used by the pipe and the units it compiles.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates an empty pipe with the cursor at 0.
func New(opts ...Option) *Pipe {
	pipe := &Pipe{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(pipe)
	}

	return pipe
}

// Must returns p and panics if err is not nil. It is meant for fluent edits whose labels are known to exist.
func Must(p *Pipe, err error) *Pipe {
	if err != nil {
		panic(err)
	}

	return p
}

func (p *Pipe) with(steps []model.Step, cursor int) *Pipe {
	return &Pipe{
		name:   p.name,
		steps:  steps,
		cursor: cursor,
		logger: p.logger,
	}
}

// Name returns the display name of the pipe.
func (p *Pipe) Name() string {
	return p.name
}

// Cursor returns the index the next inserted block will start at.
func (p *Pipe) Cursor() int {
	return p.cursor
}

// Len returns the number of steps in the ledger.
func (p *Pipe) Len() int {
	return len(p.steps)
}

// Steps returns a copy of the steps of the ledger.
func (p *Pipe) Steps() []model.Step {
	return append([]model.Step(nil), p.steps...)
}

// Task returns a task building the pipe, so it can be piped as an opaque stage of another composer.
func (p *Pipe) Task() model.Task {
	return func(...any) (stream.Unit, error) {
		return p.Build()
	}
}

type stepView struct {
	Kind   string
	Label  string
	Args   []any
	Events []model.EventMethod
}

// GoString dumps the ledger, used by %#v.
func (p *Pipe) GoString() string {
	views := make([]stepView, len(p.steps))
	for i, step := range p.steps {
		views[i] = stepView{Kind: step.Kind.String(), Label: step.Label, Args: step.Args}
		for _, event := range step.Events {
			views[i].Events = append(views[i].Events, event.Method)
		}
	}

	return pretty.Sprintf("labeledpipe %q cursor=%d %# v", p.name, p.cursor, views)
}
