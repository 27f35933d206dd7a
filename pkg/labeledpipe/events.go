package labeledpipe

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

// The event methods record a call on the step right before the cursor. The call is replayed on the unit that
// step compiles to, every time the pipe is built.

// AddListener defers AddListener(event, listener) to the step before the cursor.
func (p *Pipe) AddListener(event string, listener *stream.Listener) (*Pipe, error) {
	return p.attach(model.Event{Method: model.AddListener, Name: event, Listener: listener})
}

// On defers On(event, listener) to the step before the cursor.
func (p *Pipe) On(event string, listener *stream.Listener) (*Pipe, error) {
	return p.attach(model.Event{Method: model.On, Name: event, Listener: listener})
}

// Once defers Once(event, listener) to the step before the cursor.
func (p *Pipe) Once(event string, listener *stream.Listener) (*Pipe, error) {
	return p.attach(model.Event{Method: model.Once, Name: event, Listener: listener})
}

// RemoveListener defers RemoveListener(event, listener) to the step before the cursor.
func (p *Pipe) RemoveListener(event string, listener *stream.Listener) (*Pipe, error) {
	return p.attach(model.Event{Method: model.RemoveListener, Name: event, Listener: listener})
}

// RemoveAllListeners defers RemoveAllListeners(events...) to the step before the cursor.
func (p *Pipe) RemoveAllListeners(events ...string) (*Pipe, error) {
	return p.attach(model.Event{Method: model.RemoveAllListeners, Names: append([]string(nil), events...)})
}

// SetMaxListeners defers SetMaxListeners(n) to the step before the cursor.
func (p *Pipe) SetMaxListeners(n int) (*Pipe, error) {
	return p.attach(model.Event{Method: model.SetMaxListeners, Max: n})
}

func (p *Pipe) attach(event model.Event) (*Pipe, error) {
	if p.cursor == 0 {
		return nil, errors.WithStack(ErrNoEmitterUnderCursor)
	}

	steps := p.Steps()
	steps[p.cursor-1] = steps[p.cursor-1].WithEvent(event)

	return p.with(steps, p.cursor), nil
}
