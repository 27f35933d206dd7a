package model

import "github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"

// EventMethod is one of the event methods a ledger can defer to a compiled unit.
type EventMethod string

const (
	AddListener        EventMethod = "addListener"
	On                 EventMethod = "on"
	Once               EventMethod = "once"
	RemoveListener     EventMethod = "removeListener"
	RemoveAllListeners EventMethod = "removeAllListeners"
	SetMaxListeners    EventMethod = "setMaxListeners"
)

// Event is an event method call recorded on a step, replayed on the unit the step compiles to.
type Event struct {
	Method   EventMethod
	Name     string
	Names    []string
	Listener *stream.Listener
	Max      int
}

// Apply replays the call on target.
func (e Event) Apply(target stream.EventEmitter) {
	switch e.Method {
	case AddListener:
		target.AddListener(e.Name, e.Listener)
	case On:
		target.On(e.Name, e.Listener)
	case Once:
		target.Once(e.Name, e.Listener)
	case RemoveListener:
		target.RemoveListener(e.Name, e.Listener)
	case RemoveAllListeners:
		target.RemoveAllListeners(e.Names...)
	case SetMaxListeners:
		target.SetMaxListeners(e.Max)
	}
}
