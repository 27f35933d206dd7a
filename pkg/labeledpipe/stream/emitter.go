package stream

import (
	"log/slog"
	"sync"
)

// Events emitted by the units of this package.
const (
	EventError  = "error"
	EventFinish = "finish"
	EventEnd    = "end"
)

// DefaultMaxListeners is the number of listeners per event above which a warning is logged.
const DefaultMaxListeners = 10

// Listener receives the arguments of an emitted event.
// Listeners are compared by identity, so keep the pointer around to remove it later.
type Listener struct {
	fn func(args ...any)
}

// NewListener wraps fn into a listener.
func NewListener(fn func(args ...any)) *Listener {
	return &Listener{fn: fn}
}

// ErrorListener wraps fn into a listener suited for the "error" event.
func ErrorListener(fn func(err error)) *Listener {
	return NewListener(func(args ...any) {
		if len(args) == 0 {
			fn(nil)

			return
		}

		err, _ := args[0].(error)
		fn(err)
	})
}

// EventEmitter is the closed set of event methods a unit supports.
type EventEmitter interface {
	AddListener(event string, listener *Listener)
	On(event string, listener *Listener)
	Once(event string, listener *Listener)
	RemoveListener(event string, listener *Listener)
	// RemoveAllListeners removes the listeners of the given events, or of every event when none is given.
	RemoveAllListeners(events ...string)
	SetMaxListeners(n int)
	Listeners(event string) []*Listener
	ListenerCount(event string) int
	// Emit calls the listeners of event in registration order and reports whether there was any.
	Emit(event string, args ...any) bool
}

type registration struct {
	listener *Listener
	once     bool
}

// Emitter is a goroutine safe EventEmitter. The zero value is ready to use.
type Emitter struct {
	mu           sync.Mutex
	listeners    map[string][]registration
	maxListeners *int
	warned       map[string]bool
	logger       *slog.Logger
}

// NewEmitter creates an emitter logging through logger. A nil logger falls back to slog.Default().
func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{logger: logger}
}

func (e *Emitter) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}

	return e.logger
}

func (e *Emitter) add(event string, listener *Listener, once bool) {
	if listener == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[string][]registration)
	}

	e.listeners[event] = append(e.listeners[event], registration{listener: listener, once: once})

	limit := DefaultMaxListeners
	if e.maxListeners != nil {
		limit = *e.maxListeners
	}

	if limit > 0 && len(e.listeners[event]) > limit && !e.warned[event] {
		if e.warned == nil {
			e.warned = make(map[string]bool)
		}

		e.warned[event] = true
		e.log().Warn("possible listener leak detected", "event", event, "listeners", len(e.listeners[event]), "max", limit)
	}
}

// AddListener registers listener for event.
func (e *Emitter) AddListener(event string, listener *Listener) {
	e.add(event, listener, false)
}

// On is an alias of AddListener.
func (e *Emitter) On(event string, listener *Listener) {
	e.add(event, listener, false)
}

// Once registers listener for the next emission of event only.
func (e *Emitter) Once(event string, listener *Listener) {
	e.add(event, listener, true)
}

// RemoveListener removes the most recently added registration of listener for event.
func (e *Emitter) RemoveListener(event string, listener *Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[event]
	for i := len(regs) - 1; i >= 0; i-- {
		if regs[i].listener == listener {
			e.listeners[event] = append(regs[:i:i], regs[i+1:]...)

			return
		}
	}
}

// RemoveAllListeners removes the listeners of events, or every listener when no event is given.
func (e *Emitter) RemoveAllListeners(events ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(events) == 0 {
		e.listeners = nil

		return
	}

	for _, event := range events {
		delete(e.listeners, event)
	}
}

// SetMaxListeners changes the warning threshold. Zero disables the warning.
func (e *Emitter) SetMaxListeners(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.maxListeners = &n
}

// Listeners returns a copy of the listeners registered for event.
func (e *Emitter) Listeners(event string) []*Listener {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := make([]*Listener, 0, len(e.listeners[event]))
	for _, reg := range e.listeners[event] {
		res = append(res, reg.listener)
	}

	return res
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.listeners[event])
}

// Emit calls every listener of event with args. Listeners run on the calling goroutine, outside of the lock.
func (e *Emitter) Emit(event string, args ...any) bool {
	e.mu.Lock()
	regs := e.listeners[event]
	kept := regs[:0:0]

	for _, reg := range regs {
		if !reg.once {
			kept = append(kept, reg)
		}
	}

	if len(kept) != len(regs) {
		e.listeners[event] = kept
	}
	e.mu.Unlock()

	if len(regs) == 0 {
		if event == EventError {
			e.log().Warn("unhandled error event", "args", args)
		}

		return false
	}

	for _, reg := range regs {
		reg.listener.fn(args...)
	}

	return true
}

var _ EventEmitter = (*Emitter)(nil)
