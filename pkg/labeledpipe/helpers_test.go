package labeledpipe_test

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-labeledpipe/pkg/labeledpipe"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/model"
	"github.com/askiada/go-labeledpipe/pkg/labeledpipe/stream"
)

// recorder keeps track of the stages built and of the stages each item went through.
type recorder struct {
	mu     sync.Mutex
	built  []string
	events []string
}

func (r *recorder) report(args ...any) (stream.Unit, error) {
	label, _ := args[0].(string)

	r.mu.Lock()
	r.built = append(r.built, label)
	r.mu.Unlock()

	return stream.OneToOne(func(_ context.Context, item any) (any, error) {
		r.mu.Lock()
		r.events = append(r.events, label)
		r.mu.Unlock()

		return item, nil
	}), nil
}

func (r *recorder) Built() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.built...)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string{}, r.events...)
}

func emitError(args ...any) (stream.Unit, error) {
	text, _ := args[0].(string)

	return stream.OneToOne(func(_ context.Context, _ any) (any, error) {
		return nil, errors.New(text)
	}), nil
}

func passThrough(...any) (stream.Unit, error) {
	return stream.NewPassThrough(), nil
}

// counter is an error listener counting its calls.
type counter struct {
	calls    atomic.Int64
	listener *stream.Listener
}

func newCounter() *counter {
	c := &counter{}
	c.listener = stream.ErrorListener(func(error) {
		c.calls.Add(1)
	})

	return c
}

func (c *counter) Calls() int64 {
	return c.calls.Load()
}

func build(t *testing.T, pipe *labeledpipe.Pipe, opts ...model.BuildOption) stream.Unit {
	t.Helper()

	unit, err := pipe.Build(opts...)
	require.NoError(t, err)

	return unit
}

// runOne writes a single item to unit and waits until it is drained.
func runOne(t *testing.T, unit stream.Unit) []any {
	t.Helper()

	out, err := stream.Run(t.Context(), unit, struct{}{})
	require.NoError(t, err)

	return out
}

// spy records the event methods called on a unit before delegating them.
type spy struct {
	*stream.Transform

	mu    sync.Mutex
	calls []string
}

func newSpy() *spy {
	return &spy{Transform: stream.NewPassThrough()}
}

func (s *spy) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
}

func (s *spy) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.calls...)
}

func (s *spy) AddListener(event string, listener *stream.Listener) {
	s.record("addListener " + event)
	s.Transform.AddListener(event, listener)
}

func (s *spy) On(event string, listener *stream.Listener) {
	s.record("on " + event)
	s.Transform.On(event, listener)
}

func (s *spy) Once(event string, listener *stream.Listener) {
	s.record("once " + event)
	s.Transform.Once(event, listener)
}

func (s *spy) RemoveListener(event string, listener *stream.Listener) {
	s.record("removeListener " + event)
	s.Transform.RemoveListener(event, listener)
}

func (s *spy) RemoveAllListeners(events ...string) {
	s.record(strings.TrimSpace("removeAllListeners " + strings.Join(events, " ")))
	s.Transform.RemoveAllListeners(events...)
}

func (s *spy) SetMaxListeners(n int) {
	s.record("setMaxListeners " + strconv.Itoa(n))
	s.Transform.SetMaxListeners(n)
}

func (s *spy) Task() model.Task {
	return func(...any) (stream.Unit, error) {
		return s, nil
	}
}

func streamRun(t *testing.T, unit stream.Unit, items ...any) ([]any, error) {
	t.Helper()

	return stream.Run(t.Context(), unit, items...)
}
