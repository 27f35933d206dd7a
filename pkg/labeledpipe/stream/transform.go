package stream

import (
	"context"
	"log/slog"

	"gopkg.in/tomb.v2"
)

// TransformFunc turns one input item into zero or more output items.
type TransformFunc func(ctx context.Context, item any) ([]any, error)

// Transform is a unit running fn on a dedicated goroutine.
// An item for which fn fails is dropped and the error is emitted as an "error" event; the next items are still
// processed.
type Transform struct {
	*Emitter

	in  chan any
	out chan any
	fn  TransformFunc

	tomb tomb.Tomb
}

// TransformOption configures a transform.
type TransformOption func(t *Transform)

// TransformLogger sets the logger used by the transform's emitter.
func TransformLogger(logger *slog.Logger) TransformOption {
	return func(t *Transform) {
		t.Emitter.logger = logger
	}
}

// NewTransform creates and starts a transform unit.
func NewTransform(fn TransformFunc, opts ...TransformOption) *Transform {
	t := &Transform{
		Emitter: NewEmitter(nil),
		in:      make(chan any),
		out:     make(chan any),
		fn:      fn,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.tomb.Go(t.worker)

	return t
}

// OneToOne creates a transform producing exactly one item per input item.
func OneToOne(fn func(ctx context.Context, item any) (any, error), opts ...TransformOption) *Transform {
	return NewTransform(func(ctx context.Context, item any) ([]any, error) {
		out, err := fn(ctx, item)
		if err != nil {
			return nil, err
		}

		return []any{out}, nil
	}, opts...)
}

// OneToMany creates a transform producing any number of items per input item.
func OneToMany(fn func(ctx context.Context, item any) ([]any, error), opts ...TransformOption) *Transform {
	return NewTransform(fn, opts...)
}

// NewPassThrough creates a transform forwarding every item untouched. It never fails.
func NewPassThrough(opts ...TransformOption) *Transform {
	return NewTransform(func(_ context.Context, item any) ([]any, error) {
		return []any{item}, nil
	}, opts...)
}

// Input returns the writable side of the transform.
func (t *Transform) Input() chan<- any {
	return t.in
}

// Output returns the readable side of the transform.
func (t *Transform) Output() <-chan any {
	return t.out
}

// Wait blocks until the transform has stopped.
func (t *Transform) Wait() error {
	return t.tomb.Wait()
}

// Close stops the transform without flushing pending items. Items written afterwards are discarded until the
// input is closed.
func (t *Transform) Close() error {
	t.tomb.Kill(nil)

	return t.tomb.Wait()
}

func (t *Transform) worker() error {
	ctx := t.tomb.Context(context.Background())

	for {
		select {
		case <-t.tomb.Dying():
			return t.discard()
		case item, ok := <-t.in:
			if !ok {
				t.Emit(EventFinish)
				close(t.out)
				t.Emit(EventEnd)

				return nil
			}

			outs, err := t.fn(ctx, item)
			if err != nil {
				t.Emit(EventError, err)

				continue
			}

			for _, out := range outs {
				select {
				case <-t.tomb.Dying():
					return t.discard()
				case t.out <- out:
				}
			}
		}
	}
}

// discard closes the output of a killed transform and reads its input until it is closed.
func (t *Transform) discard() error {
	close(t.out)

	go func() {
		for range t.in {
		}
	}()

	return tomb.ErrDying
}

var _ Unit = (*Transform)(nil)
