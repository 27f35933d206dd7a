package stream

import (
	"sync/atomic"
	"time"
)

// Link connects the readable side of a unit to the writable side of its successor.
type Link struct {
	src, dst Unit

	done     chan struct{}
	failures atomic.Int64
	observer func(elapsed time.Duration)
	listener *Listener
}

// LinkOption configures a link.
type LinkOption func(l *Link)

// LinkObserver registers fn to be called with the time dst took to accept each forwarded item.
func LinkObserver(fn func(elapsed time.Duration)) LinkOption {
	return func(l *Link) {
		l.observer = fn
	}
}

// Pipe forwards everything src produces into dst and closes the input of dst once src is drained.
//
// Like any connected destination, dst gets exactly one error listener from the link; it only counts the failures
// of dst.
func Pipe(src, dst Unit, opts ...LinkOption) *Link {
	l := &Link{
		src:  src,
		dst:  dst,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.listener = NewListener(func(...any) {
		l.failures.Add(1)
	})
	dst.On(EventError, l.listener)

	go l.run()

	return l
}

func (l *Link) run() {
	defer close(l.done)
	defer close(l.dst.Input())

	for item := range l.src.Output() {
		start := time.Now()
		l.dst.Input() <- item

		if l.observer != nil {
			l.observer(time.Since(start))
		}
	}
}

// Failures returns the number of error events the destination emitted so far.
func (l *Link) Failures() int64 {
	return l.failures.Load()
}

// Wait blocks until src is drained and the input of dst is closed.
func (l *Link) Wait() {
	<-l.done
}
