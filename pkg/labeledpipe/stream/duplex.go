package stream

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Duplex exposes a sequence of linked units as one unit: its writable side is the first unit and its readable side
// the last one.
type Duplex struct {
	*Emitter

	id    string
	units []Unit
	links []*Link

	finalizers []func() error

	done chan struct{}
	err  error
}

// DuplexOption configures a duplex.
type DuplexOption func(d *Duplex)

// DuplexFinalizer registers fn to run once every unit and link has stopped, before Wait returns.
func DuplexFinalizer(fn func() error) DuplexOption {
	return func(d *Duplex) {
		d.finalizers = append(d.finalizers, fn)
	}
}

// DuplexLogger sets the logger used by the duplex's emitter.
func DuplexLogger(logger *slog.Logger) DuplexOption {
	return func(d *Duplex) {
		d.Emitter.logger = logger
	}
}

// NewDuplex wraps units that were already connected by links.
func NewDuplex(units []Unit, links []*Link, opts ...DuplexOption) *Duplex {
	d := &Duplex{
		Emitter: NewEmitter(nil),
		id:      uuid.NewString(),
		units:   units,
		links:   links,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	go d.join()

	return d
}

// Chain connects units in order and wraps them into a duplex forwarding every error event of every unit.
func Chain(units ...Unit) *Duplex {
	if len(units) == 0 {
		units = []Unit{NewPassThrough()}
	}

	links := make([]*Link, 0, len(units)-1)
	for i := 1; i < len(units); i++ {
		links = append(links, Pipe(units[i-1], units[i]))
	}

	d := NewDuplex(units, links)
	for _, unit := range units {
		unit.On(EventError, d.Forwarder(EventError))
	}

	return d
}

func (d *Duplex) join() {
	defer close(d.done)

	var grp errgroup.Group

	for _, unit := range d.units {
		grp.Go(unit.Wait)
	}

	for _, link := range d.links {
		grp.Go(func() error {
			link.Wait()

			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		err = errors.Wrapf(err, "chain %s", d.id)
	}

	for _, fn := range d.finalizers {
		ferr := fn()
		if ferr != nil && err == nil {
			err = errors.Wrap(ferr, "unable to finalize chain")
		}
	}

	d.err = err

	d.Emit(EventEnd)
}

// ID returns the identifier of the composite.
func (d *Duplex) ID() string {
	return d.id
}

// Units returns the units of the composite in order.
func (d *Duplex) Units() []Unit {
	return append([]Unit(nil), d.units...)
}

// Links returns the links between the units of the composite.
func (d *Duplex) Links() []*Link {
	return append([]*Link(nil), d.links...)
}

// Forwarder returns a listener re-emitting event on the composite.
func (d *Duplex) Forwarder(event string) *Listener {
	return NewListener(func(args ...any) {
		d.Emit(event, args...)
	})
}

// Input returns the writable side of the first unit.
func (d *Duplex) Input() chan<- any {
	return d.units[0].Input()
}

// Output returns the readable side of the last unit.
func (d *Duplex) Output() <-chan any {
	return d.units[len(d.units)-1].Output()
}

// Wait blocks until every unit and link of the composite has stopped and the finalizers ran.
func (d *Duplex) Wait() error {
	<-d.done

	return d.err
}

var _ Unit = (*Duplex)(nil)
