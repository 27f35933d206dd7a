package stream

// Unit is a processing unit: it accepts items on Input, produces items on Output and signals failures with the
// "error" event.
//
// Closing Input ends the unit: remaining items are flushed and Output is closed once they are all produced.
type Unit interface {
	EventEmitter

	Input() chan<- any
	Output() <-chan any
	// Wait blocks until the unit has stopped.
	Wait() error
}
