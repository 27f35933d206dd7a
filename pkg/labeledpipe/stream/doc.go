// Package stream provides the processing units a compiled labeledpipe is made of.
//
// A unit accepts items on its writable side (Input), produces items on its readable side (Output) and reports
// failures as "error" events rather than returning them. Units are connected sequentially with Pipe, and a set of
// connected units is exposed as a single unit with Duplex.
//
// Channels are unbuffered, so a unit that stops reading pauses its upstream neighbour until it is ready again.
// Closing the writable side of the first unit flushes every item still in flight and then closes the readable side
// of the last unit.
package stream
