// Package labeledpipe assembles a linear chain of processing stages addressed by label.
//
// A Pipe is an immutable ledger of steps plus an insertion cursor. Every edit (Pipe, Embed, Remove, Replace, the
// cursor moves and the event methods) returns a new Pipe and leaves the receiver untouched, so a Pipe can be shared
// and extended from several places at once.
//
//	pipe := labeledpipe.New().
//		Pipe("parse", parse).
//		Pipe("enrich", enrich, client).
//		Pipe("encode", encode)
//	pipe = labeledpipe.Must(pipe.Before("encode")).Pipe("validate", validate)
//
// Nothing runs until Build is called. Build instantiates every task in ledger order and connects the resulting
// units into one stream.Unit. A stage that fails emits an "error" event; the event bubbles to the compiled unit
// unless a listener was attached to that stage with one of the event methods, in which case the stage handles it.
//
// Labeled spans can be embedded from another Pipe, or from any composer implementing model.Exporter, with Embed.
// The labels of the embedded ledger remain addressable.
package labeledpipe
