// Package lazypipe is a minimal composer without labels: stages are appended in order and every error of every
// stage is re-emitted by the compiled unit.
//
// It implements model.Exporter, so a lazypipe can be embedded in a labeledpipe and a labeledpipe can be embedded in
// a lazypipe, in which case the labeledpipe is flattened to its tasks.
package lazypipe
