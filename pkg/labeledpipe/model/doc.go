// Package model provides the data structures shared by labeledpipe and the composers it interoperates with.
// It defines the steps a ledger is made of, the deferred events attached to them and the options observing a build.
package model
