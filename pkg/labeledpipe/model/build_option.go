package model

import "time"

// StepInfo describes a unit of a compiled chain.
type StepInfo struct {
	ID    string
	Name  string
	Index int
	// Depth is the number of spans enclosing the step in the ledger.
	Depth int
}

var (
	StartStep = &StepInfo{ID: "start", Name: "start", Index: -1}
	EndStep   = &StepInfo{ID: "end", Name: "end", Index: -1}
)

// BuildOption defines the interface for options observing the compilation and the run of a chain.
type BuildOption interface {
	// New initialises the option before any unit is instantiated.
	New() error
	// PrepareStep runs once per unit, in chain order, after it has been instantiated.
	// The last call links the last unit to EndStep.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepOutput runs every time an item produced by parentStep is accepted by step.
	OnStepOutput(parentStep, step *StepInfo, transportDuration time.Duration) error
	// Finish runs after the chain has been drained.
	Finish() error
}
