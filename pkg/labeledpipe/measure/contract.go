// Package measure records how long the units of a compiled chain take to accept items from their predecessor.
package measure

import "time"

type Measure interface {
	AddMetric(id, name string) Metric
	GetMetric(id string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	Name() string
	AddTransportDuration(inputStepID string, elapsed time.Duration)
	AVGTransportDuration() map[string]*TransportInfo
	AllTransports() map[string]*TransportInfo
	Count() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
