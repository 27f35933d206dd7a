package measure

import (
	"sync"
	"time"
)

type TransportInfo struct {
	Elapsed time.Duration
	Total   int64
}

type DefaultMetric struct {
	mu            sync.Mutex
	name          string
	allTransports map[string]*TransportInfo
	EndDuration   time.Duration
	total         int64
}

func (mt *DefaultMetric) Name() string {
	return mt.name
}

func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.EndDuration = endDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.EndDuration
}

func (mt *DefaultMetric) AddTransportDuration(inputStepID string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allTransports[inputStepID] == nil {
		mt.allTransports[inputStepID] = &TransportInfo{}
	}
	ch := mt.allTransports[inputStepID]
	ch.Elapsed += elapsed
	ch.Total++
	mt.total++
}

// Count returns the number of items the step accepted.
func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

// AVGTransportDuration returns the average transport duration per input step.
func (mt *DefaultMetric) AVGTransportDuration() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))
	for id, ch := range mt.allTransports {
		avg := &TransportInfo{Total: ch.Total}
		if ch.Total > 0 {
			avg.Elapsed = round(time.Duration(float64(ch.Elapsed) / float64(ch.Total)))
		}
		res[id] = avg
	}

	return res
}

func (mt *DefaultMetric) AllTransports() map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.allTransports))
	for id, ch := range mt.allTransports {
		res[id] = &TransportInfo{Elapsed: ch.Elapsed, Total: ch.Total}
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
