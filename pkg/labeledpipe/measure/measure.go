package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric for the step id, or returns the existing one.
func (m *DefaultMeasure) AddMetric(id, name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Steps[id]; ok {
		return mt
	}

	mt := &DefaultMetric{
		name:          name,
		allTransports: make(map[string]*TransportInfo),
	}
	m.Steps[id] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(id string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[id]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make(map[string]Metric, len(m.Steps))
	for id, mt := range m.Steps {
		res[id] = mt
	}

	return res
}

var _ Measure = (*DefaultMeasure)(nil)
