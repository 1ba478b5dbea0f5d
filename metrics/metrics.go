package metrics

import (
	"sync"
	"time"
)

// MetricType represents different types of metrics
type MetricType int

const (
	Counter MetricType = iota
	Gauge
)

func (t MetricType) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	default:
		return "unknown"
	}
}

// Metric describes a registered metric
type Metric struct {
	Name        string
	Type        MetricType
	Description string
}

// MetricValue is the current value of a metric and when it last changed
type MetricValue struct {
	Value     float64
	Timestamp time.Time
}

// Registry stores and manages metrics. It is safe for concurrent use, so a
// single registry may be shared by queues owned by different goroutines.
// Each metric holds exactly one value regardless of how often it is recorded.
type Registry struct {
	metrics map[string]Metric
	values  map[string]*MetricValue
	now     func() time.Time
	mu      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Metric),
		values:  make(map[string]*MetricValue),
		now:     time.Now,
	}
}

// Register adds metric to the registry. Registering an existing name again
// is a no-op, recorded values are kept.
func (r *Registry) Register(metric Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[metric.Name]; ok {
		return
	}
	r.metrics[metric.Name] = metric
}

// RecordCounter adds value to the named counter. Unknown names and names
// registered with another type are ignored.
func (r *Registry) RecordCounter(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if metric, ok := r.metrics[name]; ok && metric.Type == Counter {
		r.update(name, func(v *MetricValue) { v.Value += value })
	}
}

// RecordGauge replaces the value of the named gauge.
func (r *Registry) RecordGauge(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if metric, ok := r.metrics[name]; ok && metric.Type == Gauge {
		r.update(name, func(v *MetricValue) { v.Value = value })
	}
}

// AddGauge adds delta to the named gauge. Recorders sharing a registry use it
// to maintain one aggregate gauge without overwriting each other.
func (r *Registry) AddGauge(name string, delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if metric, ok := r.metrics[name]; ok && metric.Type == Gauge {
		r.update(name, func(v *MetricValue) { v.Value += delta })
	}
}

// update applies fn to the stored value of name in place. r.mu must be held.
func (r *Registry) update(name string, fn func(*MetricValue)) {
	v, ok := r.values[name]
	if !ok {
		v = &MetricValue{}
		r.values[name] = v
	}
	fn(v)
	v.Timestamp = r.now()
}

// Counter returns the running total of a counter.
func (r *Registry) Counter(name string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.values[name]; ok {
		return v.Value
	}
	return 0
}

// Gauge returns the current value of a gauge and whether one was recorded.
func (r *Registry) Gauge(name string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[name]
	if !ok {
		return 0, false
	}
	return v.Value, true
}

// Describe returns the registered metric with the given name.
func (r *Registry) Describe(name string) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[name]
	return m, ok
}

// GetMetrics returns a snapshot holding the current value of every recorded
// metric.
func (r *Registry) GetMetrics() map[string][]MetricValue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]MetricValue, len(r.values))
	for name, v := range r.values {
		result[name] = []MetricValue{*v}
	}
	return result
}
