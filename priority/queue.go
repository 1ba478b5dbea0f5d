package priority

import (
	"errors"
	"fmt"

	"github.com/davidvella/minpq/dynarray"
	"github.com/davidvella/minpq/metrics"
	"go.uber.org/zap"
)

var (
	// ErrPreconditionViolation is the root of every misuse error: reading or
	// removing from a queue that is nil or holds no values.
	ErrPreconditionViolation = errors.New("priority: precondition violation")
	ErrEmptyQueue            = fmt.Errorf("%w: queue is empty", ErrPreconditionViolation)
	ErrNilQueue              = fmt.Errorf("%w: queue is nil", ErrPreconditionViolation)
)

// Metric names recorded when a queue is created WithMetrics.
const (
	MetricInserts    = "pq_inserts_total"
	MetricRemovals   = "pq_removals_total"
	MetricSize       = "pq_size"
	MetricViolations = "pq_precondition_violations_total"
)

// node is one queued value. The queue owns the node, never the value.
type node[V any] struct {
	priority int
	value    V
}

// Queue is a min-priority queue: the value with the lowest priority is served
// first. A Queue is not safe for concurrent use.
type Queue[V any] struct {
	nodes    *dynarray.Array[node[V]]
	logger   *zap.Logger
	registry *metrics.Registry
}

// New creates an empty queue.
func New[V any](opts ...Option) *Queue[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	q := &Queue[V]{
		nodes:    dynarray.New[node[V]](o.capacity),
		logger:   o.logger,
		registry: o.registry,
	}
	q.register()
	return q
}

// Free releases every node and the backing storage. Values still queued are
// discarded without being touched. The queue is empty afterwards and may be
// reused.
func (q *Queue[V]) Free() {
	if q == nil {
		panic(ErrNilQueue)
	}
	n := q.nodes.Len()
	if n > 0 {
		q.logger.Debug("freeing non-empty queue", zap.Int("discarded", n))
	}
	q.nodes.Free()
	q.addSize(-n)
}

// Len returns the number of queued values. A nil queue is empty.
func (q *Queue[V]) Len() int {
	if q == nil {
		return 0
	}
	return q.nodes.Len()
}

// IsEmpty reports whether the queue holds no values.
func (q *Queue[V]) IsEmpty() bool {
	return q.Len() == 0
}

// Insert adds value with the given priority.
func (q *Queue[V]) Insert(value V, priority int) {
	q.nodes.Append(node[V]{priority: priority, value: value})
	q.up(q.nodes.Len() - 1)

	q.record(MetricInserts)
	q.addSize(1)
}

// First returns the value with the lowest priority without removing it.
func (q *Queue[V]) First() (V, error) {
	if err := q.check("first"); err != nil {
		var zero V
		return zero, err
	}
	return q.nodes.Get(0).value, nil
}

// FirstPriority returns the lowest priority in the queue.
func (q *Queue[V]) FirstPriority() (int, error) {
	if err := q.check("first priority"); err != nil {
		return 0, err
	}
	return q.nodes.Get(0).priority, nil
}

// Peek returns the value with the lowest priority and that priority.
func (q *Queue[V]) Peek() (value V, priority int, err error) {
	if err := q.check("peek"); err != nil {
		return value, 0, err
	}
	root := q.nodes.Get(0)
	return root.value, root.priority, nil
}

// RemoveFirst removes and returns the value with the lowest priority.
func (q *Queue[V]) RemoveFirst() (V, error) {
	if err := q.check("remove first"); err != nil {
		var zero V
		return zero, err
	}

	root := q.nodes.Get(0)
	q.nodes.Set(0, q.nodes.Last())
	q.nodes.RemoveLast()
	if q.nodes.Len() > 1 {
		q.down(0)
	}

	q.record(MetricRemovals)
	q.addSize(-1)
	return root.value, nil
}

// MustFirst is like First but panics if the queue is nil or empty.
func (q *Queue[V]) MustFirst() V {
	v, err := q.First()
	if err != nil {
		panic(err)
	}
	return v
}

// MustFirstPriority is like FirstPriority but panics if the queue is nil or
// empty.
func (q *Queue[V]) MustFirstPriority() int {
	p, err := q.FirstPriority()
	if err != nil {
		panic(err)
	}
	return p
}

// MustRemoveFirst is like RemoveFirst but panics if the queue is nil or empty.
func (q *Queue[V]) MustRemoveFirst() V {
	v, err := q.RemoveFirst()
	if err != nil {
		panic(err)
	}
	return v
}

func (q *Queue[V]) check(op string) error {
	if q == nil {
		return fmt.Errorf("%s: %w", op, ErrNilQueue)
	}
	if q.nodes.Len() == 0 {
		q.logger.Debug("precondition violation", zap.String("op", op), zap.Error(ErrEmptyQueue))
		q.record(MetricViolations)
		return fmt.Errorf("%s: %w", op, ErrEmptyQueue)
	}
	return nil
}

// less compares the priorities at index i and j.
func (q *Queue[V]) less(i, j int) bool {
	return q.nodes.Get(i).priority < q.nodes.Get(j).priority
}

// up moves the node at index i towards the root while its parent has a
// greater priority.
func (q *Queue[V]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			break
		}
		q.nodes.Swap(i, parent)
		i = parent
	}
}

// down moves the node at index i towards the leaves while a child has a
// smaller priority. On equal children the left one is taken.
func (q *Queue[V]) down(i int) {
	last := q.nodes.Len() - 1
	for {
		left := 2*i + 1
		right := 2*i + 2
		if left > last {
			break
		}

		child := left
		if right <= last && q.less(right, left) {
			child = right
		}

		if !q.less(child, i) {
			break
		}
		q.nodes.Swap(i, child)
		i = child
	}
}

func (q *Queue[V]) register() {
	if q.registry == nil {
		return
	}
	q.registry.Register(metrics.Metric{
		Name:        MetricInserts,
		Type:        metrics.Counter,
		Description: "Total number of values inserted",
	})
	q.registry.Register(metrics.Metric{
		Name:        MetricRemovals,
		Type:        metrics.Counter,
		Description: "Total number of values removed",
	})
	q.registry.Register(metrics.Metric{
		Name:        MetricSize,
		Type:        metrics.Gauge,
		Description: "Number of values queued across every queue sharing the registry",
	})
	q.registry.Register(metrics.Metric{
		Name:        MetricViolations,
		Type:        metrics.Counter,
		Description: "Reads or removals attempted on an empty queue",
	})
}

func (q *Queue[V]) record(name string) {
	if q.registry != nil {
		q.registry.RecordCounter(name, 1)
	}
}

// addSize moves the shared size gauge by delta so that queues recording into
// one registry add up instead of overwriting each other.
func (q *Queue[V]) addSize(delta int) {
	if q.registry != nil && delta != 0 {
		q.registry.AddGauge(MetricSize, float64(delta))
	}
}
