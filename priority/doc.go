// Package priority implements a minimum-priority queue: a container of values
// each tagged with an integer priority that always yields the value with the
// numerically lowest priority first.
//
// The queue is a binary heap laid out in a dynarray.Array. For the node at
// index i its children are at 2i+1 and 2i+2 and its parent at (i-1)/2. Every
// node's priority is greater than or equal to its parent's, so the root holds
// the minimum.
//
// Key features:
//   - Generic over the value type; values are stored and returned, never inspected
//   - O(log n) insertion and removal
//   - O(1) access to the first value and its priority
//   - Optional zap logging and metrics recording
//
// Basic usage:
//
//	pq := priority.New[string]()
//
//	pq.Insert("write report", 5)
//	pq.Insert("fix outage", 1)
//	pq.Insert("lunch", 3)
//
//	v, err := pq.First() // "fix outage"
//
//	for !pq.IsEmpty() {
//	    v, _ := pq.RemoveFirst()
//	    fmt.Println(v) // fix outage, lunch, write report
//	}
//
// Reading or removing from an empty queue returns an error wrapping
// ErrPreconditionViolation. The Must variants panic instead, for callers that
// treat an empty queue as a programming error.
//
// The relative order of values with equal priorities is unspecified.
//
// A Queue is not safe for concurrent use. Callers sharing a queue between
// goroutines must guard every call with their own lock.
package priority
