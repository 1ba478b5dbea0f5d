// Package dynarray implements a resizable, zero-indexed sequence with O(1)
// random access and amortised O(1) append and remove at the end.
package dynarray

import "fmt"

// Array is a growable sequence of elements.
type Array[E any] struct {
	items []E
}

// New creates an empty array with room for capacity elements before the first
// reallocation. A negative capacity is treated as zero.
func New[E any](capacity int) *Array[E] {
	if capacity < 0 {
		capacity = 0
	}
	return &Array[E]{
		items: make([]E, 0, capacity),
	}
}

// Len returns the number of elements in the array.
func (a *Array[E]) Len() int {
	return len(a.items)
}

// Cap returns the number of elements the array can hold without growing.
func (a *Array[E]) Cap() int {
	return cap(a.items)
}

// Get returns the element at index i.
func (a *Array[E]) Get(i int) E {
	a.check(i)
	return a.items[i]
}

// Set replaces the element at index i.
func (a *Array[E]) Set(i int, v E) {
	a.check(i)
	a.items[i] = v
}

// Swap exchanges the elements at index i and j.
func (a *Array[E]) Swap(i, j int) {
	a.check(i)
	a.check(j)
	a.items[i], a.items[j] = a.items[j], a.items[i]
}

// Append adds v to the end of the array.
func (a *Array[E]) Append(v E) {
	a.items = append(a.items, v)
}

// Last returns the final element.
func (a *Array[E]) Last() E {
	a.check(len(a.items) - 1)
	return a.items[len(a.items)-1]
}

// RemoveLast removes and returns the final element.
func (a *Array[E]) RemoveLast() E {
	last := len(a.items) - 1
	a.check(last)

	v := a.items[last]
	var zero E
	a.items[last] = zero // drop the reference held by the backing array
	a.items = a.items[:last]
	return v
}

// Remove removes and returns the element at index i, shifting every later
// element one position towards the front.
func (a *Array[E]) Remove(i int) E {
	a.check(i)
	v := a.items[i]
	copy(a.items[i:], a.items[i+1:])
	a.RemoveLast()
	return v
}

// Free releases the backing storage. The array is empty afterwards and may be
// reused.
func (a *Array[E]) Free() {
	clear(a.items)
	a.items = nil
}

func (a *Array[E]) check(i int) {
	if i < 0 || i >= len(a.items) {
		panic(fmt.Sprintf("dynarray: index out of range [%d] with length %d", i, len(a.items)))
	}
}
