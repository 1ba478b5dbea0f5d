// Adapted from https://github.com/bboreham/go-loser.

package loser

import (
	"iter"
)

// Source yields values in ascending order. Next reports false once the source
// is exhausted.
type Source[E any] interface {
	Next() (E, bool)
}

// SourceFunc adapts a function to a Source.
type SourceFunc[E any] func() (E, bool)

func (f SourceFunc[E]) Next() (E, bool) { return f() }

// A Tree is a binary tree laid out such that nodes N and N+1 have parent N/2.
// The M leaves live in positions M...2M-1 and the M-1 internal nodes in
// positions 1..M-1. Node 0 records the winner.
type Tree[E any] struct {
	sources []Source[E]
	nodes   []node[E]
	less    func(E, E) bool
}

type node[E any] struct {
	at    int  // Losing leaf for internal nodes, winning leaf for node 0.
	value E    // Current head of the source, leaves only.
	ok    bool // False once the source is exhausted, leaves only.
}

func New[E any](sources []Source[E], less func(E, E) bool) *Tree[E] {
	return &Tree[E]{
		sources: sources,
		nodes:   make([]node[E], len(sources)*2),
		less:    less,
	}
}

// All yields the values of every source in ascending order. Sources are
// consumed, so All may only be ranged over once.
func (t *Tree[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		m := len(t.sources)
		if m == 0 {
			return
		}
		for i := range m {
			t.advance(m + i)
		}
		t.nodes[0].at = t.play(1)

		for {
			w := t.nodes[0].at
			if !t.nodes[w].ok || !yield(t.nodes[w].value) {
				return
			}
			t.advance(w)
			t.replay(w)
		}
	}
}

func (t *Tree[E]) advance(leaf int) {
	n := &t.nodes[leaf]
	n.value, n.ok = t.sources[leaf-len(t.sources)].Next()
}

// beats reports whether leaf a wins against leaf b. Exhausted leaves lose
// against everything.
func (t *Tree[E]) beats(a, b int) bool {
	na, nb := &t.nodes[a], &t.nodes[b]
	if !na.ok {
		return false
	}
	if !nb.ok {
		return true
	}
	return t.less(na.value, nb.value)
}

// play returns the winning leaf below pos, storing losers on the way up.
func (t *Tree[E]) play(pos int) int {
	if pos >= len(t.sources) {
		return pos
	}
	left := t.play(pos * 2)
	right := t.play(pos*2 + 1)
	winner, loser := left, right
	if t.beats(right, left) {
		winner, loser = right, left
	}
	t.nodes[pos].at = loser
	return winner
}

// replay re-runs the games from leaf up to the root after the leaf advanced.
func (t *Tree[E]) replay(leaf int) {
	winner := leaf
	for n := parent(leaf); n != 0; n = parent(n) {
		if t.beats(t.nodes[n].at, winner) {
			t.nodes[n].at, winner = winner, t.nodes[n].at
		}
	}
	t.nodes[0].at = winner
}

func parent(i int) int { return i >> 1 }
