// Package loser merges sorted sources with a tournament tree (loser tree).
//
// A loser tree is a binary tree where each internal node holds the "loser" of
// a comparison between its children and the root holds the overall winner.
// Merging M sorted sources this way costs O(log M) comparisons per value.
//
// The pqsort command drains one priority.Queue per input into a Source
// and merges them into a single ordered stream:
//
//	tree := loser.New([]loser.Source[int]{a, b, c}, func(x, y int) bool {
//	    return x < y
//	})
//	for v := range tree.All() {
//	    fmt.Println(v)
//	}
//
// Ties are resolved in favour of the source that already holds the position,
// so the relative order of equal values from different sources is
// unspecified.
package loser
