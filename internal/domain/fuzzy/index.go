// Package fuzzy provides a small approximate string index over bounded
// Levenshtein distance. It scans every indexed term on each search, which
// is fine at the scale of a book's character roster (tens to low hundreds
// of names) and deliberately not designed to scale beyond that.
package fuzzy

import "strings"

type entry[T any] struct {
	term string
	obj  T
}

// Index maps terms to objects and supports closest-match lookup. Adding a
// term twice overwrites the object but keeps the term's original position,
// so tie-breaking stays deterministic.
type Index[T any] struct {
	entries []entry[T]
	byTerm  map[string]int
}

// NewIndex creates an empty index.
func NewIndex[T any]() *Index[T] {
	return &Index[T]{byTerm: make(map[string]int)}
}

// Add stores term -> obj, overwriting any previous object for the term.
// Terms are kept as given; matching is case-insensitive at search time.
func (ix *Index[T]) Add(term string, obj T) {
	if i, ok := ix.byTerm[term]; ok {
		ix.entries[i].obj = obj
		return
	}
	ix.byTerm[term] = len(ix.entries)
	ix.entries = append(ix.entries, entry[T]{term: term, obj: obj})
}

// Len returns the number of indexed terms.
func (ix *Index[T]) Len() int { return len(ix.entries) }

// DefaultMaxDistance is the distance bound Search uses when the caller has
// no policy of its own: half the query length, rounded down.
func DefaultMaxDistance(query string) int {
	return len([]rune(query)) / 2
}

// Search returns the indexed term closest to query within maxDistance, and
// the object stored under it. The strictly smallest distance wins; among
// equally distant terms the first-inserted one wins. An empty query or no
// term within the bound yields found=false.
func (ix *Index[T]) Search(query string, maxDistance int) (term string, obj T, found bool) {
	if query == "" {
		return "", obj, false
	}

	lowered := strings.ToLower(query)
	best := maxDistance + 1
	for _, e := range ix.entries {
		d := Distance(lowered, strings.ToLower(e.term))
		if d < best {
			best = d
			term = e.term
			obj = e.obj
			found = true
		}
	}
	if !found {
		var zero T
		return "", zero, false
	}
	return term, obj, true
}

// Distance computes the Levenshtein edit distance between two strings with
// unit costs for insertion, deletion and substitution, using a single
// reused row of size min(|s1|,|s2|)+1.
func Distance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}
	if len(r2) == 0 {
		return len(r1)
	}

	row := make([]int, len(r2)+1)
	for j := range row {
		row[j] = j
	}
	for i, c1 := range r1 {
		prev := row[0]
		row[0] = i + 1
		for j, c2 := range r2 {
			ins := row[j+1] + 1
			del := row[j] + 1
			sub := prev
			if c1 != c2 {
				sub++
			}
			prev = row[j+1]
			row[j+1] = min(ins, del, sub)
		}
	}
	return row[len(r2)]
}
