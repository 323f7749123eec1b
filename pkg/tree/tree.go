// Package tree holds the child storage shared by tree shaped types.
package tree

import (
	"slices"
)

// Base owns an ordered list of children and an opaque text payload.
// It is meant to be embedded (or held) by a concrete node type that
// delegates its child handling to it.
//
// Base is not safe for concurrent use. Callers must serialize writes.
type Base[T comparable] struct {
	children []T
	content  string
}

// Children returns a copy of the child list
func (b *Base[T]) Children() []T {
	ret := make([]T, len(b.children))
	copy(ret, b.children)
	return ret
}

// Each calls fn for every child in order without copying the list
func (b *Base[T]) Each(fn func(child T)) {
	for _, child := range b.children {
		fn(child)
	}
}

// Add appends a child
func (b *Base[T]) Add(child T) {
	b.children = append(b.children, child)
}

// Remove drops the first occurrence of child and reports whether it was found
func (b *Base[T]) Remove(child T) bool {
	for i, c := range b.children {
		if c == child {
			b.children = slices.Delete(b.children, i, i+1)
			return true
		}
	}
	return false
}

// Len number of children
func (b *Base[T]) Len() int {
	return len(b.children)
}

// Content returns the text payload
func (b *Base[T]) Content() string {
	return b.content
}

// SetContent replaces the text payload
func (b *Base[T]) SetContent(v string) {
	b.content = v
}
