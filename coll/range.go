package bcoll

import (
	"fmt"
	"iter"
	"slices"

	biter "github.com/brynbellomy/go-orderedset/iter"
)

// Range is a read-only window onto a contiguous run of a set's elements, in
// ascending order. It does not own its storage: any mutation of the set it
// came from invalidates it.
type Range[T any] struct {
	elems []T
}

func (r Range[T]) Len() int {
	return len(r.elems)
}

func (r Range[T]) Empty() bool {
	return len(r.elems) == 0
}

// At returns the i-th element of the range. It panics if i is out of range.
func (r Range[T]) At(i int) T {
	return r.elems[i]
}

// All iterates over the range. Each call starts again from the first element.
func (r Range[T]) All() iter.Seq[T] {
	return biter.SliceIterator(r.elems)
}

// Slice copies the range into a new slice that stays valid after the set
// changes. An empty range yields nil.
func (r Range[T]) Slice() []T {
	if len(r.elems) == 0 {
		return nil
	}
	return slices.Clone(r.elems)
}

func (r Range[T]) String() string {
	return fmt.Sprint(r.elems)
}
