package bcoll

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// OrderedSet is the capability shared by OrderedUniqueSet and its capacity-bounded
// variant. Code holding an OrderedSet gets whichever insertion policy the
// underlying value implements.
type OrderedSet[T any] interface {
	Insert(value T) (InsertResult, error)
	Find(value T) bool
	FindRange(minValue, maxValue T) Range[T]
	Len() int
	Slice() []T
}

var (
	_ OrderedSet[int] = (*OrderedUniqueSet[int])(nil)
	_ OrderedSet[int] = (*BoundedOrderedUniqueSet[int])(nil)
)

// InsertResult is the outcome of an Insert call.
type InsertResult uint8

const (
	Rejected InsertResult = iota
	Inserted
	AlreadyPresent
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already_present"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("InsertResult(%d)", uint8(r))
	}
}

// OrderedUniqueSet keeps its elements in a strictly increasing slice, so lookups
// and range queries are binary searches and insertion is a splice.
//
// The zero value is not usable; construct with NewOrderedUniqueSet or
// NewOrderedUniqueSetFunc. An OrderedUniqueSet must not be used from multiple
// goroutines without synchronization (see SyncOrderedSet).
type OrderedUniqueSet[T any] struct {
	elems   []T
	compare func(a, b T) int
}

// NewOrderedUniqueSet returns an empty set ordered by cmp.Compare.
func NewOrderedUniqueSet[T cmp.Ordered]() *OrderedUniqueSet[T] {
	return NewOrderedUniqueSetFunc(cmp.Compare[T])
}

// NewOrderedUniqueSetFunc returns an empty set ordered by compare, which must
// define a strict total order: negative when a < b, zero when equal, positive
// when a > b.
func NewOrderedUniqueSetFunc[T any](compare func(a, b T) int) *OrderedUniqueSet[T] {
	if compare == nil {
		panic("bcoll: nil compare func")
	}
	return &OrderedUniqueSet[T]{compare: compare}
}

// Insert adds value unless an equal element is already stored. It never returns
// an error.
func (s *OrderedUniqueSet[T]) Insert(value T) (InsertResult, error) {
	i, found := slices.BinarySearchFunc(s.elems, value, s.compare)
	if found {
		return AlreadyPresent, nil
	}
	s.elems = slices.Insert(s.elems, i, value)
	return Inserted, nil
}

// Find reports whether value is stored.
func (s *OrderedUniqueSet[T]) Find(value T) bool {
	_, found := slices.BinarySearchFunc(s.elems, value, s.compare)
	return found
}

// FindRange returns a view of the elements v with minValue <= v <= maxValue.
// The view shares storage with the set and is invalidated by the next Insert
// or Clear; callers that need to keep the values must copy them with
// Range.Slice.
func (s *OrderedUniqueSet[T]) FindRange(minValue, maxValue T) Range[T] {
	if s.compare(minValue, maxValue) > 0 {
		return Range[T]{}
	}
	lo, _ := slices.BinarySearchFunc(s.elems, minValue, s.compare)
	hi, found := slices.BinarySearchFunc(s.elems[lo:], maxValue, s.compare)
	hi += lo
	if found {
		hi++
	}
	if lo == hi {
		return Range[T]{}
	}
	return Range[T]{elems: s.elems[lo:hi:hi]}
}

func (s *OrderedUniqueSet[T]) Len() int {
	return len(s.elems)
}

// At returns the i-th smallest element. It panics if i is out of range.
func (s *OrderedUniqueSet[T]) At(i int) T {
	return s.elems[i]
}

// All iterates over the elements in ascending order.
func (s *OrderedUniqueSet[T]) All() iter.Seq[T] {
	return Range[T]{elems: s.elems}.All()
}

// Slice returns a copy of the elements in ascending order, or nil if the set
// is empty.
func (s *OrderedUniqueSet[T]) Slice() []T {
	return Range[T]{elems: s.elems}.Slice()
}

func (s *OrderedUniqueSet[T]) Clear() {
	clear(s.elems)
	s.elems = s.elems[:0]
}

func (s *OrderedUniqueSet[T]) String() string {
	return fmt.Sprint(s.elems)
}
