package bcoll

import (
	"cmp"
	"fmt"
	"net/http"

	"github.com/brynbellomy/go-orderedset/errors"
)

// ErrCapacityExceeded is the cause of every error returned by a full
// BoundedOrderedUniqueSet.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// CapacityExceededError carries the value a full BoundedOrderedUniqueSet refused.
type CapacityExceededError[T any] struct {
	Value    T
	Capacity int
}

func (e *CapacityExceededError[T]) Error() string {
	return fmt.Sprintf("capacity exceeded: %v not inserted (capacity %d)", e.Value, e.Capacity)
}

func (e *CapacityExceededError[T]) Unwrap() error {
	return ErrCapacityExceeded
}

// BoundedOrderedUniqueSet is an OrderedUniqueSet that holds at most Capacity elements.
type BoundedOrderedUniqueSet[T any] struct {
	OrderedUniqueSet[T]
	capacity int
}

// NewBoundedOrderedUniqueSet returns an empty set ordered by cmp.Compare that
// accepts at most capacity elements. Negative capacities are treated as zero.
func NewBoundedOrderedUniqueSet[T cmp.Ordered](capacity int) *BoundedOrderedUniqueSet[T] {
	return NewBoundedOrderedUniqueSetFunc(capacity, cmp.Compare[T])
}

func NewBoundedOrderedUniqueSetFunc[T any](capacity int, compare func(a, b T) int) *BoundedOrderedUniqueSet[T] {
	return &BoundedOrderedUniqueSet[T]{
		OrderedUniqueSet: *NewOrderedUniqueSetFunc(compare),
		capacity:         max(capacity, 0),
	}
}

func (s *BoundedOrderedUniqueSet[T]) Capacity() int {
	return s.capacity
}

// Insert refuses any value, including one already stored, once the set is
// full. The returned error wraps a *CapacityExceededError[T] and
// ErrCapacityExceeded; the set is left unchanged.
func (s *BoundedOrderedUniqueSet[T]) Insert(value T) (InsertResult, error) {
	if s.Len() >= s.capacity {
		err := &CapacityExceededError[T]{Value: value, Capacity: s.capacity}
		return Rejected, errors.WithMetadata(err,
			errors.FaultCaller,
			errors.StatusCode(http.StatusConflict),
			errors.NonRetryable,
			"value", value,
			"capacity", s.capacity,
		)
	}
	return s.OrderedUniqueSet.Insert(value)
}
