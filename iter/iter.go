package iter

import (
	"iter"

	"golang.org/x/exp/constraints"
)

func Map[T, Out any](s iter.Seq[T], fn func(x T) Out) iter.Seq[Out] {
	return func(yield func(Out) bool) {
		for v := range s {
			if !yield(fn(v)) {
				return
			}
		}
	}
}

func Filter[T any](s iter.Seq[T], keep func(x T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if keep(v) && !yield(v) {
				return
			}
		}
	}
}

// Collect drains s into a slice. An empty sequence yields a nil slice.
func Collect[T any](s iter.Seq[T]) []T {
	var xs []T
	for x := range s {
		xs = append(xs, x)
	}
	return xs
}

// RangeIterator yields start, start+1, ..., end-1.
func RangeIterator[Elem constraints.Integer](start, end Elem) iter.Seq[Elem] {
	return func(yield func(n Elem) bool) {
		for n := start; n < end; n++ {
			if !yield(n) {
				return
			}
		}
	}
}

func SliceIterator[T any](slice []T) iter.Seq[T] {
	return func(yield func(t T) bool) {
		for _, t := range slice {
			if !yield(t) {
				return
			}
		}
	}
}
