package bcoll

import (
	"net/http"
	"time"

	"github.com/ietxaniz/delock"

	"github.com/brynbellomy/go-orderedset/errors"
)

const DefaultLockTimeout = 10 * time.Second

// ErrLockTimeout is returned when a SyncOrderedSet lock could not be acquired
// before the configured timeout, which usually means a deadlock.
var ErrLockTimeout = errors.New("timed out waiting for set lock")

// SyncOrderedSet serializes access to an OrderedSet. Lock acquisition is bounded
// by a timeout, so every method can fail with ErrLockTimeout.
//
// Unlike the wrapped set, FindRange returns a copy: a Range cannot outlive
// the lock that protected it.
type SyncOrderedSet[T any] struct {
	mu  *delock.RWMutex
	set OrderedSet[T]
}

// NewSyncOrderedSet wraps set. A non-positive lockTimeout selects DefaultLockTimeout.
// The caller must not keep using set directly.
func NewSyncOrderedSet[T any](set OrderedSet[T], lockTimeout time.Duration) *SyncOrderedSet[T] {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	mu := &delock.RWMutex{}
	mu.SetTimeout(lockTimeout)
	return &SyncOrderedSet[T]{mu: mu, set: set}
}

func lockTimeoutError(err error) error {
	return errors.WithMetadata(errors.WithStack(errors.Join(ErrLockTimeout, err)),
		errors.FaultInternal,
		errors.StatusCode(http.StatusServiceUnavailable),
		errors.Retryable,
	)
}

// Insert inserts value and returns the set's size as of the same critical
// section, so concurrent inserts cannot skew it.
func (s *SyncOrderedSet[T]) Insert(value T) (InsertResult, int, error) {
	id, err := s.mu.Lock()
	if err != nil {
		return Rejected, 0, lockTimeoutError(err)
	}
	defer s.mu.Unlock(id)
	result, err := s.set.Insert(value)
	return result, s.set.Len(), err
}

func (s *SyncOrderedSet[T]) Find(value T) (bool, error) {
	id, err := s.mu.RLock()
	if err != nil {
		return false, lockTimeoutError(err)
	}
	defer s.mu.RUnlock(id)
	return s.set.Find(value), nil
}

func (s *SyncOrderedSet[T]) FindRange(minValue, maxValue T) ([]T, error) {
	id, err := s.mu.RLock()
	if err != nil {
		return nil, lockTimeoutError(err)
	}
	defer s.mu.RUnlock(id)
	return s.set.FindRange(minValue, maxValue).Slice(), nil
}

func (s *SyncOrderedSet[T]) Len() (int, error) {
	id, err := s.mu.RLock()
	if err != nil {
		return 0, lockTimeoutError(err)
	}
	defer s.mu.RUnlock(id)
	return s.set.Len(), nil
}

// Snapshot returns a copy of all elements in ascending order.
func (s *SyncOrderedSet[T]) Snapshot() ([]T, error) {
	id, err := s.mu.RLock()
	if err != nil {
		return nil, lockTimeoutError(err)
	}
	defer s.mu.RUnlock(id)
	return s.set.Slice(), nil
}
