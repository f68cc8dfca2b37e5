// Package scope implements a minimal resource-tracking scope, providing
// the lease contract an inner runner borrows for its lifetime.
//
// This is deliberately small: just enough surface for a lease lifecycle
// (acquire, finalize-on-cancel, reject-when-closed) to be real and
// testable, modeled on bracket/cleanup-on-shutdown ordering idioms.
package scope

import (
	"errors"
	"sync"
)

// ErrScopeClosed is returned by Lease when the scope has already been
// closed.
var ErrScopeClosed = errors.New("parjoin: lease on closed scope")

// Finalizer runs when a Lease is cancelled, returning an error to be
// composed with any producer error from the same runner.
type Finalizer func() error

// Scope hands out leases for a single outer pull. It keeps no record of
// the leases it has handed out. Once closed (Close may be called more than
// once), every subsequent Lease call fails with ErrScopeClosed.
type Scope struct {
	mu     sync.Mutex
	closed bool
}

// New returns an open Scope.
func New() *Scope {
	return &Scope{}
}

// Lease acquires a capability representing a borrow of the scope's
// resources, or returns ErrScopeClosed if the scope is already closed.
func (s *Scope) Lease() (*Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrScopeClosed
	}
	return &Lease{}, nil
}

// Close marks the scope closed; subsequent Lease calls fail. Closing does
// not affect leases already acquired — those remain valid until Cancelled.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Lease is an opaque capability representing a borrow of a Scope's
// resources, held for the lifetime of one spawned inner runner.
type Lease struct {
	mu         sync.Mutex
	cancelled  bool
	finalizers []Finalizer
}

// OnCancel registers a finalizer to run when the lease is cancelled. If
// the lease has already been cancelled, f runs immediately and its error
// is dropped by design: OnCancel after Cancel is a caller bug, not a
// runtime condition worth recovering from.
func (l *Lease) OnCancel(f Finalizer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelled {
		_ = f()
		return
	}
	l.finalizers = append(l.finalizers, f)
}

// Cancel releases the borrow, running registered finalizers in reverse
// registration order (last acquired, first released), and returns their
// composed error, if any. Calling Cancel more than once is a no-op that
// returns nil on every call after the first.
func (l *Lease) Cancel() error {
	l.mu.Lock()
	if l.cancelled {
		l.mu.Unlock()
		return nil
	}
	l.cancelled = true
	finalizers := l.finalizers
	l.finalizers = nil
	l.mu.Unlock()

	var err error
	for i := len(finalizers) - 1; i >= 0; i-- {
		if ferr := finalizers[i](); ferr != nil {
			err = joinFinalizerError(err, ferr)
		}
	}
	return err
}

func joinFinalizerError(existing, next error) error {
	if existing == nil {
		return next
	}
	return errors.Join(existing, next)
}
