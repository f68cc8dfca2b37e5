// Package admission implements counting-semaphore admission control,
// bounding the number of concurrently running inner sequences.
package admission

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Semaphore bounds concurrent inner runners to a fixed capacity. It is a
// thin wrapper around golang.org/x/sync/semaphore.Weighted, sized to
// weight 1 per inner runner: a context-aware counting semaphore, which is
// what lets admission be cancellable everywhere except the uninterruptible
// region at the start of a runner's life.
type Semaphore struct {
	w        *semaphore.Weighted
	capacity int64
}

// New returns a Semaphore with maxOpen permits. maxOpen must be >= 1;
// callers are expected to validate this precondition themselves before
// constructing one.
func New(maxOpen int) *Semaphore {
	return &Semaphore{w: semaphore.NewWeighted(int64(maxOpen)), capacity: int64(maxOpen)}
}

// Acquire blocks until a permit is available or ctx is cancelled.
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.w.Acquire(ctx, 1)
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	s.w.Release(1)
}

// Capacity returns maxOpen, the configured permit count.
func (s *Semaphore) Capacity() int64 {
	return s.capacity
}
