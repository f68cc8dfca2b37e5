// Package handoff implements a synchronous, end-of-stream-aware channel
// transporting values from many concurrent producers to a single
// consumer.
package handoff

import (
	"sync"
)

// Channel is a zero-capacity, close-terminated rendezvous channel. A Send
// blocks until a Recv is ready to receive it, or until the channel has
// been closed by Close, or until the caller's interrupt fires. Exactly one
// "end of stream" is ever observed by Recv: no successfully-rendezvoused
// value is ever dropped, and once Close has run, further Sends are
// discarded rather than blocking a producer forever.
//
// The terminal signal is modeled as a separate closed channel rather than
// a sentinel value pushed through ch, so that Recv can observe
// end-of-stream without requiring a producer to still be scheduled to
// deliver it.
type Channel[T any] struct {
	ch        chan T
	closeOnce sync.Once
	closed    chan struct{}
}

// New returns an open Channel.
func New[T any]() *Channel[T] {
	return &Channel[T]{
		ch:     make(chan T),
		closed: make(chan struct{}),
	}
}

// Send attempts to hand value to the consumer. It returns true if the
// rendezvous completed, or false if interrupt fired or the channel was
// already closed before the rendezvous could complete.
//
// The interrupt predicate is only ever meaningful as a reason to abandon a
// send that hasn't rendezvoused yet: the select below races the data case
// against interrupt/closed, so a send that wins the race always completes
// even if interrupt fires concurrently, and a send with no ready receiver
// is free to be interrupted instead of blocking forever.
func (c *Channel[T]) Send(value T, interrupt <-chan struct{}) bool {
	select {
	case c.ch <- value:
		return true
	case <-c.closed:
		return false
	case <-interrupt:
		return false
	}
}

// Close marks the channel terminated. It is safe, and a no-op beyond the
// first call, to call Close more than once.
func (c *Channel[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// Recv blocks until a value is available or the stream has ended, in which
// case ok is false.
func (c *Channel[T]) Recv() (value T, ok bool) {
	select {
	case v := <-c.ch:
		return v, true
	case <-c.closed:
		return value, false
	}
}
