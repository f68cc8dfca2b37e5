package stream

import (
	"context"
	"io"
)

// Stream is a lazy, pull-based sequence of Chunk[T]. Pull returns the next
// chunk, or io.EOF once the sequence is exhausted. A non-EOF error
// terminates the sequence with failure. Streams are single-pull: nothing
// in this package supports re-running a Stream value after it reaches EOF
// or an error.
type Stream[T any] struct {
	pull func(ctx context.Context) (Chunk[T], error)
}

// Pull advances the stream by one chunk.
func (s Stream[T]) Pull(ctx context.Context) (Chunk[T], error) {
	if s.pull == nil {
		return nil, io.EOF
	}
	return s.pull(ctx)
}

// New constructs a Stream from a raw pull function. Most callers should
// prefer Effect, FromSlice, Bracket, or a combinator instead.
func New[T any](pull func(ctx context.Context) (Chunk[T], error)) Stream[T] {
	return Stream[T]{pull: pull}
}

// Effect lifts a suspendable thunk into a Stream that emits its single
// result and terminates.
func Effect[T any](f func(context.Context) (T, error)) Stream[T] {
	var done bool
	return New(func(ctx context.Context) (Chunk[T], error) {
		if done {
			return nil, io.EOF
		}
		done = true
		v, err := f(ctx)
		if err != nil {
			return nil, err
		}
		return Chunk[T]{v}, nil
	})
}

// FromSlice returns a Stream that yields every item of items, one chunk of
// size 1 at a time. This is the natural way to build finite test/example
// fixtures atop the rest of the algebra.
func FromSlice[T any](items []T) Stream[T] {
	i := 0
	return New(func(ctx context.Context) (Chunk[T], error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= len(items) {
			return nil, io.EOF
		}
		v := items[i]
		i++
		return Chunk[T]{v}, nil
	})
}

// Fail returns a Stream that immediately fails with err.
func Fail[T any](err error) Stream[T] {
	return New(func(context.Context) (Chunk[T], error) {
		return nil, err
	})
}

// Chunks re-batches s's elements into chunks of at most size, flattening
// and re-grouping its existing chunk boundaries.
func (s Stream[T]) Chunks(size int) Stream[Chunk[T]] {
	if size <= 0 {
		size = 1
	}
	var (
		buf  []T
		pend error
	)
	return New(func(ctx context.Context) (Chunk[Chunk[T]], error) {
		for len(buf) < size && pend == nil {
			c, err := s.pull(ctx)
			if err != nil {
				pend = err
				break
			}
			buf = append(buf, c...)
		}

		if len(buf) == 0 {
			return nil, pend
		}

		n := size
		if n > len(buf) {
			n = len(buf)
		}
		out := buf[:n:n]
		buf = buf[n:]
		return Chunk[Chunk[T]]{out}, nil
	})
}

// InterruptWhen runs s subject to an observable predicate: once pred
// returns true, the stream terminates as if at end-of-stream after its
// current chunk.
func (s Stream[T]) InterruptWhen(pred func() bool) Stream[T] {
	return New(func(ctx context.Context) (Chunk[T], error) {
		if pred() {
			return nil, io.EOF
		}
		return s.pull(ctx)
	})
}

// Map applies f to every element of s.
func Map[T, U any](s Stream[T], f func(T) U) Stream[U] {
	return New(func(ctx context.Context) (Chunk[U], error) {
		c, err := s.pull(ctx)
		if err != nil {
			return nil, err
		}
		out := make(Chunk[U], len(c))
		for i, v := range c {
			out[i] = f(v)
		}
		return out, nil
	})
}

// EffectMap applies a suspendable, fallible f to every element of s.
func EffectMap[T, U any](s Stream[T], f func(context.Context, T) (U, error)) Stream[U] {
	return New(func(ctx context.Context) (Chunk[U], error) {
		c, err := s.pull(ctx)
		if err != nil {
			return nil, err
		}
		out := make(Chunk[U], len(c))
		for i, v := range c {
			u, err := f(ctx, v)
			if err != nil {
				return nil, err
			}
			out[i] = u
		}
		return out, nil
	})
}

// FlatMap applies f to every element of s, pulling each resulting Stream
// to exhaustion before returning to s for the next element.
func FlatMap[T, U any](s Stream[T], f func(T) Stream[U]) Stream[U] {
	var (
		pending []T
		current *Stream[U]
	)
	return New(func(ctx context.Context) (Chunk[U], error) {
		for {
			if current != nil {
				c, err := current.pull(ctx)
				if err == nil {
					return c, nil
				}
				if err != io.EOF {
					return nil, err
				}
				current = nil
			}

			if len(pending) == 0 {
				c, err := s.pull(ctx)
				if err != nil {
					return nil, err
				}
				pending = append(pending, c...)
			}

			next := f(pending[0])
			pending = pending[1:]
			current = &next
		}
	})
}

// Flatten concatenates an outer Stream of Streams into a single Stream,
// pulling each inner Stream to exhaustion in turn. Unlike parjoin.ParJoin,
// this is strictly sequential: it preserves the outer ordering, at the
// cost of not running any two inner streams concurrently.
func Flatten[T any](outer Stream[Stream[T]]) Stream[T] {
	return FlatMap(outer, func(s Stream[T]) Stream[T] { return s })
}

// Bracket acquires a resource, runs use to build a Stream over it, and
// guarantees release runs exactly once, on normal exhaustion or on error.
// Abandoning a Bracket stream without pulling it to exhaustion is the
// caller's own responsibility to avoid.
func Bracket[T, R any](acquire func(context.Context) (R, error), use func(context.Context, R) Stream[T], release func(R) error) Stream[T] {
	var (
		acquired bool
		resource R
		inner    Stream[T]
		released bool
	)
	doRelease := func() error {
		if released {
			return nil
		}
		released = true
		return release(resource)
	}
	return New(func(ctx context.Context) (Chunk[T], error) {
		if !acquired {
			r, err := acquire(ctx)
			if err != nil {
				return nil, err
			}
			acquired = true
			resource = r
			inner = use(ctx, resource)
		}

		c, err := inner.pull(ctx)
		if err != nil {
			if rerr := doRelease(); rerr != nil && err == io.EOF {
				err = rerr
			}
			return nil, err
		}
		return c, nil
	})
}
