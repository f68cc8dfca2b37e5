// Package compile implements the stream evaluator's terminal operations.
package compile

import (
	"context"
	"io"

	"github.com/joeycumines/go-parjoin/stream"
)

// Drain pulls s to exhaustion, discarding every chunk, and returns the
// first non-EOF error encountered (or nil on normal termination).
func Drain[T any](ctx context.Context, s stream.Stream[T]) error {
	for {
		_, err := s.Pull(ctx)
		if err == nil {
			continue
		}
		if err == io.EOF {
			return nil
		}
		return err
	}
}

// Collect pulls s to exhaustion, returning every element in order. It is a
// convenience for tests and examples.
func Collect[T any](ctx context.Context, s stream.Stream[T]) ([]T, error) {
	var out []T
	for {
		c, err := s.Pull(ctx)
		out = append(out, c...)
		if err == nil {
			continue
		}
		if err == io.EOF {
			return out, nil
		}
		return out, err
	}
}
