package parjoin

import (
	"github.com/joeycumines/go-parjoin/stream"
)

// Merge runs every source concurrently, bounded by maxOpen, and returns the
// non-deterministic interleaving of their elements as a single Stream. It is
// the obvious finite-arity convenience built atop ParJoin, in the same
// spirit as Either (which is ParJoin over exactly two tagged sources).
func Merge[T any](maxOpen int, sources []stream.Stream[T], opts ...Option) (stream.Stream[T], error) {
	return ParJoin[T](stream.FromSlice(sources), maxOpen, opts...)
}
