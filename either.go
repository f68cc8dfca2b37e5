package parjoin

import (
	"github.com/joeycumines/go-parjoin/stream"
)

// EitherValue tags an element as having come from the left or right side of
// an Either join.
type EitherValue[A, B any] struct {
	Left   A
	Right  B
	IsLeft bool
}

// Either merges two streams of possibly different element types into one,
// tagging each element with the side it came from, preserving intra-stream
// order on each side but interleaving the two sides non-deterministically.
// It is expressed entirely in terms of ParJoin with maxOpen = 2.
func Either[A, B any](a stream.Stream[A], b stream.Stream[B], opts ...Option) (stream.Stream[EitherValue[A, B]], error) {
	left := stream.Map(a, func(v A) EitherValue[A, B] {
		return EitherValue[A, B]{Left: v, IsLeft: true}
	})
	right := stream.Map(b, func(v B) EitherValue[A, B] {
		return EitherValue[A, B]{Right: v}
	})
	source := stream.FromSlice([]stream.Stream[EitherValue[A, B]]{left, right})
	return ParJoin[EitherValue[A, B]](source, 2, opts...)
}
