// Package stream implements a minimal pull-based, chunked lazy-sequence
// algebra: just enough of Map/FlatMap/Bracket/interruptWhen/chunks/compile
// for a join engine built on top of it to compile and run standalone.
package stream

// Chunk is an ordered batch of elements delivered as one unit by a Stream.
type Chunk[T any] []T
