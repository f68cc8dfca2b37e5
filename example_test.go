package parjoin_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/joeycumines/go-parjoin"
	"github.com/joeycumines/go-parjoin/stream"
	"github.com/joeycumines/go-parjoin/stream/compile"
)

// Example_basicUsage demonstrates merging three inner sequences with
// unbounded concurrency, then sorting the result for deterministic output
// (parJoin's whole point is that the interleaving is not deterministic).
func Example_basicUsage() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	a := stream.FromSlice([]int{1, 2, 3})
	b := stream.FromSlice([]int{4, 5})
	c := stream.FromSlice([]int{6, 7, 8, 9})

	out, err := parjoin.ParJoinUnbounded[int](stream.FromSlice([]stream.Stream[int]{a, b, c}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	got, err := compile.Collect(ctx, out)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	sort.Ints(got)
	fmt.Println(got)

	// Output:
	// [1 2 3 4 5 6 7 8 9]
}

// Example_bounded demonstrates capping concurrency with maxOpen: even
// though five inner sequences are offered, at most two ever run at once.
func Example_bounded() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sources := make([]stream.Stream[int], 5)
	for i := range sources {
		sources[i] = stream.FromSlice([]int{i})
	}

	out, stats, err := parjoin.ParJoinWithStats[int](stream.FromSlice(sources), 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	got, err := compile.Collect(ctx, out)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	sort.Ints(got)
	fmt.Println(got)
	snap := stats.Snapshot()
	fmt.Println(snap.Completed, snap.Failed, snap.Open)

	// Output:
	// [0 1 2 3 4]
	// 5 0 0
}

// Example_errorPropagation demonstrates that a single failing inner
// sequence surfaces its error from the merged stream's final Pull, even
// while other inner sequences are still producing elements.
func Example_errorPropagation() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	boom := fmt.Errorf("boom")
	ok := stream.FromSlice([]int{1, 2, 3})
	failing := stream.Fail[int](boom)

	out, err := parjoin.ParJoin[int](stream.FromSlice([]stream.Stream[int]{ok, failing}), 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	err = compile.Drain(ctx, out)
	fmt.Println(err)

	// Output:
	// boom
}
