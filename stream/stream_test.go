package stream

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, s Stream[T]) ([]T, error) {
	t.Helper()
	ctx := context.Background()
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

func TestFromSlice(t *testing.T) {
	got, err := drain(t, FromSlice([]int{1, 2, 3}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFail(t *testing.T) {
	boom := errors.New("boom")
	_, err := drain(t, Fail[int](boom))
	assert.ErrorIs(t, err, boom)
}

func TestEffect(t *testing.T) {
	var calls int
	s := Effect(func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, got)
	assert.Equal(t, 1, calls, "Effect must run its thunk exactly once")
}

func TestChunks(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5}).Chunks(2)
	got, err := drain(t, s)
	require.NoError(t, err)
	require.Equal(t, []Chunk[int]{{1, 2}, {3, 4}, {5}}, got)
}

func TestInterruptWhen(t *testing.T) {
	var n int
	s := FromSlice([]int{1, 2, 3, 4, 5}).InterruptWhen(func() bool {
		return n >= 2
	})
	s = Map(s, func(v int) int {
		n++
		return v
	})
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}

func TestMap(t *testing.T) {
	s := Map(FromSlice([]int{1, 2, 3}), func(v int) string {
		return string(rune('a' + v - 1))
	})
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestEffectMap_propagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := EffectMap(FromSlice([]int{1, 2, 3}), func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v * 2, nil
	})
	_, err := drain(t, s)
	assert.ErrorIs(t, err, boom)
}

func TestFlatMap_preservesOrder(t *testing.T) {
	s := FlatMap(FromSlice([]int{1, 2, 3}), func(v int) Stream[int] {
		return FromSlice([]int{v, v * 10})
	})
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 10, 2, 20, 3, 30}, got)
}

func TestFlatten(t *testing.T) {
	s := Flatten(FromSlice([]Stream[int]{
		FromSlice([]int{1, 2}),
		FromSlice([]int{3, 4}),
	}))
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestBracket_releasesExactlyOnceOnExhaustion(t *testing.T) {
	var releases int
	s := Bracket(
		func(context.Context) (int, error) { return 7, nil },
		func(_ context.Context, r int) Stream[int] { return FromSlice([]int{r, r + 1}) },
		func(int) error { releases++; return nil },
	)
	got, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, got)
	assert.Equal(t, 1, releases)
}

func TestBracket_releaseErrorSurfacesOnCleanExhaustion(t *testing.T) {
	boom := errors.New("release failed")
	s := Bracket(
		func(context.Context) (int, error) { return 1, nil },
		func(_ context.Context, r int) Stream[int] { return FromSlice([]int{r}) },
		func(int) error { return boom },
	)
	_, err := drain(t, s)
	assert.ErrorIs(t, err, boom)
}

func TestBracket_acquireError(t *testing.T) {
	boom := errors.New("acquire failed")
	var released bool
	s := Bracket(
		func(context.Context) (int, error) { return 0, boom },
		func(_ context.Context, r int) Stream[int] { return FromSlice([]int{r}) },
		func(int) error { released = true; return nil },
	)
	_, err := drain(t, s)
	assert.ErrorIs(t, err, boom)
	assert.False(t, released)
}
