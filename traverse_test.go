// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[E any](ch <-chan TraverseComm[E]) (resl []TraverseComm[E]) {
	for comm := range ch {
		resl = append(resl, comm)
	}

	return
}

func elements[E any](comms []TraverseComm[E]) (out []E) {
	for _, comm := range comms {
		out = append(out, comm.Element)
	}

	return
}

func TestWalkChain(t *testing.T) {
	ctx := context.Background()

	countdown := func(_ context.Context, current int) (int, bool, Action) {
		return current - 1, current > 0, ActionContinue
	}

	t.Run("walks to exhaustion", func(t *testing.T) {
		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkChain(ctx, 3, countdown, ch)

		comms := drain(ch)

		assert.Equal(t, []int{3, 2, 1, 0}, elements(comms))
		assert.Equal(t, 3, comms[len(comms)-1].Depth)
		for _, comm := range comms {
			// Depth advances every step; each emission opens a level.
			assert.True(t, comm.NewLevel)
		}
	})

	t.Run("skip excludes without ending the chain", func(t *testing.T) {
		skipOdd := func(stepCtx context.Context, current int) (int, bool, Action) {
			next, ok, _ := countdown(stepCtx, current)
			if current%2 != 0 {
				return next, ok, ActionSkip
			}

			return next, ok, ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkChain(ctx, 4, skipOdd, ch)

		assert.Equal(t, []int{4, 2, 0}, elements(drain(ch)))
	})

	t.Run("stop emits the current element then aborts", func(t *testing.T) {
		stopAtTwo := func(stepCtx context.Context, current int) (int, bool, Action) {
			next, ok, _ := countdown(stepCtx, current)
			if current == 2 {
				return next, ok, ActionStop
			}

			return next, ok, ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkChain(ctx, 4, stopAtTwo, ch)

		assert.Equal(t, []int{4, 3, 2}, elements(drain(ch)))
	})

	t.Run("cancellation abandons the walk", func(t *testing.T) {
		walkCtx, cancel := context.WithCancel(ctx)
		cancel()

		ch := make(chan TraverseComm[int])
		go WalkChain(walkCtx, 3, countdown, ch)

		assert.Empty(t, drain(ch))
	})
}

func TestWalkTree(t *testing.T) {
	ctx := context.Background()

	//  1        2
	//  ├─ 10    └─ 20
	//  └─ 11
	adjacency := map[int][]int{1: {10, 11}, 2: {20}}
	descend := func(_ context.Context, current int, _ int) ([]int, Action) {
		return adjacency[current], ActionContinue
	}

	t.Run("level order over multiple roots", func(t *testing.T) {
		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkTree(ctx, []int{1, 2}, descend, ch)

		comms := drain(ch)

		require.Equal(t, []int{1, 2, 10, 11, 20}, elements(comms))
		assert.Equal(t, []int{0, 0, 1, 1, 1}, depths(comms))
		assert.True(t, comms[0].NewLevel)
		assert.False(t, comms[1].NewLevel)
		assert.True(t, comms[2].NewLevel)
		assert.False(t, comms[4].NewLevel)
	})

	t.Run("skip excludes the element but keeps its frontier", func(t *testing.T) {
		step := func(stepCtx context.Context, current int, depth int) ([]int, Action) {
			next, _ := descend(stepCtx, current, depth)
			if current == 1 {
				return next, ActionSkip
			}

			return next, ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkTree(ctx, []int{1, 2}, step, ch)

		assert.Equal(t, []int{2, 10, 11, 20}, elements(drain(ch)))
	})

	t.Run("stop aborts the remaining frontier", func(t *testing.T) {
		step := func(stepCtx context.Context, current int, depth int) ([]int, Action) {
			next, _ := descend(stepCtx, current, depth)
			if current == 2 {
				return next, ActionStop
			}

			return next, ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkTree(ctx, []int{1, 2}, step, ch)

		assert.Equal(t, []int{1, 2}, elements(drain(ch)))
	})
}

func TestWalkGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("cyclic chain visits each element exactly once", func(t *testing.T) {
		const n = 5
		ring := func(_ context.Context, current int, _ int) ([]int, Action) {
			return []int{(current + 1) % n}, ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkGraph(ctx, []int{0}, BreadthFirst, ring, ch)

		assert.Equal(t, []int{0, 1, 2, 3, 4}, elements(drain(ch)))
	})

	t.Run("overlapping roots deduplicate", func(t *testing.T) {
		adjacency := map[int][]int{1: {10}, 10: {100}}
		step := func(_ context.Context, current int, _ int) ([]int, Action) {
			return adjacency[current], ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkGraph(ctx, []int{1, 10}, BreadthFirst, step, ch)

		comms := drain(ch)

		assert.Equal(t, []int{1, 10, 100}, elements(comms))
		// 10 was supplied as a root: its depth is from the nearest root.
		assert.Equal(t, []int{0, 0, 1}, depths(comms))
	})

	t.Run("depth first explores a branch to its end", func(t *testing.T) {
		adjacency := map[int][]int{1: {2, 3}, 2: {4}, 3: {5}}
		step := func(_ context.Context, current int, _ int) ([]int, Action) {
			return adjacency[current], ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkGraph(ctx, []int{1}, DepthFirst, step, ch)

		assert.Equal(t, []int{1, 2, 4, 3, 5}, elements(drain(ch)))
	})

	t.Run("breadth first explores level by level", func(t *testing.T) {
		adjacency := map[int][]int{1: {2, 3}, 2: {4}, 3: {5}}
		step := func(_ context.Context, current int, _ int) ([]int, Action) {
			return adjacency[current], ActionContinue
		}

		ch := make(chan TraverseComm[int], TraverseBufferSize)
		go WalkGraph(ctx, []int{1}, BreadthFirst, step, ch)

		comms := drain(ch)

		assert.Equal(t, []int{1, 2, 3, 4, 5}, elements(comms))
		assert.Equal(t, []int{0, 1, 1, 2, 2}, depths(comms))
	})
}

func depths[E any](comms []TraverseComm[E]) (out []int) {
	for _, comm := range comms {
		out = append(out, comm.Depth)
	}

	return
}
