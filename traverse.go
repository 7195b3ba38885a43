// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
)

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal

type (
	// Action controls a walk from inside a step function.
	Action int

	// Order selects the frontier discipline for WalkGraph.
	Order int

	// TraverseComm carries one traversal result to the consuming channel.
	TraverseComm[E any] struct {
		// Element is the visited element.
		Element E

		// Depth is the distance from the nearest supplied root; 0 for the
		// roots themselves. Chain walks count steps from the start element.
		Depth int

		// NewLevel marks the first element emitted at a new depth. Chain
		// walks advance depth on every step, so each of their emissions
		// starts a new level.
		NewLevel bool
	}

	// ChainStep yields the element following current in a single-chain walk;
	// ok reports whether next exists. The Action governs the current element.
	ChainStep[E any] func(ctx context.Context, current E) (next E, ok bool, action Action)

	// TreeStep yields the next frontier for current in a tree or graph walk.
	// The Action governs the current element; an empty next means no further
	// descent on this branch.
	TreeStep[E any] func(ctx context.Context, current E, depth int) (next []E, action Action)

	// frame pairs an element with its distance from the walk's roots.
	frame[E any] struct {
		element E
		depth   int
	}
)

const (
	// ActionContinue emits the current element & proceeds.
	ActionContinue Action = iota

	// ActionSkip excludes the current element from the output without
	// affecting already queued elements.
	ActionSkip

	// ActionStop emits the current element, then aborts the entire walk.
	ActionStop
)

const (
	// BreadthFirst explores the frontier as a queue, nearest level first.
	BreadthFirst Order = iota

	// DepthFirst explores the frontier as a stack, one branch at a time.
	DepthFirst
)

// TraverseBufferSize is the recommended capacity for walk channels.
const TraverseBufferSize = 10

// WalkChain performs a lazy single-chain walk from start, pushing results to
// ch until the step function withholds a successor or aborts.
//
// The channel is closed on return; run under `go` & range over ch. Each call
// restarts the walk. Cancel ctx to abandon an unconsumed walk.
func WalkChain[E any](ctx context.Context, start E, step ChainStep[E], ch chan<- TraverseComm[E]) {
	defer close(ch)

	current, depth := start, 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		next, ok, action := step(ctx, current)
		if action != ActionSkip {
			ch <- TraverseComm[E]{Element: current, Depth: depth, NewLevel: true}
		}
		if action == ActionStop || !ok {
			return
		}

		current = next
		depth++
	}
}

// WalkTree performs a lazy breadth-first walk over the supplied roots,
// assuming an acyclic structure; a cycle reachable from the roots loops
// forever & is a caller error.
//
// The channel is closed on return; run under `go` & range over ch.
func WalkTree[E any](ctx context.Context, roots []E, step TreeStep[E], ch chan<- TraverseComm[E]) {
	defer close(ch)

	queue := make([]frame[E], 0, len(roots))
	for _, root := range roots {
		queue = append(queue, frame[E]{element: root})
	}

	lastDepth := -1
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var front frame[E]
		front, queue = queue[0], queue[1:]

		next, action := step(ctx, front.element, front.depth)
		if action != ActionSkip {
			ch <- TraverseComm[E]{
				Element:  front.element,
				Depth:    front.depth,
				NewLevel: front.depth != lastDepth,
			}
			lastDepth = front.depth
		}
		if action == ActionStop {
			return
		}

		for _, element := range next {
			queue = append(queue, frame[E]{element: element, depth: front.depth + 1})
		}
	}
}

// WalkGraph performs a lazy cycle-safe walk over the supplied roots.
//
// Already visited elements are dropped silently before the step function
// runs, making the walk terminate on cyclic structures & deduplicating
// overlapping root subtrees. Depth is the distance from the nearest root.
//
// The channel is closed on return; run under `go` & range over ch.
func WalkGraph[E comparable](ctx context.Context, roots []E, order Order, step TreeStep[E], ch chan<- TraverseComm[E]) {
	defer close(ch)

	frontier := make([]frame[E], 0, len(roots))
	for _, root := range roots {
		frontier = append(frontier, frame[E]{element: root})
	}

	visited := make(map[E]struct{}, len(roots))
	lastDepth := -1

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var front frame[E]
		switch order {
		case DepthFirst:
			last := len(frontier) - 1
			front, frontier = frontier[last], frontier[:last]
		default:
			front, frontier = frontier[0], frontier[1:]
		}

		if _, ok := visited[front.element]; ok {
			continue
		}
		visited[front.element] = struct{}{}

		next, action := step(ctx, front.element, front.depth)
		if action != ActionSkip {
			ch <- TraverseComm[E]{
				Element:  front.element,
				Depth:    front.depth,
				NewLevel: front.depth != lastDepth,
			}
			lastDepth = front.depth
		}
		if action == ActionStop {
			return
		}

		if order == DepthFirst {
			// Reversed push so the first yielded element surfaces first.
			for index := len(next) - 1; index >= 0; index-- {
				frontier = append(frontier, frame[E]{element: next[index], depth: front.depth + 1})
			}

			continue
		}

		for _, element := range next {
			frontier = append(frontier, frame[E]{element: element, depth: front.depth + 1})
		}
	}
}
