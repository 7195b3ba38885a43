// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Include selects which facets of a search seed appear in the pruned result.
type Include uint8

const (
	// IncludeMatches retains the seed nodes themselves.
	IncludeMatches Include = 1 << iota

	// IncludeAncestors retains every node on a seed's ancestor chain.
	IncludeAncestors

	// IncludeDescendants retains every node of a seed's subtree.
	IncludeDescendants
)

// searchPoolSize bounds the per-seed collection fan-out.
const searchPoolSize = 8

// Has checks whether flag is part of the inclusion.
func (i Include) Has(flag Include) bool { return i&flag != 0 }

// Search derives an independent Hierarchy from the seeds & an inclusion
// policy, preserving the source's relative structure over the retained nodes.
//
// Seeds absent from the Hierarchy are skipped silently. The result shares
// item references with the source but owns new nodes under a new brand;
// mutating it never affects the source. Retained nodes reconnect through
// whichever of their immediate source relatives were also retained, so a
// bare IncludeMatches seed stays isolated unless another seed contributes
// its neighborhood.
//
// Collection fans out over a worker pool; this is a pure read of the source.
func (h *Hierarchy[T, ID]) Search(ctx context.Context, include Include, seedIDs ...ID) (result *Hierarchy[T, ID], err error) {
	if include == 0 || include > IncludeMatches|IncludeAncestors|IncludeDescendants {
		return nil, fmt.Errorf("(%b): %w", include, ErrEmptyInclude)
	}

	pool, err := ants.NewPool(searchPoolSize)
	if err != nil {
		return nil, fmt.Errorf("search pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		collected = make(map[ID]*Node[T])
		wg        sync.WaitGroup
	)

	for _, seedID := range seedIDs {
		node, ok := h.index[seedID]
		if !ok {
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()

			gathered := h.collect(ctx, node, include)

			mu.Lock()
			for id, member := range gathered {
				collected[id] = member
			}
			mu.Unlock()
		}

		if err = pool.Submit(task); err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("search pool: %w", err)
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("search over %d seed(s) collected %d node(s)", len(seedIDs), len(collected))
	}

	if len(collected) < 1 {
		return New(h.identify, WithConfig[T, ID](h.cfg))
	}

	return h.assemble(ctx, collected)
}

// collect gathers one seed's contribution to a search result.
func (h *Hierarchy[T, ID]) collect(ctx context.Context, seed *Node[T], include Include) (gathered map[ID]*Node[T]) {
	gathered = make(map[ID]*Node[T])
	add := func(node *Node[T]) { gathered[h.identify(node.Value())] = node }

	if include.Has(IncludeMatches) {
		add(seed)
	}

	if include.Has(IncludeAncestors) && seed.Parent() != nil {
		ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
		go WalkChain(ctx, seed.Parent(), ascendStep[T], ch)

		for resl := range ch {
			add(resl.Element)
		}
	}

	if include.Has(IncludeDescendants) {
		step := func(stepCtx context.Context, current *Node[T], depth int) ([]*Node[T], Action) {
			next, action := descendStep[T](stepCtx, current, depth)
			if depth == 0 {
				// The seed's own membership is governed by IncludeMatches.
				action = ActionSkip
			}

			return next, action
		}

		ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
		go WalkGraph(ctx, []*Node[T]{seed}, BreadthFirst, step, ch)

		for resl := range ch {
			add(resl.Element)
		}
	}

	return
}

// assemble builds the result Hierarchy over the collected nodes, keeping
// exactly the source edges whose both endpoints were collected.
func (h *Hierarchy[T, ID]) assemble(ctx context.Context, collected map[ID]*Node[T]) (result *Hierarchy[T, ID], err error) {
	items := make([]T, 0, len(collected))
	cm := make(ChildMap[ID], len(collected))

	for _, node := range h.Nodes(ctx) {
		id := h.identify(node.Value())
		if _, ok := collected[id]; !ok {
			continue
		}

		items = append(items, node.Value())

		var childIDs []ID
		for _, child := range node.Children() {
			childID := h.identify(child.Value())
			if _, ok := collected[childID]; ok {
				childIDs = append(childIDs, childID)
			}
		}
		cm[id] = childIDs
	}

	return NewFromChildMap(ctx, h.identify, items, cm, WithConfig[T, ID](h.cfg))
}
