// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

type (
	// Relation pairs a parent identifier with an optional child identifier;
	// an absent child denotes an isolated node.
	Relation[ID Constraint] struct {
		Parent ID
		Child  *ID
	}

	// RelationList is a type wrapper for []Relation.
	RelationList[ID Constraint] []Relation[ID]

	// ChildMap maps an identifier to its ordered set of direct child
	// identifiers. Keys must cover every node that has children; an entry
	// with an empty set denotes an isolated node.
	ChildMap[ID Constraint] map[ID][]ID
)

// NewFromChildMap builds a Hierarchy from items & a ChildMap over their
// identifiers.
//
// Fails on an empty item set, duplicate item identifiers, map entries
// referencing unknown identifiers, an identifier claimed by two parents, or a
// source without a root (a cyclic source).
func NewFromChildMap[T any, ID Constraint](
	ctx context.Context, identify func(T) ID, items []T, cm ChildMap[ID], options ...Option[T, ID],
) (h *Hierarchy[T, ID], err error) {
	defer func() {
		if err == nil {
			return
		}

		cfg := defConfig
		if h != nil {
			cfg = h.cfg
		}
		if cfg.Debug {
			cfg.Logger.Debugf("source remnants: %s", spew.Sprint(cm))
		}

		h, err = nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}()

	if h, err = New(identify, options...); err != nil {
		return
	}
	if len(items) < 1 {
		err = ErrEmptySource
		return
	}

	nodes := make(map[ID]*Node[T], len(items))
	order := make([]ID, len(items))
	for index, item := range items {
		id := identify(item)
		if _, ok := nodes[id]; ok {
			err = fmt.Errorf("%w: (%v)", ErrDuplicateSourceID, id)
			return
		}

		nodes[id], order[index] = NewNode(item), id
	}

	for parentID, childIDs := range cm {
		if _, ok := nodes[parentID]; !ok {
			err = fmt.Errorf("%w: parent (%v)", ErrUnknownSourceID, parentID)
			return
		}
		for _, childID := range childIDs {
			if _, ok := nodes[childID]; !ok {
				err = fmt.Errorf("%w: child (%v)", ErrUnknownSourceID, childID)
				return
			}
		}
	}

	// Deterministic linking: item order for parents, entry order for
	// children.
	for _, parentID := range order {
		childIDs, ok := cm[parentID]
		if !ok || len(childIDs) < 1 {
			continue
		}

		children := make([]*Node[T], len(childIDs))
		for index, childID := range childIDs {
			children[index] = nodes[childID]
		}

		if err = nodes[parentID].Attach(ctx, children...); err != nil {
			return
		}
	}

	roots := make([]*Node[T], 0, len(order))
	for _, id := range order {
		if nodes[id].IsRoot() {
			roots = append(roots, nodes[id])
		}
	}
	if len(roots) < 1 {
		err = ErrMissingRootNode
		return
	}

	if err = h.AttachRoot(ctx, roots...); err != nil {
		return
	}

	// A cyclic component beside a valid root leaves its nodes unreachable.
	if h.Len() != len(order) {
		err = fmt.Errorf("%w: %d node(s) unreachable from any root", ErrMissingRootNode, len(order)-h.Len())
	}

	return
}

// NewFromRelations builds a Hierarchy from items & an ordered relation list
// over their identifiers.
//
// Duplicate relations collapse; failure modes follow [NewFromChildMap].
func NewFromRelations[T any, ID Constraint](
	ctx context.Context, identify func(T) ID, items []T, relations RelationList[ID], options ...Option[T, ID],
) (h *Hierarchy[T, ID], err error) {
	cm := make(ChildMap[ID], len(relations))
	for _, relation := range relations {
		if _, ok := cm[relation.Parent]; !ok {
			cm[relation.Parent] = nil
		}
		if relation.Child != nil {
			cm[relation.Parent] = append(cm[relation.Parent], *relation.Child)
		}
	}

	return NewFromChildMap(ctx, identify, items, cm, options...)
}

// NewFromHierarchy builds an independent copy of src: shared item references,
// new nodes, a new brand. Mutating the copy never affects src.
func NewFromHierarchy[T any, ID Constraint](
	ctx context.Context, src *Hierarchy[T, ID], options ...Option[T, ID],
) (h *Hierarchy[T, ID], err error) {
	if src.Len() < 1 {
		return New(src.identify, options...)
	}

	return NewFromChildMap(ctx, src.identify, src.Items(ctx), src.ChildMap(ctx), options...)
}
