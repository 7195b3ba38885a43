// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type (
	// Node is a doubly linked unit wrapping a single payload value.
	//
	// A Node holds at most one parent reference & an ordered, duplicate-free
	// list of children. Linking two nodes requires compatible brands: both
	// unbranded, or both branded with the same token.
	//
	// Synchronization is unnecessary, the type is designed for single write
	// multiple read.
	Node[T any] struct {
		value T

		// parent contains a reference to the upper Node.
		parent *Node[T]

		// children holds references to nodes at a lower level, in insertion
		// order.
		children []*Node[T]

		// childView caches the slice returned by Children; invalidated on
		// structural change.
		childView []*Node[T]

		// brand holds the ownership token; uuid.Nil marks an unbranded node.
		brand uuid.UUID
	}

	// ReleaseFunc clears a node's brand. It is one-shot; subsequent calls are
	// no-ops.
	ReleaseFunc func()
)

// NewNode instantiates an unlinked, unbranded Node.
func NewNode[T any](value T) *Node[T] { return &Node[T]{value: value} }

// Value retrieves the Node's payload.
func (n *Node[T]) Value() T { return n.value }

// SetValue replaces the Node's payload.
func (n *Node[T]) SetValue(value T) { n.value = value }

// Parent retrieves the Node's parent reference; nil for a root.
func (n *Node[T]) Parent() *Node[T] { return n.parent }

// Brand retrieves the Node's ownership token; uuid.Nil for an unbranded node.
func (n *Node[T]) Brand() uuid.UUID { return n.brand }

// IsBranded checks whether the Node holds an ownership token.
func (n *Node[T]) IsBranded() bool { return n.brand != uuid.Nil }

// IsRoot checks whether the Node lacks a parent.
func (n *Node[T]) IsRoot() bool { return n.parent == nil }

// IsLeaf checks whether the Node lacks children.
func (n *Node[T]) IsLeaf() bool { return len(n.children) == 0 }

// IsLinked checks whether the Node has a parent or at least one child.
func (n *Node[T]) IsLinked() bool { return n.parent != nil || len(n.children) > 0 }

// Children retrieves a read view of the Node's children in insertion order.
//
// The view is cached between structural changes; a childless Node yields the
// shared nil slice. Callers must not retain the view across mutations.
func (n *Node[T]) Children() []*Node[T] {
	if len(n.children) == 0 {
		return nil
	}

	if n.childView == nil {
		view := make([]*Node[T], len(n.children))
		copy(view, n.children)
		n.childView = view
	}

	return n.childView
}

// childList retrieves the internal child slice for read-only walks. Unlike
// Children it never writes to the Node, so concurrent readers stay safe.
func (n *Node[T]) childList() []*Node[T] { return n.children }

// NumChildren counts the Node's immediate children.
func (n *Node[T]) NumChildren() int { return len(n.children) }

// HasChild checks whether child is an immediate child of the Node.
func (n *Node[T]) HasChild(child *Node[T]) bool {
	for _, c := range n.children {
		if c == child {
			return true
		}
	}

	return false
}

// IsBrandCompatible checks whether two nodes may be linked: both unbranded, or
// both branded with equal tokens.
func (n *Node[T]) IsBrandCompatible(other *Node[T]) bool {
	return other != nil && n.brand == other.brand
}

// ApplyBrand attaches an ownership token to the Node, returning the release
// capability that clears it.
//
// Fails on a nil token or an already branded Node.
func (n *Node[T]) ApplyBrand(token uuid.UUID) (release ReleaseFunc, err error) {
	if token == uuid.Nil {
		err = ErrNilBrand
		return
	}
	if n.brand != uuid.Nil {
		err = fmt.Errorf("%w (%v)", ErrAlreadyBranded, n.brand)
		return
	}

	n.brand = token

	released := false
	release = func() {
		if released {
			return
		}
		released = true
		n.brand = uuid.Nil
	}

	return
}

// Attach links children to the Node.
//
// Every candidate must be a root & brand-compatible with the Node; a candidate
// that is already a child of the Node is a no-op, not an error. Validation
// precedes mutation: on failure no candidate is linked.
func (n *Node[T]) Attach(_ context.Context, nodes ...*Node[T]) (err error) {
	if len(nodes) < 1 {
		return ErrEmptyNodeSet
	}

	for _, node := range nodes {
		if node == n {
			return ErrSelfLink
		}
		if n.HasChild(node) {
			continue
		}
		if node.parent != nil {
			return fmt.Errorf("%w: (%v)", ErrAlreadyParented, node.value)
		}
		if !n.IsBrandCompatible(node) {
			return fmt.Errorf("%w: (%v) & (%v)", ErrBrandMismatch, n.value, node.value)
		}
	}

	for _, node := range nodes {
		if n.HasChild(node) {
			continue
		}

		node.parent = n
		n.children = append(n.children, node)
	}
	n.childView = nil

	return
}

// Detach unlinks immediate children from the Node.
//
// Every candidate must be a current child & unbranded; branded children are
// released by their owning Hierarchy, never detached directly. Validation
// precedes mutation.
func (n *Node[T]) Detach(_ context.Context, nodes ...*Node[T]) (err error) {
	if len(nodes) < 1 {
		return ErrEmptyNodeSet
	}

	for _, node := range nodes {
		if !n.HasChild(node) {
			return fmt.Errorf("%w: (%v) of (%v)", ErrNotChild, node.value, n.value)
		}
		if node.brand != uuid.Nil {
			return fmt.Errorf("%w: (%v)", ErrBrandedNode, node.value)
		}
	}

	for _, node := range nodes {
		for index, c := range n.children {
			if c != node {
				continue
			}

			n.children = append(n.children[:index], n.children[index+1:]...)
			node.parent = nil

			break
		}
	}
	n.childView = nil

	return
}

// DetachSelf unlinks the Node from its parent.
//
// Fails on a root or a branded Node.
func (n *Node[T]) DetachSelf(ctx context.Context) (err error) {
	if n.parent == nil {
		return fmt.Errorf("%w: (%v)", ErrRootNode, n.value)
	}
	if n.brand != uuid.Nil {
		return fmt.Errorf("%w: (%v)", ErrBrandedNode, n.value)
	}

	return n.parent.Detach(ctx, n)
}

// Dismantle cascades DetachSelf over every descendant of the Node, reducing
// its subtree to the Node alone.
//
// With includeAncestry the Node additionally detaches from its parent & the
// dismantling continues upward, unwinding the whole connected structure to
// isolated nodes. Branded nodes abort the cascade per the Detach contract.
func (n *Node[T]) Dismantle(ctx context.Context, includeAncestry bool) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	children := make([]*Node[T], len(n.children))
	copy(children, n.children)

	for _, child := range children {
		if err = child.Dismantle(ctx, false); err != nil {
			return
		}
		if err = child.DetachSelf(ctx); err != nil {
			return
		}
	}

	if !includeAncestry || n.parent == nil {
		return
	}

	parent := n.parent
	if err = n.DetachSelf(ctx); err != nil {
		return
	}

	return parent.Dismantle(ctx, true)
}

// Equal checks value equality for two nodes, ignoring link & brand state.
func Equal[T comparable](a, b *Node[T]) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.value == b.value
}
