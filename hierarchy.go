// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Constraint is a wrapper interface containing comparable &
// constraints.Ordered; hierarchy identifiers must satisfy it.
type Constraint interface {
	comparable
	constraints.Ordered
}

type (
	// Hierarchy owns a forest of nodes indexed by identifier.
	//
	// Structural mutation of owned nodes happens exclusively through the
	// Hierarchy: on attach every node of the incoming subtree is indexed &
	// branded with the Hierarchy's token, locking direct Node detachment
	// until the Hierarchy releases it again.
	//
	// Synchronization is unnecessary, the type is designed for single write
	// multiple read.
	Hierarchy[T any, ID Constraint] struct {
		// cfg contains a pointer to a [Config] shared by the Hierarchy's
		// operations.
		cfg *Config

		// identify derives a node's index key from its payload; never
		// mutates the payload.
		identify func(T) ID

		// brand is the ownership token applied to every owned node.
		brand uuid.UUID

		// roots holds the forest's parentless nodes in insertion order.
		roots []*Node[T]

		// index maps identifiers to owned nodes, one entry per node
		// reachable from a root.
		index map[ID]*Node[T]

		// releases holds the brand release capability per owned node.
		releases map[ID]ReleaseFunc
	}

	// Config defines configuration options shared by a [Hierarchy]'s
	// operations.
	Config struct {
		// Logger for Hierarchy messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool
	}

	// Option defines the Hierarchy functional option type.
	Option[T any, ID Constraint] func(*Hierarchy[T, ID])
)

var defConfig = DefConfig()

// DefConfig obtains the package's default [Config].
func DefConfig() *Config {
	return &Config{
		Logger: logrus.New(),
		Debug:  false,
	}
}

// New instantiates an empty Hierarchy for the given identify function.
func New[T any, ID Constraint](identify func(T) ID, options ...Option[T, ID]) (h *Hierarchy[T, ID], err error) {
	if identify == nil {
		err = ErrNilIdentify
		return
	}

	h = &Hierarchy[T, ID]{
		cfg:      defConfig,
		identify: identify,
		brand:    uuid.New(),
		index:    make(map[ID]*Node[T]),
		releases: make(map[ID]ReleaseFunc),
	}

	for _, opt := range options {
		opt(h)
	}

	return
}

// WithConfig configures the [Hierarchy] [Config].
func WithConfig[T any, ID Constraint](cfg *Config) Option[T, ID] {
	return func(h *Hierarchy[T, ID]) { h.cfg = cfg }
}

// WithBrand overrides the generated ownership token.
func WithBrand[T any, ID Constraint](token uuid.UUID) Option[T, ID] {
	return func(h *Hierarchy[T, ID]) { h.brand = token }
}

// Config retrieves the [Hierarchy]'s Config.
func (h *Hierarchy[T, ID]) Config() *Config { return h.cfg }

// Identify applies the [Hierarchy]'s identify function to an item.
func (h *Hierarchy[T, ID]) Identify(item T) ID { return h.identify(item) }

// Brand retrieves the [Hierarchy]'s ownership token.
func (h *Hierarchy[T, ID]) Brand() uuid.UUID { return h.brand }

// Len counts the indexed nodes.
func (h *Hierarchy[T, ID]) Len() int { return len(h.index) }

// AttachRoot adds nodes, & their subtrees, to the Hierarchy's forest as
// roots.
//
// Every node must be parentless; every subtree member must be unbranded &
// carry an identifier unused across the forest & the batch. Failure leaves
// the Hierarchy unmodified.
func (h *Hierarchy[T, ID]) AttachRoot(ctx context.Context, nodes ...*Node[T]) (err error) {
	subtrees, err := h.admit(ctx, nodes, true)
	if err != nil {
		return
	}

	h.adopt(subtrees)
	h.roots = append(h.roots, nodes...)

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("attached %d root(s), forest size %d", len(nodes), len(h.index))
	}

	return
}

// Attach adds nodes, & their subtrees, to the Hierarchy as children of the
// node identified by parentID.
//
// Every node must be parentless; every subtree member must be unbranded &
// carry an identifier unused across the forest & the batch. Failure leaves
// the Hierarchy unmodified.
func (h *Hierarchy[T, ID]) Attach(ctx context.Context, parentID ID, nodes ...*Node[T]) (err error) {
	parent, ok := h.index[parentID]
	if !ok {
		return fmt.Errorf("parent (%v): %w", parentID, ErrIDNotFound)
	}

	subtrees, err := h.admit(ctx, nodes, false)
	if err != nil {
		return
	}

	h.adopt(subtrees)
	if err = parent.Attach(ctx, nodes...); err != nil {
		// Unreachable after admission; surface rather than swallow.
		return
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("attached %d node(s) under (%v), forest size %d", len(nodes), parentID, len(h.index))
	}

	return
}

// Detach releases nodes, & their subtrees, from the Hierarchy's ownership &
// index, then unlinks each given node from its structural parent.
//
// Given roots are removed from the roots list; they have no parent link to
// break. The released subtrees keep their internal structure & become
// caller-owned. Failure leaves the Hierarchy unmodified.
func (h *Hierarchy[T, ID]) Detach(ctx context.Context, nodes ...*Node[T]) (err error) {
	if len(nodes) < 1 {
		return ErrEmptyNodeSet
	}
	if err = ctx.Err(); err != nil {
		return
	}

	for _, node := range nodes {
		if node == nil {
			return ErrNilNode
		}

		id := h.identify(node.Value())
		owned, ok := h.index[id]
		if !ok || owned != node {
			return fmt.Errorf("(%v): %w", id, ErrIDNotFound)
		}
	}

	for _, node := range nodes {
		for _, member := range h.subtree(node) {
			memberID := h.identify(member.Value())
			if release, ok := h.releases[memberID]; ok {
				release()
			}
			delete(h.releases, memberID)
			delete(h.index, memberID)
		}

		if node.IsRoot() {
			h.removeRoot(node)
			continue
		}
		if err = node.DetachSelf(ctx); err != nil {
			return
		}
	}

	if h.cfg.Debug {
		h.cfg.Logger.Debugf("detached %d node(s), forest size %d", len(nodes), len(h.index))
	}

	return
}

// DetachByID resolves ids & performs [Hierarchy.Detach] on them.
func (h *Hierarchy[T, ID]) DetachByID(ctx context.Context, ids ...ID) (err error) {
	nodes, err := h.GetNodes(ctx, ids...)
	if err != nil {
		return
	}

	return h.Detach(ctx, nodes...)
}

// admit validates an attach batch, returning the flattened subtree per given
// node. No state changes on error.
func (h *Hierarchy[T, ID]) admit(ctx context.Context, nodes []*Node[T], asRoot bool) (subtrees [][]*Node[T], err error) {
	if len(nodes) < 1 {
		err = ErrEmptyNodeSet
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}

	subtrees = make([][]*Node[T], len(nodes))
	batch := make(map[ID]struct{}, len(nodes))

	for index, node := range nodes {
		if node == nil {
			err = ErrNilNode
			return
		}
		if !node.IsRoot() {
			if asRoot {
				err = fmt.Errorf("%w: (%v)", ErrNotRoot, node.Value())
			} else {
				err = fmt.Errorf("%w: (%v)", ErrAlreadyParented, node.Value())
			}
			return
		}

		members := h.subtree(node)
		for _, member := range members {
			if member.IsBranded() {
				err = fmt.Errorf("%w: (%v)", ErrAlreadyBranded, member.Value())
				return
			}

			id := h.identify(member.Value())
			if _, ok := h.index[id]; ok {
				err = fmt.Errorf("%w: (%v)", ErrDuplicateID, id)
				return
			}
			if _, ok := batch[id]; ok {
				err = fmt.Errorf("%w: (%v)", ErrDuplicateID, id)
				return
			}
			batch[id] = struct{}{}
		}

		subtrees[index] = members
	}

	return
}

// adopt brands & indexes previously admitted subtrees.
func (h *Hierarchy[T, ID]) adopt(subtrees [][]*Node[T]) {
	for _, members := range subtrees {
		for _, member := range members {
			id := h.identify(member.Value())

			// Admission guarantees an unbranded member & a valid token.
			release, _ := member.ApplyBrand(h.brand)
			h.index[id] = member
			h.releases[id] = release
		}
	}
}

// subtree flattens node & its descendants in level order.
//
// The walk runs under a background context: flattening is finite & the
// mutation paths depending on it must always see the complete member list.
func (h *Hierarchy[T, ID]) subtree(node *Node[T]) (members []*Node[T]) {
	ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
	go WalkGraph(context.Background(), []*Node[T]{node}, BreadthFirst, descendStep[T], ch)

	for resl := range ch {
		members = append(members, resl.Element)
	}

	return
}

// descendStep yields a node's children for tree & graph walks.
//
// Reads through childList: Search fans walks out over a pool, & concurrent
// readers must not touch the memoizing Children accessor.
func descendStep[T any](_ context.Context, current *Node[T], _ int) (next []*Node[T], action Action) {
	return current.childList(), ActionContinue
}

// removeRoot drops node from the roots list, preserving order.
func (h *Hierarchy[T, ID]) removeRoot(node *Node[T]) {
	for index, root := range h.roots {
		if root != node {
			continue
		}

		h.roots = append(h.roots[:index], h.roots[index+1:]...)
		return
	}
}

// GetNode retrieves the node for an id; fails on an unknown id.
func (h *Hierarchy[T, ID]) GetNode(_ context.Context, id ID) (node *Node[T], err error) {
	node, ok := h.index[id]
	if !ok {
		err = fmt.Errorf("(%v): %w", id, ErrIDNotFound)
	}

	return
}

// TryGetNode retrieves the node for an id; ok reports presence.
func (h *Hierarchy[T, ID]) TryGetNode(_ context.Context, id ID) (node *Node[T], ok bool) {
	node, ok = h.index[id]
	return
}

// GetNodes retrieves the nodes for a batch of ids; fails on any unknown id.
func (h *Hierarchy[T, ID]) GetNodes(ctx context.Context, ids ...ID) (nodes []*Node[T], err error) {
	nodes = make([]*Node[T], len(ids))
	for index, id := range ids {
		if nodes[index], err = h.GetNode(ctx, id); err != nil {
			nodes = nil
			return
		}
	}

	return
}

// Has checks for an id in the Hierarchy.
func (h *Hierarchy[T, ID]) Has(_ context.Context, id ID) (ok bool) {
	_, ok = h.index[id]
	return
}

// HasAny checks for at least one of the ids in the Hierarchy.
func (h *Hierarchy[T, ID]) HasAny(ctx context.Context, ids ...ID) bool {
	for _, id := range ids {
		if h.Has(ctx, id) {
			return true
		}
	}

	return false
}

// HasAll checks for every id in the Hierarchy.
func (h *Hierarchy[T, ID]) HasAll(ctx context.Context, ids ...ID) bool {
	for _, id := range ids {
		if !h.Has(ctx, id) {
			return false
		}
	}

	return true
}

// Roots retrieves the forest's parentless nodes in insertion order.
func (h *Hierarchy[T, ID]) Roots(_ context.Context) (roots []*Node[T]) {
	roots = make([]*Node[T], len(h.roots))
	copy(roots, h.roots)

	return
}

// Nodes retrieves every indexed node ordered by id.
func (h *Hierarchy[T, ID]) Nodes(ctx context.Context) (nodes []*Node[T]) {
	ids := h.IDs(ctx)

	nodes = make([]*Node[T], len(ids))
	for index, id := range ids {
		nodes[index] = h.index[id]
	}

	return
}

// IDs retrieves every indexed identifier in ascending order.
func (h *Hierarchy[T, ID]) IDs(_ context.Context) (ids []ID) {
	ids = make([]ID, 0, len(h.index))
	for id := range h.index {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return
}

// Items retrieves every indexed payload ordered by id.
func (h *Hierarchy[T, ID]) Items(ctx context.Context) (items []T) {
	nodes := h.Nodes(ctx)

	items = make([]T, len(nodes))
	for index, node := range nodes {
		items[index] = node.Value()
	}

	return
}

// Leaves retrieves every childless node ordered by id.
func (h *Hierarchy[T, ID]) Leaves(ctx context.Context) (leaves []*Node[T]) {
	for _, node := range h.Nodes(ctx) {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}

	return
}

// Walk performs a level-order walk over the whole forest, pushing results to
// ch; the channel is closed when the walk ends.
//
// Run under `go` & range over ch, per [WalkGraph].
func (h *Hierarchy[T, ID]) Walk(ctx context.Context, ch chan<- TraverseComm[*Node[T]]) {
	WalkGraph(ctx, h.roots, BreadthFirst, descendStep[T], ch)
}

// Ancestors walks the ancestor chain for an id, ordered nearest to farthest;
// with includeSelf the node itself leads the chain.
func (h *Hierarchy[T, ID]) Ancestors(ctx context.Context, id ID, includeSelf bool) (chain []*Node[T], err error) {
	node, err := h.GetNode(ctx, id)
	if err != nil {
		return
	}

	start := node
	if !includeSelf {
		if start = node.Parent(); start == nil {
			return
		}
	}

	ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
	go WalkChain(ctx, start, ascendStep[T], ch)

	for resl := range ch {
		chain = append(chain, resl.Element)
	}

	return
}

// ascendStep yields a node's parent for chain walks.
func ascendStep[T any](_ context.Context, current *Node[T]) (next *Node[T], ok bool, action Action) {
	next = current.Parent()
	return next, next != nil, ActionContinue
}

// Descendants walks the subtree below an id breadth-first; with includeSelf
// the node itself leads the result.
func (h *Hierarchy[T, ID]) Descendants(ctx context.Context, id ID, includeSelf bool) (nodes []*Node[T], err error) {
	node, err := h.GetNode(ctx, id)
	if err != nil {
		return
	}

	step := func(stepCtx context.Context, current *Node[T], depth int) ([]*Node[T], Action) {
		next, action := descendStep[T](stepCtx, current, depth)
		if depth == 0 && !includeSelf {
			action = ActionSkip
		}

		return next, action
	}

	ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
	go WalkGraph(ctx, []*Node[T]{node}, BreadthFirst, step, ch)

	for resl := range ch {
		nodes = append(nodes, resl.Element)
	}

	return
}

// CommonAncestor finds the nearest node on every given id's self-inclusive
// ancestor chain; an id that is an ancestor of all others resolves to its own
// node.
func (h *Hierarchy[T, ID]) CommonAncestor(ctx context.Context, ids ...ID) (node *Node[T], err error) {
	if len(ids) < 1 {
		err = ErrEmptyNodeSet
		return
	}

	first, err := h.Ancestors(ctx, ids[0], true)
	if err != nil {
		return
	}

	shared := make(map[*Node[T]]struct{}, len(first))
	for _, ancestor := range first {
		shared[ancestor] = struct{}{}
	}

	for _, id := range ids[1:] {
		var chain []*Node[T]
		if chain, err = h.Ancestors(ctx, id, true); err != nil {
			return
		}

		retain := make(map[*Node[T]]struct{}, len(chain))
		for _, ancestor := range chain {
			if _, ok := shared[ancestor]; ok {
				retain[ancestor] = struct{}{}
			}
		}
		shared = retain
	}

	// The first chain is ordered nearest to farthest; the first retained
	// entry is the closest common ancestor.
	for _, ancestor := range first {
		if _, ok := shared[ancestor]; ok {
			return ancestor, nil
		}
	}

	err = fmt.Errorf("%v: %w", ids, ErrNoCommonAncestor)

	return
}

// ChildMap projects the forest into an id to child-id adjacency map; childless
// nodes map to an empty set.
func (h *Hierarchy[T, ID]) ChildMap(ctx context.Context) (cm ChildMap[ID]) {
	cm = make(ChildMap[ID], len(h.index))
	for id, node := range h.index {
		children := node.Children()

		ids := make([]ID, len(children))
		for index, child := range children {
			ids[index] = h.identify(child.Value())
		}
		cm[id] = ids
	}

	return
}

// Relations projects the forest into an ordered relation list: one
// (parent, child) entry per edge, & one childless entry per isolated root.
func (h *Hierarchy[T, ID]) Relations(ctx context.Context) (relations RelationList[ID]) {
	for _, root := range h.roots {
		rootID := h.identify(root.Value())
		if root.IsLeaf() {
			relations = append(relations, Relation[ID]{Parent: rootID})
			continue
		}

		ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
		go WalkGraph(ctx, []*Node[T]{root}, BreadthFirst, descendStep[T], ch)

		for resl := range ch {
			parentID := h.identify(resl.Element.Value())
			for _, child := range resl.Element.Children() {
				childID := h.identify(child.Value())
				relations = append(relations, Relation[ID]{Parent: parentID, Child: &childID})
			}
		}
	}

	return
}

// Validate rechecks the Hierarchy's structural invariants: every indexed node
// is reachable from exactly one root, every reachable node is indexed & every
// index key still matches its node's recomputed identifier.
func (h *Hierarchy[T, ID]) Validate(ctx context.Context) (err error) {
	seen := make(map[ID]struct{}, len(h.index))

	ch := make(chan TraverseComm[*Node[T]], TraverseBufferSize)
	go h.Walk(ctx, ch)

	for resl := range ch {
		id := h.identify(resl.Element.Value())

		indexed, ok := h.index[id]
		if !ok || indexed != resl.Element {
			return fmt.Errorf("reachable node (%v) not indexed: %w", id, ErrIDNotFound)
		}
		if _, ok = seen[id]; ok {
			return fmt.Errorf("%w: (%v) reachable twice", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}

		if resl.Element.Brand() != h.brand {
			return fmt.Errorf("%w: (%v)", ErrBrandMismatch, id)
		}
	}

	if len(seen) != len(h.index) {
		return fmt.Errorf("%d indexed node(s) unreachable from the roots: %w", len(h.index)-len(seen), ErrIDNotFound)
	}

	return
}
