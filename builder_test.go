// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromChildMap(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		items   []string
		cm      ChildMap[string]
		wantErr error
	}{
		{
			name:  "forest with an isolated node",
			items: []string{"A", "A1", "A2", "B"},
			cm:    ChildMap[string]{"A": {"A1", "A2"}, "B": {}},
		},
		{
			name:    "empty source",
			items:   nil,
			cm:      ChildMap[string]{},
			wantErr: ErrEmptySource,
		},
		{
			name:    "duplicate item id",
			items:   []string{"A", "A"},
			cm:      ChildMap[string]{},
			wantErr: ErrDuplicateSourceID,
		},
		{
			name:    "unknown parent key",
			items:   []string{"A"},
			cm:      ChildMap[string]{"Z": {"A"}},
			wantErr: ErrUnknownSourceID,
		},
		{
			name:    "unknown child id",
			items:   []string{"A"},
			cm:      ChildMap[string]{"A": {"Z"}},
			wantErr: ErrUnknownSourceID,
		},
		{
			name:    "child claimed by two parents",
			items:   []string{"A", "B", "C"},
			cm:      ChildMap[string]{"A": {"C"}, "B": {"C"}},
			wantErr: ErrAlreadyParented,
		},
		{
			name:    "cyclic source lacks a root",
			items:   []string{"A", "B"},
			cm:      ChildMap[string]{"A": {"B"}, "B": {"A"}},
			wantErr: ErrMissingRootNode,
		},
		{
			name:    "cyclic component beside a valid root",
			items:   []string{"A", "B", "C"},
			cm:      ChildMap[string]{"B": {"C"}, "C": {"B"}},
			wantErr: ErrMissingRootNode,
		},
		{
			name:    "self cycle",
			items:   []string{"A"},
			cm:      ChildMap[string]{"A": {"A"}},
			wantErr: ErrSelfLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewFromChildMap(ctx, identity, tt.items, tt.cm)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrBuild)
				assert.Nil(t, h)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.items), h.Len())
			assert.NoError(t, h.Validate(ctx))
		})
	}
}

func TestNewFromChildMapStructure(t *testing.T) {
	ctx := context.Background()

	h, err := NewFromChildMap(
		ctx,
		identity,
		[]string{"A", "A1", "A2", "B"},
		ChildMap[string]{"A": {"A1", "A2"}},
	)
	require.NoError(t, err)

	roots := h.Roots(ctx)
	require.Equal(t, []string{"A", "B"}, values(roots))

	a, err := h.GetNode(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, values(a.Children()))

	// Builder failures carry the bad-argument category.
	_, err = NewFromChildMap(ctx, identity, nil, nil)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestNewFromRelations(t *testing.T) {
	ctx := context.Background()

	child := func(id string) *string { return &id }

	relations := RelationList[string]{
		{Parent: "A", Child: child("A1")},
		{Parent: "A", Child: child("A2")},
		{Parent: "A", Child: child("A1")}, // Duplicate edge collapses.
		{Parent: "B"},                     // Isolated node.
	}

	h, err := NewFromRelations(ctx, identity, []string{"A", "A1", "A2", "B"}, relations)
	require.NoError(t, err)

	a, err := h.GetNode(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, values(a.Children()))

	b, err := h.GetNode(ctx, "B")
	require.NoError(t, err)
	assert.False(t, b.IsLinked())
}

func TestNewFromHierarchy(t *testing.T) {
	ctx := context.Background()
	src := sample(t)

	dup, err := NewFromHierarchy(ctx, src)
	require.NoError(t, err)

	assert.NotEqual(t, src.Brand(), dup.Brand())
	assert.Equal(t, src.IDs(ctx), dup.IDs(ctx))

	// Same items, different nodes.
	srcNode, err := src.GetNode(ctx, "A1")
	require.NoError(t, err)
	dupNode, err := dup.GetNode(ctx, "A1")
	require.NoError(t, err)
	assert.NotSame(t, srcNode, dupNode)

	// Mutating the copy leaves the source untouched.
	require.NoError(t, dup.DetachByID(ctx, "A1"))
	assert.Equal(t, 2, dup.Len())
	assert.Equal(t, 5, src.Len())
	assert.NoError(t, src.Validate(ctx))

	empty, err := New(identity)
	require.NoError(t, err)
	emptyDup, err := NewFromHierarchy(ctx, empty)
	require.NoError(t, err)
	assert.Zero(t, emptyDup.Len())
}
