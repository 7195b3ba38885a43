// SPDX-License-Identifier: MIT
package treekit

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

// Every failure in this package is synchronous & leaves the structure it was
// aimed at unmodified. The sentinels wrap an [errdefs] class so callers can
// branch on the category (errdefs.IsInvalidArgument, errdefs.IsNotFound,
// errdefs.IsFailedPrecondition) or on the exact sentinel via errors.Is.

// Argument validation errors.
var (
	ErrEmptyNodeSet = fmt.Errorf("one or more nodes required: %w", errdefs.ErrInvalidArgument)
	ErrNilNode      = fmt.Errorf("nil node: %w", errdefs.ErrInvalidArgument)
	ErrNilBrand     = fmt.Errorf("nil brand token: %w", errdefs.ErrInvalidArgument)
	ErrNilIdentify  = fmt.Errorf("nil identify function: %w", errdefs.ErrInvalidArgument)
	ErrEmptyInclude = fmt.Errorf("empty search inclusion: %w", errdefs.ErrInvalidArgument)
	ErrEmptySource  = fmt.Errorf("empty build source: %w", errdefs.ErrInvalidArgument)
)

// Structural invariant violations.
var (
	ErrAlreadyBranded  = fmt.Errorf("node is already branded: %w", errdefs.ErrFailedPrecondition)
	ErrBrandMismatch   = fmt.Errorf("brand mismatch: %w", errdefs.ErrFailedPrecondition)
	ErrBrandedNode     = fmt.Errorf("node is branded: %w", errdefs.ErrFailedPrecondition)
	ErrAlreadyParented = fmt.Errorf("node already has a parent: %w", errdefs.ErrFailedPrecondition)
	ErrNotChild        = fmt.Errorf("node is not a child: %w", errdefs.ErrFailedPrecondition)
	ErrRootNode        = fmt.Errorf("node is a root: %w", errdefs.ErrFailedPrecondition)
	ErrNotRoot         = fmt.Errorf("node is not a root: %w", errdefs.ErrFailedPrecondition)
	ErrSelfLink        = fmt.Errorf("node cannot link to itself: %w", errdefs.ErrFailedPrecondition)
	ErrDuplicateID     = fmt.Errorf("duplicate id: %w", errdefs.ErrFailedPrecondition)
)

// Lookup errors.
var (
	ErrIDNotFound       = fmt.Errorf("id not found: %w", errdefs.ErrNotFound)
	ErrNoCommonAncestor = fmt.Errorf("no common ancestor: %w", errdefs.ErrNotFound)
)

// Build & (de)serialization errors.
var (
	ErrBuild                 = errors.New("failed to build hierarchy")
	ErrMissingRootNode       = fmt.Errorf("missing root node; source is cyclic: %w", errdefs.ErrInvalidArgument)
	ErrUnknownSourceID       = fmt.Errorf("source references an unknown id: %w", errdefs.ErrInvalidArgument)
	ErrDuplicateSourceID     = fmt.Errorf("duplicate id in build source: %w", errdefs.ErrInvalidArgument)
	ErrEmptyDeserializeSrc   = fmt.Errorf("empty deserialization source: %w", errdefs.ErrInvalidArgument)
	ErrExcessiveValues       = fmt.Errorf("deserialization source has values in excess: %w", errdefs.ErrInvalidArgument)
	ErrExcessiveEndMarkers   = fmt.Errorf("deserialization source has end markers in excess: %w", errdefs.ErrInvalidArgument)
	ErrInvalidSerializedForm = fmt.Errorf("invalid serialized hierarchy: %w", errdefs.ErrInvalidArgument)
)
