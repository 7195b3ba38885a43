// SPDX-License-Identifier: MIT
package treekit

import (
	"golang.org/x/exp/slices"
)

type (
	// Diff classifies the difference between two child maps keyed by id.
	Diff[ID Constraint] struct {
		// Deleted holds ids keyed in the old map only.
		Deleted []ID

		// Inserted holds ids keyed in the new map only.
		Inserted []ID

		// Added maps a shared id to children present in the new map only.
		Added map[ID][]ID

		// Removed maps a shared id to children present in the old map only.
		Removed map[ID][]ID
	}
)

// DiffChildMaps classifies old vs new by set difference per key.
//
// A pure function over the maps; child order is ignored & all output slices
// are sorted for determinism.
func DiffChildMaps[ID Constraint](oldCM, newCM ChildMap[ID]) (diff Diff[ID]) {
	diff = Diff[ID]{
		Added:   make(map[ID][]ID),
		Removed: make(map[ID][]ID),
	}

	for id, oldChildren := range oldCM {
		newChildren, ok := newCM[id]
		if !ok {
			diff.Deleted = append(diff.Deleted, id)
			continue
		}

		if added := difference(newChildren, oldChildren); len(added) > 0 {
			diff.Added[id] = added
		}
		if removed := difference(oldChildren, newChildren); len(removed) > 0 {
			diff.Removed[id] = removed
		}
	}

	for id := range newCM {
		if _, ok := oldCM[id]; !ok {
			diff.Inserted = append(diff.Inserted, id)
		}
	}

	slices.Sort(diff.Deleted)
	slices.Sort(diff.Inserted)

	return
}

// IsZero checks whether the diff carries no changes.
func (d Diff[ID]) IsZero() bool {
	return len(d.Deleted) == 0 && len(d.Inserted) == 0 && len(d.Added) == 0 && len(d.Removed) == 0
}

// difference lists the members of a absent from b, sorted.
func difference[ID Constraint](a, b []ID) (diff []ID) {
	present := make(map[ID]struct{}, len(b))
	for _, id := range b {
		present[id] = struct{}{}
	}

	for _, id := range a {
		if _, ok := present[id]; !ok {
			diff = append(diff, id)
		}
	}
	slices.Sort(diff)

	return
}
