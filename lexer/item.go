// SPDX-License-Identifier: MIT
package lexer

type (
	// ItemID identifies the kind of a lexed Item.
	ItemID int

	// Item is one token scanned from a serialized hierarchy.
	Item struct {
		Err error
		Val string // The text of this Item.
		ID  ItemID // The kind of this Item.
		Pos int    // The starting position, in bytes, of this Item.
	}
)

const (
	_             ItemID = iota // Consume 0 to start actual numbering at 1.
	ItemError                   // Notify occurrence of an error.
	ItemSplitter                // Separator between a node & its first child, or between siblings.
	ItemEOF                     // End of the source.
	ItemValue                   // A node's payload text.
	ItemEndMarker               // Close of a node's children.
)
