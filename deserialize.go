// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"

	"gitlab.com/osfield/treekit/lexer"
)

// Deserialize rebuilds a Hierarchy from Serialize output.
//
// parse converts a value's text back into a payload; identify derives the
// index key exactly as on the source side. The rebuilt container applies a
// fresh brand to every node.
func Deserialize[T any, ID Constraint](
	ctx context.Context, identify func(T) ID, parse func(string) (T, error), input string, options ...Option[T, ID],
) (h *Hierarchy[T, ID], err error) {
	if input == "" {
		err = ErrEmptyDeserializeSrc
		return
	}

	// Cancellation releases the lexer if scanning aborts early.
	lexCtx, lexCancel := context.WithCancel(ctx)
	defer lexCancel()

	l := lexer.New(lexer.DefaultConfig(), input)
	go l.Lex(lexCtx)

	var (
		items []T
		cm    = make(ChildMap[ID])

		// stack tracks the open nodes; a value becomes a child of the top.
		stack []ID

		// orphanEnds counts end markers with no open node to close.
		orphanEnds int
	)

scan:
	for item := range l.C() {
		switch item.ID {
		case lexer.ItemEOF:
			break scan
		case lexer.ItemError:
			err = fmt.Errorf("%w: position %d: %w", ErrInvalidSerializedForm, item.Pos, item.Err)
			return
		case lexer.ItemSplitter:
			continue
		case lexer.ItemEndMarker:
			if len(stack) < 1 {
				orphanEnds++
				continue
			}
			stack = stack[:len(stack)-1]
		case lexer.ItemValue:
			var value T
			if value, err = parse(item.Val); err != nil {
				err = fmt.Errorf("%w: position %d: %w", ErrInvalidSerializedForm, item.Pos, err)
				return
			}

			id := identify(value)
			items = append(items, value)
			if _, ok := cm[id]; !ok {
				cm[id] = nil
			}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				cm[top] = append(cm[top], id)
			}
			stack = append(stack, id)
		}
	}

	switch {
	case orphanEnds > 0:
		err = fmt.Errorf("%w: %d of %d", ErrExcessiveEndMarkers, orphanEnds, l.EndCounter())
		return
	case len(stack) > 0:
		err = fmt.Errorf("%w: %d of %d unclosed", ErrExcessiveValues, len(stack), l.ValueCounter())
		return
	}

	return NewFromChildMap(ctx, identify, items, cm, options...)
}

// DeserializeString rebuilds a string-payload Hierarchy, using the values
// themselves as identifiers.
func DeserializeString(
	ctx context.Context, input string, options ...Option[string, string],
) (h *Hierarchy[string, string], err error) {
	identity := func(s string) string { return s }

	return Deserialize(ctx, identity, func(s string) (string, error) { return s, nil }, input, options...)
}
