// SPDX-License-Identifier: MIT
package treekit

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/osfield/treekit/lexer"
)

// REF: https://www.geeksforgeeks.org/serialize-deserialize-n-ary-tree

// Serialize transforms the Hierarchy's forest into a compact string: each
// node emits its payload text, its serialized children separated by the
// splitter, & one end marker.
//
// Only payloads & child lists are encoded; parent links & brands are
// reconstructed on deserialization. Payload text must not contain the
// configured splitter or end marker.
func (h *Hierarchy[T, ID]) Serialize(ctx context.Context, cfg *lexer.Config) (output string, err error) {
	if cfg == nil {
		cfg = lexer.DefaultConfig()
	}
	cfg.Validate()

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return
	default:
	}

	var buffer strings.Builder
	for _, root := range h.roots {
		serializeNode(cfg, root, &buffer)
	}

	output = buffer.String()

	return
}

// serializeNode performs the serialization grunt work.
func serializeNode[T any](cfg *lexer.Config, node *Node[T], buffer *strings.Builder) {
	buffer.WriteString(fmt.Sprint(node.Value()))

	for _, child := range node.Children() {
		buffer.WriteRune(cfg.Splitter)
		serializeNode(cfg, child, buffer)
	}

	buffer.WriteRune(cfg.EndMarker)
}
