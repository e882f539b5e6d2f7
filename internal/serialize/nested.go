// Package serialize implements the Serializers (C8): rendering a labelled
// Action Tree into the nested JSON document shape (§6.2) and into flat
// per-instruction rows for column-store ingestion (§6.3).
package serialize

import (
	"fmt"

	"solmev/internal/action"
	"solmev/internal/tree"
)

// SerializeNested implements spec §4.7's nested serializer: a depth-first
// pre-order walk starting at root. Every node in the full tree consumes a
// pre-order index, but a node whose Serializable() is false is pruned —
// neither it nor any of its descendants is emitted, though their indices
// are still spent so that nodes appearing later keep stable ids. Emitted
// children are folded into their parent's "children" array.
//
// root itself is always emitted without an "id" — it is the document being
// built, not a node within it.
func SerializeNested(tr *action.Tree, rootID tree.NodeID) (map[string]any, error) {
	act, ok := tr.Get(rootID)
	if !ok {
		return nil, fmt.Errorf("serialize: root node %d not found", rootID)
	}
	doc, err := act.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("serialize: root node %d: %w", rootID, err)
	}

	idx := 0
	children, err := serializeChildren(tr, rootID, &idx)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		doc["children"] = children
	}
	return doc, nil
}

func serializeChildren(tr *action.Tree, id tree.NodeID, idx *int) ([]map[string]any, error) {
	var out []map[string]any
	for _, childID := range tr.Children(id) {
		myIndex := *idx
		*idx++

		act, ok := tr.Get(childID)
		if !ok {
			continue
		}
		if !act.Serializable() {
			skipSubtree(tr, childID, idx)
			continue
		}

		node, err := act.ToJSON()
		if err != nil {
			return nil, fmt.Errorf("serialize: node %d: %w", childID, err)
		}
		node["id"] = myIndex

		grandchildren, err := serializeChildren(tr, childID, idx)
		if err != nil {
			return nil, err
		}
		if len(grandchildren) > 0 {
			node["children"] = grandchildren
		}
		out = append(out, node)
	}
	return out, nil
}

// skipSubtree advances idx past every descendant of a pruned node without
// emitting anything.
func skipSubtree(tr *action.Tree, id tree.NodeID, idx *int) {
	for _, childID := range tr.Children(id) {
		*idx++
		skipSubtree(tr, childID, idx)
	}
}
