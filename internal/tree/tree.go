// Package tree implements the Action Tree (C2): an arena-backed ordered
// tree whose node identities never move on mutation. It is generic over
// the value stored per node so that this package never needs to import the
// action package — package action imports tree, not the reverse.
package tree

import (
	"errors"
	"fmt"
	"strings"
)

// NodeID is a stable index into the tree's arena. Identities are never
// reused within a tree's lifetime, so a NodeID remains valid (though
// possibly "removed") for the tree's whole lifecycle.
type NodeID int

// noParent marks the root node, which has no parent.
const noParent NodeID = -1

var (
	// ErrRootHasNoParent is returned by InsertParent when called on the
	// root node, which cannot be spliced under a new parent.
	ErrRootHasNoParent = errors.New("tree: cannot insert parent above the root")
	// ErrNotAChild is returned when a NodeID passed to
	// InsertParentForChildren is not currently a child of the claimed parent.
	ErrNotAChild = errors.New("tree: node is not a child of the given parent")
	// ErrEmptySet is returned by InsertParentForChildren when given no
	// children to regroup.
	ErrEmptySet = errors.New("tree: insert_parent_for_children requires at least one child")
	// ErrNodeRemoved is returned for operations on a removed node.
	ErrNodeRemoved = errors.New("tree: node has been removed")
	// ErrUnknownNode is returned for an out-of-range NodeID.
	ErrUnknownNode = errors.New("tree: unknown node id")
)

type node[A any] struct {
	action   A
	parent   NodeID
	children []NodeID
	removed  bool
}

// Tree is the ordered, arena-backed Action Tree. Zero value is not usable;
// construct with New.
type Tree[A any] struct {
	nodes []node[A]
	root  NodeID
}

// New creates a tree with a root node holding the given action and returns
// both the tree and the root's NodeID (always 0).
func New[A any](root A) (*Tree[A], NodeID) {
	t := &Tree[A]{
		nodes: []node[A]{{action: root, parent: noParent}},
		root:  0,
	}
	return t, t.root
}

// Root returns the root node's id.
func (t *Tree[A]) Root() NodeID { return t.root }

func (t *Tree[A]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Get returns the action stored at id. The second return value is false if
// id is out of range or has been removed.
func (t *Tree[A]) Get(id NodeID) (A, bool) {
	var zero A
	if !t.valid(id) || t.nodes[id].removed {
		return zero, false
	}
	return t.nodes[id].action, true
}

// GetMut is an alias for Get: A is expected to be an interface backed by a
// pointer (as Action is), so the returned value's underlying struct can be
// mutated in place through it.
func (t *Tree[A]) GetMut(id NodeID) (A, bool) { return t.Get(id) }

// Set overwrites the action stored at id, used when a node's action value
// itself must be swapped (rather than mutated through a pointer).
func (t *Tree[A]) Set(id NodeID, a A) error {
	if !t.valid(id) || t.nodes[id].removed {
		return fmt.Errorf("tree: set %d: %w", id, ErrUnknownNode)
	}
	t.nodes[id].action = a
	return nil
}

// InsertChild appends a new node holding a under parent's child list and
// returns its id.
func (t *Tree[A]) InsertChild(parent NodeID, a A) (NodeID, error) {
	if !t.valid(parent) || t.nodes[parent].removed {
		return 0, fmt.Errorf("tree: insert_child under %d: %w", parent, ErrUnknownNode)
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[A]{action: a, parent: parent})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id, nil
}

// RemoveSubtree removes id and every descendant from the tree, detaching
// id from its parent's child list.
func (t *Tree[A]) RemoveSubtree(id NodeID) error {
	if !t.valid(id) || t.nodes[id].removed {
		return fmt.Errorf("tree: remove_subtree %d: %w", id, ErrUnknownNode)
	}
	parent := t.nodes[id].parent
	if parent != noParent {
		t.nodes[parent].children = removeID(t.nodes[parent].children, id)
	}
	t.markRemoved(id)
	return nil
}

func (t *Tree[A]) markRemoved(id NodeID) {
	t.nodes[id].removed = true
	for _, c := range t.nodes[id].children {
		t.markRemoved(c)
	}
	t.nodes[id].children = nil
}

// InsertParent splices a new node holding a between id and its previous
// parent: a becomes id's sole parent, occupying id's former position among
// its siblings. Fails if id is the root.
func (t *Tree[A]) InsertParent(id NodeID, a A) (NodeID, error) {
	if !t.valid(id) || t.nodes[id].removed {
		return 0, fmt.Errorf("tree: insert_parent above %d: %w", id, ErrUnknownNode)
	}
	oldParent := t.nodes[id].parent
	if oldParent == noParent {
		return 0, ErrRootHasNoParent
	}

	newID := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[A]{action: a, parent: oldParent, children: []NodeID{id}})

	siblings := t.nodes[oldParent].children
	for i, sib := range siblings {
		if sib == id {
			siblings[i] = newID
			break
		}
	}
	t.nodes[id].parent = newID
	return newID, nil
}

// ReplaceParent detaches child from its current parent and appends it
// under newParent, used to regroup nodes into a post-hoc bundle.
func (t *Tree[A]) ReplaceParent(child NodeID, newParent NodeID) error {
	if !t.valid(child) || t.nodes[child].removed {
		return fmt.Errorf("tree: replace_parent child %d: %w", child, ErrUnknownNode)
	}
	if !t.valid(newParent) || t.nodes[newParent].removed {
		return fmt.Errorf("tree: replace_parent new parent %d: %w", newParent, ErrUnknownNode)
	}
	oldParent := t.nodes[child].parent
	if oldParent != noParent {
		t.nodes[oldParent].children = removeID(t.nodes[oldParent].children, child)
	}
	t.nodes[newParent].children = append(t.nodes[newParent].children, child)
	t.nodes[child].parent = newParent
	return nil
}

// InsertParentForChildren regroups a set of old_parent's existing children
// under a new node holding a. The new node is inserted at the position of
// the first listed child in old_parent's order; the rest are relocated
// under it, preserving their relative order. Every id in childIDs must
// currently be a child of old_parent, and childIDs must be non-empty.
func (t *Tree[A]) InsertParentForChildren(oldParent NodeID, childIDs []NodeID, a A) (NodeID, error) {
	if len(childIDs) == 0 {
		return 0, ErrEmptySet
	}
	if !t.valid(oldParent) || t.nodes[oldParent].removed {
		return 0, fmt.Errorf("tree: insert_parent_for_children parent %d: %w", oldParent, ErrUnknownNode)
	}
	want := make(map[NodeID]bool, len(childIDs))
	for _, c := range childIDs {
		want[c] = true
	}

	current := t.nodes[oldParent].children
	ordered := make([]NodeID, 0, len(childIDs))
	remaining := make([]NodeID, 0, len(current))
	insertAt := -1
	for _, c := range current {
		if want[c] {
			if insertAt == -1 {
				insertAt = len(remaining)
			}
			ordered = append(ordered, c)
			delete(want, c)
		} else {
			remaining = append(remaining, c)
		}
	}
	if len(want) > 0 {
		return 0, ErrNotAChild
	}

	newID := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[A]{action: a, parent: oldParent, children: ordered})
	for _, c := range ordered {
		t.nodes[c].parent = newID
	}

	newChildren := make([]NodeID, 0, len(remaining)+1)
	newChildren = append(newChildren, remaining[:insertAt]...)
	newChildren = append(newChildren, newID)
	newChildren = append(newChildren, remaining[insertAt:]...)
	t.nodes[oldParent].children = newChildren

	return newID, nil
}

// Descendants returns id's subtree in pre-order, starting with id itself.
// The slice is a snapshot: safe to hold across tree mutations performed
// afterward, but callers must not mutate the tree while iterating it
// themselves mid-walk (buffer mutations and apply them after, per the
// labeller convention).
func (t *Tree[A]) Descendants(id NodeID) []NodeID {
	var out []NodeID
	t.collect(id, &out)
	return out
}

func (t *Tree[A]) collect(id NodeID, out *[]NodeID) {
	if !t.valid(id) || t.nodes[id].removed {
		return
	}
	*out = append(*out, id)
	for _, c := range t.nodes[id].children {
		t.collect(c, out)
	}
}

// Children returns id's direct children in insertion order.
func (t *Tree[A]) Children(id NodeID) []NodeID {
	if !t.valid(id) || t.nodes[id].removed {
		return nil
	}
	out := make([]NodeID, len(t.nodes[id].children))
	copy(out, t.nodes[id].children)
	return out
}

// NumChildren returns the number of direct children id currently has.
func (t *Tree[A]) NumChildren(id NodeID) int {
	if !t.valid(id) || t.nodes[id].removed {
		return 0
	}
	return len(t.nodes[id].children)
}

// Parent returns id's parent, or false if id is the root (or invalid).
func (t *Tree[A]) Parent(id NodeID) (NodeID, bool) {
	if !t.valid(id) || t.nodes[id].removed {
		return 0, false
	}
	p := t.nodes[id].parent
	if p == noParent {
		return 0, false
	}
	return p, true
}

// String renders a depth-first dump of the tree, used for diagnostics.
func (t *Tree[A]) String() string {
	var b strings.Builder
	t.dump(&b, t.root, 0)
	return b.String()
}

func (t *Tree[A]) dump(b *strings.Builder, id NodeID, depth int) {
	if !t.valid(id) || t.nodes[id].removed {
		return
	}
	fmt.Fprintf(b, "%s#%d: %v\n", strings.Repeat("  ", depth), id, t.nodes[id].action)
	for _, c := range t.nodes[id].children {
		t.dump(b, c, depth+1)
	}
}

func removeID(ids []NodeID, target NodeID) []NodeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
