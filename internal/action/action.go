// Package action implements the Action Model (C3): a closed sum of typed,
// program-independent classification outcomes, each implementing the
// ActionTrait capability set.
package action

import (
	"encoding/json"
	"fmt"

	"solmev/internal/pubkey"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

// Action is the capability set every variant implements (spec §3
// ActionTrait). It is intentionally a pointer-receiver interface: tree
// nodes hold Action values and mutate the underlying struct in place
// (e.g. labellers attaching state) without re-inserting into the tree.
type Action interface {
	// RecurseDuringClassify reports whether this action's inner
	// instructions may contain independent, meaningful actions that the
	// dispatcher should classify and attach as children.
	RecurseDuringClassify() bool
	// IsDocumentRoot reports whether this node roots a serialized document.
	IsDocumentRoot() bool
	// Serializable reports whether this node (and, if false, its
	// descendants) should appear in nested JSON output.
	Serializable() bool
	// ToJSON renders this action's fields, including a "type" discriminator.
	ToJSON() (map[string]any, error)
	// IntoDexSwap attempts to normalize this action into the canonical swap
	// schema. Returns (nil, nil) when this action is not a swap or has
	// already been normalized.
	IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error)
}

// Tree is the Action Tree specialized to this package's Action interface.
type Tree = tree.Tree[Action]

// base supplies the common defaults most variants share; concrete types
// embed it and override what differs.
type base struct{}

func (base) RecurseDuringClassify() bool { return true }
func (base) IsDocumentRoot() bool        { return false }
func (base) Serializable() bool          { return true }
func (base) IntoDexSwap(*txn.Transaction, tree.NodeID, *Tree) (*DexSwap, error) {
	return nil, nil
}

// leaf is base with recursion turned off, for actions that already
// summarize everything of interest about their instruction.
type leaf struct{ base }

func (leaf) RecurseDuringClassify() bool { return false }

func toJSON(typeName string, v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("action: marshal %s: %w", typeName, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("action: unmarshal %s: %w", typeName, err)
	}
	m["type"] = typeName
	return m, nil
}

// findTransfer returns the first direct child of id that is a
// TokenTransfer or TokenTransferChecked moving funds from `from` to `to`,
// per spec §4.6.1's find_transfer contract: a direct-child search, not a
// subtree search.
func findTransfer(tr *Tree, id tree.NodeID, from, to pubkey.Pubkey) (*TokenTransfer, bool) {
	for _, childID := range tr.Children(id) {
		child, ok := tr.Get(childID)
		if !ok {
			continue
		}
		switch c := child.(type) {
		case *TokenTransfer:
			if c.Source == from && c.Destination == to {
				return c, true
			}
		case *TokenTransferChecked:
			if c.Source == from && c.Destination == to {
				return &TokenTransfer{Source: c.Source, Destination: c.Destination, Authority: c.Authority, Amount: c.Amount}, true
			}
		}
	}
	return nil, false
}

// findTransferFrom returns the first direct child of id that is a
// TokenTransfer or TokenTransferChecked whose source is from, regardless of
// destination. Used where only one end of a leg is known positionally
// (Meteora DLMM's user_token_in), unlike findTransfer's both-ends match.
func findTransferFrom(tr *Tree, id tree.NodeID, from pubkey.Pubkey) (*TokenTransfer, bool) {
	for _, childID := range tr.Children(id) {
		child, ok := tr.Get(childID)
		if !ok {
			continue
		}
		switch c := child.(type) {
		case *TokenTransfer:
			if c.Source == from {
				return c, true
			}
		case *TokenTransferChecked:
			if c.Source == from {
				return &TokenTransfer{Source: c.Source, Destination: c.Destination, Authority: c.Authority, Amount: c.Amount}, true
			}
		}
	}
	return nil, false
}

// findTransferTo is findTransferFrom matched on destination instead.
func findTransferTo(tr *Tree, id tree.NodeID, to pubkey.Pubkey) (*TokenTransfer, bool) {
	for _, childID := range tr.Children(id) {
		child, ok := tr.Get(childID)
		if !ok {
			continue
		}
		switch c := child.(type) {
		case *TokenTransfer:
			if c.Destination == to {
				return c, true
			}
		case *TokenTransferChecked:
			if c.Destination == to {
				return &TokenTransfer{Source: c.Source, Destination: c.Destination, Authority: c.Authority, Amount: c.Amount}, true
			}
		}
	}
	return nil, false
}

// firstTwoTransfers returns id's first two direct-child token transfers in
// child order, used by protocols whose swap amounts are only recoverable
// from the inner legs rather than the instruction args.
func firstTwoTransfers(tr *Tree, id tree.NodeID) (first, second *TokenTransfer, ok bool) {
	var found []*TokenTransfer
	for _, childID := range tr.Children(id) {
		child, exists := tr.Get(childID)
		if !exists {
			continue
		}
		switch c := child.(type) {
		case *TokenTransfer:
			found = append(found, c)
		case *TokenTransferChecked:
			found = append(found, &TokenTransfer{Source: c.Source, Destination: c.Destination, Authority: c.Authority, Amount: c.Amount})
		}
		if len(found) == 2 {
			break
		}
	}
	if len(found) < 2 {
		return nil, nil, false
	}
	return found[0], found[1], true
}

// firstTwoTransfersInSubtree is firstTwoTransfers widened to id's whole
// descendant subtree rather than just its direct children, in pre-order.
// Jupiter's route instructions CPI into one or more inner DEX swaps, so
// their token legs sit several levels down rather than as direct children
// of the Route action itself.
func firstTwoTransfersInSubtree(tr *Tree, id tree.NodeID) (first, second *TokenTransfer, ok bool) {
	var found []*TokenTransfer
	for _, descID := range tr.Descendants(id) {
		if descID == id {
			continue
		}
		child, exists := tr.Get(descID)
		if !exists {
			continue
		}
		switch c := child.(type) {
		case *TokenTransfer:
			found = append(found, c)
		case *TokenTransferChecked:
			found = append(found, &TokenTransfer{Source: c.Source, Destination: c.Destination, Authority: c.Authority, Amount: c.Amount})
		}
		if len(found) == 2 {
			break
		}
	}
	if len(found) < 2 {
		return nil, nil, false
	}
	return found[0], found[1], true
}
