package store

import (
	"fmt"

	"solmev/internal/action"
	"solmev/internal/tree"
)

// BlockDocument is the §6.2 block document schema.
type BlockDocument struct {
	Slot              uint64  `json:"_id"`
	BlockTime         int64   `json:"block_time"`
	TotalBaseFees     *uint64 `json:"total_base_fees,omitempty"`
	TotalPriorityFees *uint64 `json:"total_priority_fees,omitempty"`
	TotalTips         *uint64 `json:"total_tips,omitempty"`
}

// BuildBlockDocument projects an assembled action.Block into its §6.2
// document form.
func BuildBlockDocument(b *action.Block) BlockDocument {
	return BlockDocument{
		Slot:              b.Slot,
		BlockTime:         b.BlockTime,
		TotalBaseFees:     b.TotalBaseFees,
		TotalPriorityFees: b.TotalPriorityFees,
		TotalTips:         b.TotalTips,
	}
}

// TransactionDocument is the §6.2 transaction document schema. ID reuses
// the transaction's own base58 signature as the document identifier: spec
// calls for an opaque "oid", but minting a database-specific ObjectID
// would pull in a driver this module has no other use for, and the
// signature is already a unique, stable, human-legible key.
type TransactionDocument struct {
	ID         string           `json:"_id"`
	Signature  string           `json:"signature"`
	Failed     bool             `json:"failed"`
	Tags       []map[string]any `json:"tags"`
	BlockID    uint64           `json:"block_id"`
	BlockOrder uint32           `json:"block_order"`
	Metadata   []map[string]any `json:"metadata"`
}

// BuildTransactionDocument projects one ClassifiableTransaction subtree
// into its §6.2 document form. metadata is the flat pre-order descendant
// list (every node under txID, not just the serializable ones — this is
// the raw document form, not the pruned nested-JSON view §4.7 produces),
// each element gaining a tx_stack_height field for its depth within the
// transaction subtree.
func BuildTransactionDocument(tr *action.Tree, txID tree.NodeID, ct *action.ClassifiableTransaction, blockSlot uint64, blockOrder uint32) (TransactionDocument, error) {
	var metadata []map[string]any
	if err := appendMetadata(tr, txID, 0, &metadata); err != nil {
		return TransactionDocument{}, fmt.Errorf("store: build metadata for tx %s: %w", ct.Signature, err)
	}

	tags := make([]map[string]any, 0, len(ct.Txn.Tags))
	for _, tag := range ct.Txn.Tags {
		act, ok := tag.(action.Action)
		if !ok {
			continue
		}
		j, err := act.ToJSON()
		if err != nil {
			return TransactionDocument{}, fmt.Errorf("store: serialize tag %s: %w", tag.TagType(), err)
		}
		tags = append(tags, j)
	}

	return TransactionDocument{
		ID:         ct.Signature,
		Signature:  ct.Signature,
		Failed:     ct.Failed,
		Tags:       tags,
		BlockID:    blockSlot,
		BlockOrder: blockOrder,
		Metadata:   metadata,
	}, nil
}

func appendMetadata(tr *action.Tree, id tree.NodeID, depth uint32, out *[]map[string]any) error {
	for _, childID := range tr.Children(id) {
		act, ok := tr.Get(childID)
		if !ok {
			continue
		}
		m, err := act.ToJSON()
		if err != nil {
			return err
		}
		m["tx_stack_height"] = depth
		*out = append(*out, m)
		if err := appendMetadata(tr, childID, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}
