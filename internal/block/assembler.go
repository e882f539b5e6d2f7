// Package block implements the Block Assembler (C6): it composes the
// dispatcher over every transaction in a decoded block and rolls up the
// resulting tree's fee and tip totals.
package block

import (
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/classify"
	"solmev/internal/rpcblock"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

// baseFeeLamports is the system-defined base fee per signature; fees above
// this per transaction are priority fees.
const baseFeeLamports = 5000

// Result is a fully classified and fee-aggregated block.
type Result struct {
	Tree         *action.Tree
	RootID       tree.NodeID
	Transactions []*txn.Transaction

	// RecoveredErrors counts per-transaction and per-instruction errors
	// that were logged and recovered locally rather than failing the
	// block (spec §7).
	RecoveredErrors int
}

// Assemble builds the action tree for raw, classifying every transaction
// and computing fee/tip aggregates on the root Block node. A transaction
// that fails to decode (most commonly a missing meta block) is logged and
// skipped; assembly only fails outright when the block itself lacks a
// block_time.
func Assemble(reg *classify.Registry, log *logrus.Logger, slot uint64, raw rpcblock.Block) (*Result, error) {
	if raw.BlockTime == nil {
		return nil, ErrMissingBlockTime
	}

	tr, rootID := tree.New[action.Action](&action.Block{
		Slot:       slot,
		ParentSlot: raw.ParentSlot,
		BlockTime:  *raw.BlockTime,
	})

	var decoded []*txn.Transaction
	var recovered int
	for i, envelope := range raw.Transactions {
		t, err := txn.New(envelope)
		if err != nil {
			log.WithError(err).WithField("slot", slot).WithField("tx_index", i).
				Warn("block: skipping transaction, failed to decode")
			recovered++
			continue
		}

		txNodeID, err := tr.InsertChild(rootID, &action.ClassifiableTransaction{
			Txn:       t,
			Signature: base58.Encode(t.Signature[:]),
			Failed:    !t.Status.OK,
		})
		if err != nil {
			log.WithError(err).WithField("slot", slot).WithField("tx_index", i).
				Warn("block: failed to insert transaction node")
			recovered++
			continue
		}

		for idx := 0; idx < len(t.Instructions); {
			consumed, err := classify.Dispatch(reg, log, t, tr, txNodeID, idx)
			if err != nil {
				log.WithError(err).
					WithField("slot", slot).
					WithField("tx_index", i).
					WithField("instruction_index", idx).
					Warn("block: classifier failed for instruction, skipping remainder of transaction")
				recovered++
				break
			}
			idx += consumed
		}

		classify.PopulateCreatedTokens(tr, txNodeID, t)
		decoded = append(decoded, t)
	}

	computeAggregates(tr, rootID, decoded)

	return &Result{Tree: tr, RootID: rootID, Transactions: decoded, RecoveredErrors: recovered}, nil
}

// computeAggregates implements spec §4.5's fee and tip formulas, writing
// them back onto the root Block node.
func computeAggregates(tr *action.Tree, rootID tree.NodeID, decoded []*txn.Transaction) {
	var baseFees, priorityFees uint64
	for _, t := range decoded {
		if !t.Status.OK {
			continue
		}
		if t.Fee < baseFeeLamports {
			baseFees += t.Fee
		} else {
			baseFees += baseFeeLamports
			priorityFees += t.Fee - baseFeeLamports
		}
	}

	var tips uint64
	for _, id := range tr.Descendants(rootID) {
		act, ok := tr.Get(id)
		if !ok {
			continue
		}
		tip, ok := act.(*action.JitoTip)
		if !ok {
			continue
		}
		if enclosingTransactionSucceeded(tr, id) {
			tips += tip.TipAmount
		}
	}

	root, ok := tr.Get(rootID)
	if !ok {
		return
	}
	blk, ok := root.(*action.Block)
	if !ok {
		return
	}
	blk.TotalBaseFees = &baseFees
	blk.TotalPriorityFees = &priorityFees
	blk.TotalTips = &tips
	_ = tr.Set(rootID, blk)
}

// enclosingTransactionSucceeded walks id's ancestors to the nearest
// ClassifiableTransaction and reports whether it succeeded.
func enclosingTransactionSucceeded(tr *action.Tree, id tree.NodeID) bool {
	current := id
	for {
		parent, ok := tr.Parent(current)
		if !ok {
			return false
		}
		act, ok := tr.Get(parent)
		if !ok {
			return false
		}
		if ctx, ok := act.(*action.ClassifiableTransaction); ok {
			return !ctx.Failed
		}
		current = parent
	}
}
