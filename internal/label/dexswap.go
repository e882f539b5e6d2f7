package label

import (
	"solmev/internal/action"
	"solmev/internal/tree"
)

// dexSwapInsertion buffers one insert_parent to apply after the walk.
type dexSwapInsertion struct {
	id   tree.NodeID
	swap *action.DexSwap
}

// NormalizeDexSwaps implements spec §4.6.1. For every descendant action of
// the block, IntoDexSwap is given the chance to recognise itself as a DEX
// swap; when it does, a new DexSwap node is spliced in as that action's
// parent via InsertParent. Errors (most commonly ErrMissingTransfer, when a
// protocol's amounts can only be recovered from an inner transfer that
// didn't land) are swallowed per action in favor of leaving that
// particular action unnormalized — one swap failing to normalize
// shouldn't block the rest of the block's labelling.
func NormalizeDexSwaps(tr *action.Tree, rootID tree.NodeID) {
	var insertions []dexSwapInsertion

	for _, txID := range tr.Children(rootID) {
		ctAct, ok := tr.Get(txID)
		if !ok {
			continue
		}
		ct, ok := ctAct.(*action.ClassifiableTransaction)
		if !ok {
			continue
		}

		for _, id := range tr.Descendants(txID) {
			if id == txID {
				continue
			}
			act, ok := tr.Get(id)
			if !ok {
				continue
			}
			// An action already wrapped by a DexSwap parent has already
			// been normalized; skip it so a second labelling pass is a
			// no-op (spec P6).
			if parentID, hasParent := tr.Parent(id); hasParent {
				if parentAct, ok := tr.Get(parentID); ok {
					if _, alreadyWrapped := parentAct.(*action.DexSwap); alreadyWrapped {
						continue
					}
				}
			}
			swap, err := act.IntoDexSwap(ct.Txn, id, tr)
			if err != nil || swap == nil {
				continue
			}
			insertions = append(insertions, dexSwapInsertion{id: id, swap: swap})
		}
	}

	for _, ins := range insertions {
		if _, err := tr.InsertParent(ins.id, ins.swap); err != nil {
			continue
		}
	}
}
