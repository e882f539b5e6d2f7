package label

import (
	"solmev/internal/action"
	"solmev/internal/tree"
)

// arbitrageInsertion buffers one AtomicArbitrage tag to attach after the
// walk, both as a tree child of the transaction and as a txn.Tag entry.
type arbitrageInsertion struct {
	txID tree.NodeID
	tag  *action.AtomicArbitrage
}

// DetectAtomicArbitrage implements spec §4.6.2: for each
// ClassifiableTransaction, find the first and last DexSwap descendants in
// pre-order. If the first's input mint equals the last's output mint and
// the transaction succeeded, tag it with the mint, the fee payer's
// address, and the profit (last.output_amount - first.input_amount).
//
// Limitations, matching the spec's own documented scope: multiple
// independent arbitrages within a single transaction are not
// disambiguated (only the overall first/last swap is considered), and
// arbitrage spanning multiple transactions is not detected at all.
func DetectAtomicArbitrage(tr *action.Tree, rootID tree.NodeID) {
	var insertions []arbitrageInsertion

	for _, txID := range tr.Children(rootID) {
		ctAct, ok := tr.Get(txID)
		if !ok {
			continue
		}
		ct, ok := ctAct.(*action.ClassifiableTransaction)
		if !ok || ct.Failed {
			continue
		}

		var first, last *action.DexSwap
		for _, id := range tr.Descendants(txID) {
			if id == txID {
				continue
			}
			act, ok := tr.Get(id)
			if !ok {
				continue
			}
			swap, ok := act.(*action.DexSwap)
			if !ok {
				continue
			}
			if first == nil {
				first = swap
			}
			last = swap
		}
		if first == nil {
			continue
		}

		if first.InputMint != last.OutputMint {
			continue
		}

		profit := int64(last.OutputAmount) - int64(first.InputAmount)
		insertions = append(insertions, arbitrageInsertion{
			txID: txID,
			tag: &action.AtomicArbitrage{
				Mint:         first.InputMint,
				ProfitAmount: profit,
				Address:      ct.Txn.FeePayer(),
			},
		})
	}

	for _, ins := range insertions {
		if _, err := tr.InsertChild(ins.txID, ins.tag); err != nil {
			continue
		}
		if ctAct, ok := tr.Get(ins.txID); ok {
			if ct, ok := ctAct.(*action.ClassifiableTransaction); ok {
				ct.Txn.Tags = append(ct.Txn.Tags, ins.tag)
			}
		}
	}
}
