package label

import (
	"bytes"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

// swapOccurrence is one DexSwap found while walking the block, together
// with the ClassifiableTransaction node it belongs to and that
// transaction's fee payer (the attacker/victim identity per spec §4.6.3).
type swapOccurrence struct {
	txID     tree.NodeID
	attacker pubkey.Pubkey
	swap     *action.DexSwap
}

type pairKey struct {
	lo, hi pubkey.Pubkey
}

func canonicalPair(a, b pubkey.Pubkey) pairKey {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

type sandwichInsertion struct {
	txID tree.NodeID
	tag  action.Action
}

// DetectSandwiches implements spec §4.6.3. DexSwap actions across the
// whole block are grouped by canonical (unsorted) mint pair, preserving
// block order within each group; a sliding 3-window over each group of at
// least 3 swaps checks the front/victim/back signal and, on a hit, tags
// the three enclosing transactions.
func DetectSandwiches(tr *action.Tree, rootID tree.NodeID) {
	groups := make(map[pairKey][]swapOccurrence)
	var order []pairKey

	for _, txID := range tr.Children(rootID) {
		ctAct, ok := tr.Get(txID)
		if !ok {
			continue
		}
		ct, ok := ctAct.(*action.ClassifiableTransaction)
		if !ok {
			continue
		}
		attacker := ct.Txn.FeePayer()

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
			key := canonicalPair(swap.InputMint, swap.OutputMint)
			if _, seen := groups[key]; !seen {
				order = append(order, key)
			}
			groups[key] = append(groups[key], swapOccurrence{txID: txID, attacker: attacker, swap: swap})
		}
	}

	var insertions []sandwichInsertion
	for _, key := range order {
		occurrences := groups[key]
		if len(occurrences) < 3 {
			continue
		}
		for i := 0; i+2 < len(occurrences); i++ {
			front, victim, back := occurrences[i], occurrences[i+1], occurrences[i+2]
			if front.attacker != back.attacker {
				continue
			}
			if front.attacker == victim.attacker {
				continue
			}
			if front.swap.InputMint != victim.swap.InputMint || front.swap.OutputMint != victim.swap.OutputMint {
				continue
			}
			if back.swap.InputMint != front.swap.OutputMint || back.swap.OutputMint != front.swap.InputMint {
				continue
			}
			profit := int64(back.swap.OutputAmount) - int64(front.swap.InputAmount)
			if profit <= 0 {
				continue
			}

			insertions = append(insertions,
				sandwichInsertion{txID: front.txID, tag: &action.SandwichFrontrun{
					TokenBought:    front.swap.OutputMint,
					Amount:         front.swap.OutputAmount,
					AttackerPubkey: front.attacker,
				}},
				sandwichInsertion{txID: victim.txID, tag: &action.SandwichVictim{
					TokenBought:  victim.swap.OutputMint,
					Amount:       victim.swap.OutputAmount,
					VictimPubkey: victim.attacker,
				}},
				sandwichInsertion{txID: back.txID, tag: &action.SandwichBackrun{
					TokenSold:      back.swap.InputMint,
					Amount:         back.swap.InputAmount,
					AttackerPubkey: back.attacker,
					ProfitAmount:   profit,
				}},
			)
		}
	}

	for _, ins := range insertions {
		if _, err := tr.InsertChild(ins.txID, ins.tag); err != nil {
			continue
		}
		tag, ok := ins.tag.(txn.Tag)
		if !ok {
			continue
		}
		if ctAct, ok := tr.Get(ins.txID); ok {
			if ct, ok := ctAct.(*action.ClassifiableTransaction); ok {
				ct.Txn.Tags = append(ct.Txn.Tags, tag)
			}
		}
	}
}
