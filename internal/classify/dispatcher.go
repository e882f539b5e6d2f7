package classify

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/tree"
	"solmev/internal/txn"
	"solmev/pkg/utils"
)

// Dispatch classifies the instruction at index and, depending on the
// resulting action's RecurseDuringClassify, its callees too, attaching
// them under parent. It returns the number of flattened instructions this
// call consumed (itself plus, if recursed, its descendants) per spec §4.4.
func Dispatch(reg *Registry, log *logrus.Logger, t *txn.Transaction, tr *action.Tree, parent tree.NodeID, index int) (int, error) {
	ix := t.Instructions[index]

	prog, ok := t.GetPubkey(ix.ProgramIDIndex)
	if !ok {
		return 0, fmt.Errorf("%w: index %d", ErrMissingProgramID, ix.ProgramIDIndex)
	}

	var act action.Action
	if c, found := reg.Lookup(prog); found {
		result, err := c.Classify(t, ix)
		switch {
		case err != nil:
			log.WithError(err).WithField("program_id", prog.String()).Warn("classify: instruction decode failed, substituting ProgramInvocation")
			act = &action.ProgramInvocation{ProgramID: prog}
		case result != nil:
			act = result
		default:
			act = &action.ProgramInvocation{ProgramID: prog}
		}
	} else {
		act = &action.ProgramInvocation{ProgramID: prog}
	}

	recurse := act.RecurseDuringClassify()
	childID, err := tr.InsertChild(parent, act)
	if err != nil {
		return 0, utils.Wrap(err, "classify: insert node")
	}

	h := ix.StackHeight
	consumed := 1
	for index+consumed < len(t.Instructions) && t.Instructions[index+consumed].StackHeight > h {
		if recurse {
			n, err := Dispatch(reg, log, t, tr, childID, index+consumed)
			if err != nil {
				return 0, err
			}
			consumed += n
		} else {
			consumed++
		}
	}
	return consumed, nil
}

// PopulateCreatedTokens scans txNode's subtree for AssociatedToken.Create,
// AssociatedToken.CreateIdempotent, and Token.InitializeAccount{,2,3}
// actions and records the token-account-to-mint mapping they establish on
// t.CreatedTokens, per spec §4.4's post-dispatch step.
func PopulateCreatedTokens(tr *action.Tree, txNode tree.NodeID, t *txn.Transaction) {
	for _, id := range tr.Descendants(txNode) {
		act, ok := tr.Get(id)
		if !ok {
			continue
		}
		switch a := act.(type) {
		case *action.AssociatedTokenCreate:
			t.CreatedTokens[a.AssociatedAccount] = a.Mint
		case *action.AssociatedTokenCreateIdempotent:
			t.CreatedTokens[a.AssociatedAccount] = a.Mint
		case *action.TokenInitializeAccount:
			t.CreatedTokens[a.Account] = a.Mint
		case *action.TokenInitializeAccount2:
			t.CreatedTokens[a.Account] = a.Mint
		case *action.TokenInitializeAccount3:
			t.CreatedTokens[a.Account] = a.Mint
		}
	}
}

// resolveAccount resolves the account at ix.Accounts[pos] to a Pubkey,
// returning ErrMissingAccount if pos is out of range or unresolvable.
func resolveAccount(t *txn.Transaction, ix txn.Instruction, pos int) (pubkey.Pubkey, error) {
	if pos < 0 || pos >= len(ix.Accounts) {
		return pubkey.Zero, fmt.Errorf("%w: position %d", ErrMissingAccount, pos)
	}
	p, ok := t.GetPubkey(ix.Accounts[pos])
	if !ok {
		return pubkey.Zero, fmt.Errorf("%w: account index %d", ErrMissingAccount, ix.Accounts[pos])
	}
	return p, nil
}
