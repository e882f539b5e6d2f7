package classify

import (
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// PhoenixV1ProgramID is Phoenix's central-limit-order-book exchange.
var PhoenixV1ProgramID = pubkey.MustParse("PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY")

const phoenixV1OpSwap = 0

// phoenixV1Classifier recognises only the Swap instruction; Phoenix's
// order-placement, seat-management, and admin instructions are
// uninteresting for MEV classification. The market account sits at
// account position 2 in Swap's account list.
type phoenixV1Classifier struct{}

func (phoenixV1Classifier) ProgramID() pubkey.Pubkey { return PhoenixV1ProgramID }

func (phoenixV1Classifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 1 {
		return nil, fmt.Errorf("%w: phoenix v1 instruction truncated", ErrInvalidEncoding)
	}
	if ix.Data[0] != phoenixV1OpSwap {
		return nil, nil
	}
	if len(ix.Accounts) < 3 {
		return nil, fmt.Errorf("%w: phoenix v1 swap expects at least 3 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
	}
	market, err := resolveAccount(t, ix, 2)
	if err != nil {
		return nil, err
	}
	return &action.PhoenixV1Swap{Market: market}, nil
}
