package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// RaydiumAmmProgramID is Raydium's legacy constant-product AMM (v4).
var RaydiumAmmProgramID = pubkey.MustParse("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")

const (
	raydiumAmmOpSwapBaseIn  = 9
	raydiumAmmOpSwapBaseOut = 11
)

// raydiumAmmClassifier decodes SwapBaseIn and SwapBaseOut; every other
// opcode in the program's instruction set (pool lifecycle, liquidity
// management, admin) is uninteresting for MEV classification. amm_id
// sits at account position 1 in both swap instructions.
type raydiumAmmClassifier struct{}

func (raydiumAmmClassifier) ProgramID() pubkey.Pubkey { return RaydiumAmmProgramID }

func (raydiumAmmClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 1 {
		return nil, fmt.Errorf("%w: raydium amm instruction truncated", ErrInvalidEncoding)
	}
	switch ix.Data[0] {
	case raydiumAmmOpSwapBaseIn:
		if len(ix.Data) < 17 {
			return nil, fmt.Errorf("%w: SwapBaseIn args truncated", ErrInvalidEncoding)
		}
		amountIn := binary.LittleEndian.Uint64(ix.Data[1:9])
		minimumAmountOut := binary.LittleEndian.Uint64(ix.Data[9:17])
		ammID, err := raydiumAmmID(t, ix)
		if err != nil {
			return nil, err
		}
		return &action.RaydiumAmmSwapBaseIn{AmmID: ammID, AmountIn: amountIn, MinimumAmountOut: minimumAmountOut}, nil

	case raydiumAmmOpSwapBaseOut:
		if len(ix.Data) < 17 {
			return nil, fmt.Errorf("%w: SwapBaseOut args truncated", ErrInvalidEncoding)
		}
		maxAmountIn := binary.LittleEndian.Uint64(ix.Data[1:9])
		amountOut := binary.LittleEndian.Uint64(ix.Data[9:17])
		ammID, err := raydiumAmmID(t, ix)
		if err != nil {
			return nil, err
		}
		return &action.RaydiumAmmSwapBaseOut{AmmID: ammID, MaxAmountIn: maxAmountIn, AmountOut: amountOut}, nil

	default:
		return nil, nil
	}
}

func raydiumAmmID(t *txn.Transaction, ix txn.Instruction) (pubkey.Pubkey, error) {
	if len(ix.Accounts) < 2 {
		return pubkey.Zero, fmt.Errorf("%w: raydium amm swap expects at least 2 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
	}
	return resolveAccount(t, ix, 1)
}
