package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// MeteoraDlmmProgramID is Meteora's Dynamic Liquidity Market Maker.
var MeteoraDlmmProgramID = pubkey.MustParse("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")

var (
	meteoraDlmmDiscriminatorSwap         = [8]byte{0xf8, 0xc6, 0x9e, 0x91, 0xe1, 0x75, 0x87, 0xc8}
	meteoraDlmmDiscriminatorSwapExactOut = [8]byte{0xfa, 0x49, 0x65, 0x21, 0x26, 0xcf, 0x4b, 0xb8}
)

// meteoraDlmmClassifier decodes Swap and SwapExactOut. lb_pair sits at
// account position 0, user_token_in at 1, user_token_out at 2; these are
// the trader's own accounts and are what the normalizer matches the inner
// transfer legs against (spec §4.6.1). TokenXMint is resolved from
// user_token_in's mint for callers that want the pool's nominal x-mint,
// but since it is derived from the same account used to find the input
// leg, it isn't itself compared against anything to pick a direction.
type meteoraDlmmClassifier struct{}

func (meteoraDlmmClassifier) ProgramID() pubkey.Pubkey { return MeteoraDlmmProgramID }

func (meteoraDlmmClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 8 {
		return nil, fmt.Errorf("%w: meteora dlmm instruction truncated", ErrInvalidEncoding)
	}
	var discriminator [8]byte
	copy(discriminator[:], ix.Data[:8])

	switch discriminator {
	case meteoraDlmmDiscriminatorSwap, meteoraDlmmDiscriminatorSwapExactOut:
	default:
		return nil, nil
	}
	if len(ix.Data) < 16 {
		return nil, fmt.Errorf("%w: meteora dlmm swap args truncated", ErrInvalidEncoding)
	}
	amount := binary.LittleEndian.Uint64(ix.Data[8:16])

	if len(ix.Accounts) < 3 {
		return nil, fmt.Errorf("%w: meteora dlmm swap expects at least 3 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
	}
	lbPair, err := resolveAccount(t, ix, 0)
	if err != nil {
		return nil, err
	}
	userTokenIn, err := resolveAccount(t, ix, 1)
	if err != nil {
		return nil, err
	}
	userTokenOut, err := resolveAccount(t, ix, 2)
	if err != nil {
		return nil, err
	}
	tokenXMint, err := t.GetMintForTokenAccount(userTokenIn)
	if err != nil {
		tokenXMint = pubkey.Zero
	}

	if discriminator == meteoraDlmmDiscriminatorSwapExactOut {
		return &action.MeteoraDlmmSwapExactOut{
			LbPair: lbPair, OutAmount: amount, TokenXMint: tokenXMint,
			UserTokenIn: userTokenIn, UserTokenOut: userTokenOut,
		}, nil
	}
	return &action.MeteoraDlmmSwap{
		LbPair: lbPair, AmountIn: amount, TokenXMint: tokenXMint,
		UserTokenIn: userTokenIn, UserTokenOut: userTokenOut,
	}, nil
}
