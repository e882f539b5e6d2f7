package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// WhirlpoolsProgramID is Orca's Whirlpools concentrated-liquidity AMM.
var WhirlpoolsProgramID = pubkey.MustParse("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

// Anchor instruction discriminators: first 8 bytes of sha256("global:<name>").
var (
	whirlpoolsDiscriminatorSwap   = [8]byte{0xf8, 0xc6, 0x9e, 0x91, 0xe1, 0x75, 0x87, 0xc8}
	whirlpoolsDiscriminatorSwapV2 = [8]byte{0x2b, 0x04, 0xed, 0x0b, 0x1a, 0xc9, 0x1e, 0x62}
)

// whirlpoolsClassifier decodes Swap and SwapV2. The whirlpool account sits
// at position 2 in both instructions' account lists, followed by the
// trader/pool account pairs tokenOwnerAccountA/tokenVaultA (3/4) and
// tokenOwnerAccountB/tokenVaultB (5/6); DEX-swap normalization uses these
// together with a_to_b to find the matching inner token transfers this
// instruction CPIs into (spec §4.6.1).
type whirlpoolsClassifier struct{}

func (whirlpoolsClassifier) ProgramID() pubkey.Pubkey { return WhirlpoolsProgramID }

func (whirlpoolsClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 8 {
		return nil, fmt.Errorf("%w: whirlpools instruction truncated", ErrInvalidEncoding)
	}
	var discriminator [8]byte
	copy(discriminator[:], ix.Data[:8])

	switch discriminator {
	case whirlpoolsDiscriminatorSwap, whirlpoolsDiscriminatorSwapV2:
	default:
		return nil, nil
	}

	if len(ix.Data) < 16 {
		return nil, fmt.Errorf("%w: whirlpools swap args truncated", ErrInvalidEncoding)
	}
	amount := binary.LittleEndian.Uint64(ix.Data[8:16])

	var aToB bool
	if len(ix.Data) >= 42 {
		aToB = ix.Data[41] != 0
	}

	if len(ix.Accounts) < 7 {
		return nil, fmt.Errorf("%w: whirlpools swap expects at least 7 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
	}
	whirlpool, err := resolveAccount(t, ix, 2)
	if err != nil {
		return nil, err
	}
	tokenOwnerAccountA, err := resolveAccount(t, ix, 3)
	if err != nil {
		return nil, err
	}
	tokenVaultA, err := resolveAccount(t, ix, 4)
	if err != nil {
		return nil, err
	}
	tokenOwnerAccountB, err := resolveAccount(t, ix, 5)
	if err != nil {
		return nil, err
	}
	tokenVaultB, err := resolveAccount(t, ix, 6)
	if err != nil {
		return nil, err
	}

	if discriminator == whirlpoolsDiscriminatorSwapV2 {
		return &action.WhirlpoolsSwapV2{
			Whirlpool: whirlpool, Amount: amount, AToB: aToB,
			TokenOwnerAccountA: tokenOwnerAccountA, TokenVaultA: tokenVaultA,
			TokenOwnerAccountB: tokenOwnerAccountB, TokenVaultB: tokenVaultB,
		}, nil
	}
	return &action.WhirlpoolsSwap{
		Whirlpool: whirlpool, Amount: amount, AToB: aToB,
		TokenOwnerAccountA: tokenOwnerAccountA, TokenVaultA: tokenVaultA,
		TokenOwnerAccountB: tokenOwnerAccountB, TokenVaultB: tokenVaultB,
	}, nil
}
