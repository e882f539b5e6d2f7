package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// JupiterV6ProgramID is Jupiter Aggregator V6.
var JupiterV6ProgramID = pubkey.MustParse("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")

var (
	jupiterDiscriminatorRoute                = [8]byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a}
	jupiterDiscriminatorRouteWithTokenLedger = [8]byte{0x96, 0x56, 0x47, 0x74, 0xa7, 0x5d, 0x0e, 0x68}
	jupiterDiscriminatorSharedAccountsRoute  = [8]byte{0xc1, 0x20, 0x9b, 0x33, 0x41, 0xd6, 0x9c, 0x81}
)

// jupiterV6Classifier decodes Jupiter's three route instructions. Each
// recurses during classify: Jupiter routes through one or more inner DEX
// CPIs, and DEX-swap normalization needs those to recover the swap's legs.
type jupiterV6Classifier struct{}

func (jupiterV6Classifier) ProgramID() pubkey.Pubkey { return JupiterV6ProgramID }

func (jupiterV6Classifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 8 {
		return nil, fmt.Errorf("%w: jupiter v6 instruction truncated", ErrInvalidEncoding)
	}
	var discriminator [8]byte
	copy(discriminator[:], ix.Data[:8])
	args := ix.Data[8:]

	switch discriminator {
	case jupiterDiscriminatorRoute, jupiterDiscriminatorSharedAccountsRoute:
		// route_plan (borsh vec, variable length) precedes a fixed
		// 19-byte tail of in_amount:u64, quoted_out_amount:u64,
		// slippage_bps:u16, platform_fee_bps:u8. SharedAccountsRoute only
		// adds a leading one-byte id before route_plan, so the tail
		// layout is identical.
		const tailLen = 19
		if len(args) < tailLen {
			return nil, fmt.Errorf("%w: route args truncated", ErrInvalidEncoding)
		}
		tail := args[len(args)-tailLen:]
		amountIn := binary.LittleEndian.Uint64(tail[0:8])
		quotedOutAmount := binary.LittleEndian.Uint64(tail[8:16])
		if discriminator == jupiterDiscriminatorSharedAccountsRoute {
			return &action.JupiterV6SharedAccountsRoute{AmountIn: amountIn, MinimumAmountOut: quotedOutAmount}, nil
		}
		return &action.JupiterV6Route{AmountIn: amountIn, MinimumAmountOut: quotedOutAmount}, nil

	case jupiterDiscriminatorRouteWithTokenLedger:
		// route_plan precedes a fixed 11-byte tail of
		// quoted_out_amount:u64, slippage_bps:u16, platform_fee_bps:u8.
		const tailLen = 11
		if len(args) < tailLen {
			return nil, fmt.Errorf("%w: route_with_token_ledger args truncated", ErrInvalidEncoding)
		}
		tail := args[len(args)-tailLen:]
		quotedOutAmount := binary.LittleEndian.Uint64(tail[0:8])
		return &action.JupiterV6RouteWithTokenLedger{MinimumAmountOut: quotedOutAmount}, nil

	default:
		return nil, nil
	}
}
