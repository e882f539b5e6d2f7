package action

import (
	"errors"
	"fmt"

	"solmev/internal/pubkey"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

// ErrMissingTransfer is returned by IntoDexSwap implementations that
// require inner Token transfers to recover amounts when none are found.
var ErrMissingTransfer = errors.New("action: missing expected inner transfer")

// DexSwap is the canonical normalized swap record produced by the
// DEX-swap labeller (spec §4.6.1). It is terminal: its IntoDexSwap (the
// base default) always returns (nil, nil), so a second labelling pass
// never re-wraps it.
type DexSwap struct {
	leaf
	InputMint          pubkey.Pubkey `json:"input_mint"`
	OutputMint         pubkey.Pubkey `json:"output_mint"`
	InputTokenAccount  pubkey.Pubkey `json:"input_token_account"`
	OutputTokenAccount pubkey.Pubkey `json:"output_token_account"`
	InputAmount        uint64        `json:"input_amount"`
	OutputAmount       uint64        `json:"output_amount"`
}

func (d *DexSwap) ToJSON() (map[string]any, error) { return toJSON("DexSwap", d) }

// dexSwapFromLegs resolves the mints of an already-identified input/output
// leg pair into the canonical DexSwap record.
func dexSwapFromLegs(t *txn.Transaction, input, output *TokenTransfer) (*DexSwap, error) {
	inputMint, err := t.GetMintForTokenAccount(input.Source)
	if err != nil {
		return nil, fmt.Errorf("action: resolve input mint: %w", err)
	}
	outputMint, err := t.GetMintForTokenAccount(output.Destination)
	if err != nil {
		return nil, fmt.Errorf("action: resolve output mint: %w", err)
	}
	return &DexSwap{
		InputMint:          inputMint,
		OutputMint:         outputMint,
		InputTokenAccount:  input.Source,
		OutputTokenAccount: output.Destination,
		InputAmount:        input.Amount,
		OutputAmount:       output.Amount,
	}, nil
}

// swapFromTransfers implements the "search the action's subtree for the
// matching inner Token transfer(s)" branch of §4.6.1 for protocols that
// carry no account-level direction hint of their own: the first direct
// Token.Transfer/TransferChecked child is the input leg (funds moving from
// the trader into the pool), the second is the output leg, in instruction
// order. Used by the legacy Raydium AMM and Phoenix, neither of which
// decode a swap-direction flag today.
func swapFromTransfers(t *txn.Transaction, tr *Tree, id tree.NodeID) (*DexSwap, error) {
	first, second, ok := firstTwoTransfers(tr, id)
	if !ok {
		return nil, fmt.Errorf("%w: swap at node %d", ErrMissingTransfer, id)
	}
	return dexSwapFromLegs(t, first, second)
}

// swapFromNestedTransfers is swapFromTransfers widened to the action's
// whole subtree: Jupiter's route instructions CPI into one or more inner
// DEX swaps, so the legs that fund the trade are grandchildren (or
// deeper), not direct children, of the Route action itself.
func swapFromNestedTransfers(t *txn.Transaction, tr *Tree, id tree.NodeID) (*DexSwap, error) {
	first, second, ok := firstTwoTransfersInSubtree(tr, id)
	if !ok {
		return nil, fmt.Errorf("%w: swap at node %d", ErrMissingTransfer, id)
	}
	return dexSwapFromLegs(t, first, second)
}

// swapByDirection implements §4.6.1's direction-disambiguation branch for
// protocols whose instruction carries a boolean that names which of two
// known vault pairs is the input: Whirlpools' a_to_b and Raydium CLMM's
// is_base_input, both decoded from the same Whirlpools-derived account
// layout (tokenOwnerAccountA/tokenVaultA, tokenOwnerAccountB/tokenVaultB).
// When aToB, the trader's A account funds the A vault (input) and the B
// vault pays the trader's B account (output); false reverses the pair.
func swapByDirection(t *txn.Transaction, tr *Tree, id tree.NodeID, ownerA, vaultA, ownerB, vaultB pubkey.Pubkey, aToB bool) (*DexSwap, error) {
	inFrom, inTo, outFrom, outTo := ownerA, vaultA, vaultB, ownerB
	if !aToB {
		inFrom, inTo, outFrom, outTo = ownerB, vaultB, vaultA, ownerA
	}
	input, ok := findTransfer(tr, id, inFrom, inTo)
	if !ok {
		return nil, fmt.Errorf("%w: swap input leg at node %d", ErrMissingTransfer, id)
	}
	output, ok := findTransfer(tr, id, outFrom, outTo)
	if !ok {
		return nil, fmt.Errorf("%w: swap output leg at node %d", ErrMissingTransfer, id)
	}
	return dexSwapFromLegs(t, input, output)
}

// swapByUserAccounts implements §4.6.1/SPEC_FULL §C.5 for Meteora DLMM,
// whose swap instruction names the trader's own input and output token
// accounts positionally (user_token_in, user_token_out) rather than a pair
// of vaults with a boolean selecting between them. The legs are found by
// matching a direct-child transfer sourced from userTokenIn and one
// destined to userTokenOut; TokenXMint is carried on the struct for callers
// that want the pool's nominal x-mint but is not itself consulted here,
// since it is derived from userTokenIn and comparing it back would be
// circular (see DESIGN.md).
func swapByUserAccounts(t *txn.Transaction, tr *Tree, id tree.NodeID, userTokenIn, userTokenOut pubkey.Pubkey) (*DexSwap, error) {
	input, ok := findTransferFrom(tr, id, userTokenIn)
	if !ok {
		return nil, fmt.Errorf("%w: swap input leg at node %d", ErrMissingTransfer, id)
	}
	output, ok := findTransferTo(tr, id, userTokenOut)
	if !ok {
		return nil, fmt.Errorf("%w: swap output leg at node %d", ErrMissingTransfer, id)
	}
	return dexSwapFromLegs(t, input, output)
}

// WhirlpoolsSwap is an Orca Whirlpools `swap` instruction. TokenOwnerAccountA/
// TokenVaultA and TokenOwnerAccountB/TokenVaultB are the trader/pool account
// pairs at the instruction's standard account positions 3-6; AToB selects
// which pair is the input per §4.6.1.
type WhirlpoolsSwap struct {
	base
	Whirlpool          pubkey.Pubkey `json:"whirlpool"`
	Amount             uint64        `json:"amount"`
	AToB               bool          `json:"a_to_b"`
	TokenOwnerAccountA pubkey.Pubkey `json:"token_owner_account_a"`
	TokenVaultA        pubkey.Pubkey `json:"token_vault_a"`
	TokenOwnerAccountB pubkey.Pubkey `json:"token_owner_account_b"`
	TokenVaultB        pubkey.Pubkey `json:"token_vault_b"`
}

func (w *WhirlpoolsSwap) ToJSON() (map[string]any, error) { return toJSON("Whirlpools.Swap", w) }
func (w *WhirlpoolsSwap) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapByDirection(t, tr, id, w.TokenOwnerAccountA, w.TokenVaultA, w.TokenOwnerAccountB, w.TokenVaultB, w.AToB)
}

// WhirlpoolsSwapV2 is the token-2022-aware successor to WhirlpoolsSwap.
type WhirlpoolsSwapV2 struct {
	base
	Whirlpool          pubkey.Pubkey `json:"whirlpool"`
	Amount             uint64        `json:"amount"`
	AToB               bool          `json:"a_to_b"`
	TokenOwnerAccountA pubkey.Pubkey `json:"token_owner_account_a"`
	TokenVaultA        pubkey.Pubkey `json:"token_vault_a"`
	TokenOwnerAccountB pubkey.Pubkey `json:"token_owner_account_b"`
	TokenVaultB        pubkey.Pubkey `json:"token_vault_b"`
}

func (w *WhirlpoolsSwapV2) ToJSON() (map[string]any, error) { return toJSON("Whirlpools.SwapV2", w) }
func (w *WhirlpoolsSwapV2) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapByDirection(t, tr, id, w.TokenOwnerAccountA, w.TokenVaultA, w.TokenOwnerAccountB, w.TokenVaultB, w.AToB)
}

// JupiterV6Route is a Jupiter aggregator V6 `route` instruction. Route CPIs
// into one or more inner DEX swaps to fill the route, so its legs are
// recovered from the whole subtree rather than direct children.
type JupiterV6Route struct {
	base
	AmountIn         uint64 `json:"amount_in"`
	MinimumAmountOut uint64 `json:"minimum_amount_out"`
}

func (j *JupiterV6Route) ToJSON() (map[string]any, error) { return toJSON("JupiterV6.Route", j) }
func (j *JupiterV6Route) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromNestedTransfers(t, tr, id)
}

// JupiterV6RouteWithTokenLedger is Route sourcing its input amount from a
// previously-written token ledger account rather than an argument.
type JupiterV6RouteWithTokenLedger struct {
	base
	MinimumAmountOut uint64 `json:"minimum_amount_out"`
}

func (j *JupiterV6RouteWithTokenLedger) ToJSON() (map[string]any, error) {
	return toJSON("JupiterV6.RouteWithTokenLedger", j)
}
func (j *JupiterV6RouteWithTokenLedger) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromNestedTransfers(t, tr, id)
}

// JupiterV6SharedAccountsRoute is Route using Jupiter's shared intermediate
// token accounts to reduce the number of accounts a route needs.
type JupiterV6SharedAccountsRoute struct {
	base
	AmountIn         uint64 `json:"amount_in"`
	MinimumAmountOut uint64 `json:"minimum_amount_out"`
}

func (j *JupiterV6SharedAccountsRoute) ToJSON() (map[string]any, error) {
	return toJSON("JupiterV6.SharedAccountsRoute", j)
}
func (j *JupiterV6SharedAccountsRoute) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromNestedTransfers(t, tr, id)
}

// MeteoraDlmmSwap is a Meteora DLMM `swap` instruction. UserTokenIn/
// UserTokenOut are the trader's own token accounts at the instruction's
// positional slots 1-2 and are what actually disambiguates the swap's
// legs (§4.6.1). TokenXMint records the pool's nominal x-mint, derived
// from UserTokenIn's resolved mint, for callers that want it; see
// swapByUserAccounts for why it isn't itself used to pick a direction.
type MeteoraDlmmSwap struct {
	base
	LbPair       pubkey.Pubkey `json:"lb_pair"`
	AmountIn     uint64        `json:"amount_in"`
	MinAmountOut uint64        `json:"min_amount_out"`
	TokenXMint   pubkey.Pubkey `json:"token_x_mint"`
	UserTokenIn  pubkey.Pubkey `json:"user_token_in"`
	UserTokenOut pubkey.Pubkey `json:"user_token_out"`
}

func (m *MeteoraDlmmSwap) ToJSON() (map[string]any, error) { return toJSON("MeteoraDlmm.Swap", m) }
func (m *MeteoraDlmmSwap) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapByUserAccounts(t, tr, id, m.UserTokenIn, m.UserTokenOut)
}

// MeteoraDlmmSwapExactOut is Swap parameterized by a fixed output amount
// instead of a fixed input.
type MeteoraDlmmSwapExactOut struct {
	base
	LbPair       pubkey.Pubkey `json:"lb_pair"`
	MaxInAmount  uint64        `json:"max_in_amount"`
	OutAmount    uint64        `json:"out_amount"`
	TokenXMint   pubkey.Pubkey `json:"token_x_mint"`
	UserTokenIn  pubkey.Pubkey `json:"user_token_in"`
	UserTokenOut pubkey.Pubkey `json:"user_token_out"`
}

func (m *MeteoraDlmmSwapExactOut) ToJSON() (map[string]any, error) {
	return toJSON("MeteoraDlmm.SwapExactOut", m)
}
func (m *MeteoraDlmmSwapExactOut) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapByUserAccounts(t, tr, id, m.UserTokenIn, m.UserTokenOut)
}

// RaydiumClmmSwap is a Raydium concentrated-liquidity `swap` instruction.
// Its Swap instruction was forked from Whirlpools and shares the same
// account layout, so TokenOwnerAccountA/TokenVaultA/TokenOwnerAccountB/
// TokenVaultB and IsBaseInput resolve direction exactly as Whirlpools' AToB
// does.
type RaydiumClmmSwap struct {
	base
	PoolState            pubkey.Pubkey `json:"pool_state"`
	Amount               uint64        `json:"amount"`
	OtherAmountThreshold uint64        `json:"other_amount_threshold"`
	IsBaseInput          bool          `json:"is_base_input"`
	TokenOwnerAccountA   pubkey.Pubkey `json:"token_owner_account_a"`
	TokenVaultA          pubkey.Pubkey `json:"token_vault_a"`
	TokenOwnerAccountB   pubkey.Pubkey `json:"token_owner_account_b"`
	TokenVaultB          pubkey.Pubkey `json:"token_vault_b"`
}

func (r *RaydiumClmmSwap) ToJSON() (map[string]any, error) { return toJSON("RaydiumClmm.Swap", r) }
func (r *RaydiumClmmSwap) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapByDirection(t, tr, id, r.TokenOwnerAccountA, r.TokenVaultA, r.TokenOwnerAccountB, r.TokenVaultB, r.IsBaseInput)
}

// RaydiumAmmSwapBaseIn is a legacy Raydium constant-product AMM swap
// parameterized by a fixed input amount.
type RaydiumAmmSwapBaseIn struct {
	base
	AmmID            pubkey.Pubkey `json:"amm_id"`
	AmountIn         uint64        `json:"amount_in"`
	MinimumAmountOut uint64        `json:"minimum_amount_out"`
}

func (r *RaydiumAmmSwapBaseIn) ToJSON() (map[string]any, error) {
	return toJSON("RaydiumAmm.SwapBaseIn", r)
}
func (r *RaydiumAmmSwapBaseIn) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromTransfers(t, tr, id)
}

// RaydiumAmmSwapBaseOut is the fixed-output counterpart to SwapBaseIn.
type RaydiumAmmSwapBaseOut struct {
	base
	AmmID       pubkey.Pubkey `json:"amm_id"`
	MaxAmountIn uint64        `json:"max_amount_in"`
	AmountOut   uint64        `json:"amount_out"`
}

func (r *RaydiumAmmSwapBaseOut) ToJSON() (map[string]any, error) {
	return toJSON("RaydiumAmm.SwapBaseOut", r)
}
func (r *RaydiumAmmSwapBaseOut) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromTransfers(t, tr, id)
}

// PhoenixV1Swap is a Phoenix central-limit-order-book swap (the `Swap` or
// `SwapWithFreeFunds` instruction family, not decoded further here).
type PhoenixV1Swap struct {
	base
	Market pubkey.Pubkey `json:"market"`
}

func (p *PhoenixV1Swap) ToJSON() (map[string]any, error) { return toJSON("PhoenixV1.Swap", p) }
func (p *PhoenixV1Swap) IntoDexSwap(t *txn.Transaction, id tree.NodeID, tr *Tree) (*DexSwap, error) {
	return swapFromTransfers(t, tr, id)
}

var (
	_ Action = (*DexSwap)(nil)
	_ Action = (*WhirlpoolsSwap)(nil)
	_ Action = (*WhirlpoolsSwapV2)(nil)
	_ Action = (*JupiterV6Route)(nil)
	_ Action = (*JupiterV6RouteWithTokenLedger)(nil)
	_ Action = (*JupiterV6SharedAccountsRoute)(nil)
	_ Action = (*MeteoraDlmmSwap)(nil)
	_ Action = (*MeteoraDlmmSwapExactOut)(nil)
	_ Action = (*RaydiumClmmSwap)(nil)
	_ Action = (*RaydiumAmmSwapBaseIn)(nil)
	_ Action = (*RaydiumAmmSwapBaseOut)(nil)
	_ Action = (*PhoenixV1Swap)(nil)
)
