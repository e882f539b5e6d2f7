// Package txn implements the Decoded Transaction (C1): a random-access
// view over a wire-format transaction and its metadata, with inner
// instructions expanded and interleaved into execution order.
package txn

import (
	"fmt"

	"github.com/mr-tron/base58"

	"solmev/internal/pubkey"
	"solmev/internal/rpcblock"
	"solmev/pkg/utils"
)

// Instruction is one entry in a Transaction's flattened instruction
// sequence (spec §3 DecodedInstruction).
type Instruction struct {
	ProgramIDIndex int
	Accounts       []int
	Data           []byte
	StackHeight    int
}

// Status is a transaction's execution outcome.
type Status struct {
	OK   bool
	Code string
}

// TokenBalance is a token account's mint and amount at a point in time.
type TokenBalance struct {
	Mint     pubkey.Pubkey
	Amount   uint64
	Decimals uint8
}

// Tag is the capability a post-processing label (AtomicArbitrage,
// Frontrun, Victim, Backrun - defined in package action) must implement to
// be attached to a Transaction. Defined here, not in package action, so
// that txn never imports action.
type Tag interface {
	TagType() string
}

// Transaction is the Decoded Transaction (C1): signature, flattened
// instructions, the combined address table, and pre/post token balances,
// keyed by resolved Pubkey for O(1) lookup.
type Transaction struct {
	Signature    [64]byte
	Status       Status
	Instructions []Instruction

	StaticKeys     []pubkey.Pubkey
	LoadedWritable []pubkey.Pubkey
	LoadedReadonly []pubkey.Pubkey

	PreTokenBalances  map[pubkey.Pubkey]TokenBalance
	PostTokenBalances map[pubkey.Pubkey]TokenBalance

	// CreatedTokens maps a token account created within this transaction to
	// its mint. Populated by the dispatcher after classification (spec
	// §4.4), not by New.
	CreatedTokens map[pubkey.Pubkey]pubkey.Pubkey

	Tags []Tag

	Fee uint64
}

// New builds a Transaction from a wire-format envelope, per spec §4.1.
// Deterministic: expands each top-level instruction's inner instructions
// immediately after it, in execution order.
func New(envelope rpcblock.Transaction) (*Transaction, error) {
	if envelope.Meta == nil {
		return nil, ErrMissingTransactionMeta
	}
	meta := envelope.Meta

	if len(envelope.Transaction.Signatures) == 0 {
		return nil, fmt.Errorf("txn: transaction has no signatures")
	}
	sigBytes, err := base58.Decode(envelope.Transaction.Signatures[0])
	if err != nil {
		return nil, utils.Wrap(err, "txn: decode signature")
	}
	if len(sigBytes) != 64 {
		return nil, fmt.Errorf("txn: expected 64-byte signature, got %d", len(sigBytes))
	}
	var sig [64]byte
	copy(sig[:], sigBytes)

	staticKeys, err := parsePubkeys(envelope.Transaction.Message.AccountKeys)
	if err != nil {
		return nil, utils.Wrap(err, "txn: parse static keys")
	}
	writable, err := parsePubkeys(meta.LoadedAddresses.Writable)
	if err != nil {
		return nil, utils.Wrap(err, "txn: parse loaded writable")
	}
	readonly, err := parsePubkeys(meta.LoadedAddresses.Readonly)
	if err != nil {
		return nil, utils.Wrap(err, "txn: parse loaded readonly")
	}

	t := &Transaction{
		Signature:         sig,
		StaticKeys:        staticKeys,
		LoadedWritable:    writable,
		LoadedReadonly:    readonly,
		PreTokenBalances:  map[pubkey.Pubkey]TokenBalance{},
		PostTokenBalances: map[pubkey.Pubkey]TokenBalance{},
		CreatedTokens:     map[pubkey.Pubkey]pubkey.Pubkey{},
		Fee:               meta.Fee,
	}
	if meta.Succeeded() {
		t.Status = Status{OK: true}
	} else {
		t.Status = Status{OK: false, Code: string(meta.Err)}
	}

	innerByIndex := make(map[int]rpcblock.InnerInstructionBlock, len(meta.InnerInstructions))
	for _, blk := range meta.InnerInstructions {
		innerByIndex[blk.Index] = blk
	}

	for i, wireIx := range envelope.Transaction.Message.Instructions {
		data, err := wireIx.DecodeData()
		if err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("txn: decode top-level instruction %d", i))
		}
		t.Instructions = append(t.Instructions, Instruction{
			ProgramIDIndex: wireIx.ProgramIDIndex,
			Accounts:       wireIx.Accounts,
			Data:           data,
			StackHeight:    1,
		})

		block, ok := innerByIndex[i]
		if !ok {
			continue
		}
		for _, inner := range block.Instructions {
			innerData, err := inner.DecodeData()
			if err != nil {
				return nil, fmt.Errorf("%w: top-level index %d: %v", ErrUnsupportedEncoding, i, err)
			}
			if inner.StackHeight == nil {
				return nil, fmt.Errorf("%w: top-level index %d", ErrMissingStackHeight, i)
			}
			t.Instructions = append(t.Instructions, Instruction{
				ProgramIDIndex: inner.ProgramIDIndex,
				Accounts:       inner.Accounts,
				Data:           innerData,
				StackHeight:    *inner.StackHeight,
			})
		}
	}

	if err := t.loadTokenBalances(meta); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *Transaction) loadTokenBalances(meta *rpcblock.Meta) error {
	for _, entry := range meta.PreTokenBalances {
		p, ok := t.GetPubkey(entry.AccountIndex)
		if !ok {
			continue
		}
		bal, err := toTokenBalance(entry)
		if err != nil {
			return err
		}
		t.PreTokenBalances[p] = bal
	}
	for _, entry := range meta.PostTokenBalances {
		p, ok := t.GetPubkey(entry.AccountIndex)
		if !ok {
			continue
		}
		bal, err := toTokenBalance(entry)
		if err != nil {
			return err
		}
		t.PostTokenBalances[p] = bal
	}
	return nil
}

func toTokenBalance(entry rpcblock.TokenBalanceEntry) (TokenBalance, error) {
	mint, err := pubkey.Parse(entry.Mint)
	if err != nil {
		return TokenBalance{}, utils.Wrap(err, "txn: parse token balance mint")
	}
	var amount uint64
	if _, err := fmt.Sscanf(entry.UITokenAmount.Amount, "%d", &amount); err != nil {
		return TokenBalance{}, utils.Wrap(err, fmt.Sprintf("txn: parse token balance amount %q", entry.UITokenAmount.Amount))
	}
	return TokenBalance{Mint: mint, Amount: amount, Decimals: entry.UITokenAmount.Decimals}, nil
}

func parsePubkeys(keys []string) ([]pubkey.Pubkey, error) {
	out := make([]pubkey.Pubkey, len(keys))
	for i, k := range keys {
		p, err := pubkey.Parse(k)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// GetPubkey implements the combined address-table lookup (spec I2):
// static keys, then writable loaded addresses, then readonly.
func (t *Transaction) GetPubkey(index int) (pubkey.Pubkey, bool) {
	if index < 0 {
		return pubkey.Zero, false
	}
	if index < len(t.StaticKeys) {
		return t.StaticKeys[index], true
	}
	index -= len(t.StaticKeys)
	if index < len(t.LoadedWritable) {
		return t.LoadedWritable[index], true
	}
	index -= len(t.LoadedWritable)
	if index < len(t.LoadedReadonly) {
		return t.LoadedReadonly[index], true
	}
	return pubkey.Zero, false
}

// GetIndexForPubkey is the inverse of GetPubkey: static keys first, then
// writable, then readonly.
func (t *Transaction) GetIndexForPubkey(p pubkey.Pubkey) (int, bool) {
	for i, k := range t.StaticKeys {
		if k == p {
			return i, true
		}
	}
	base := len(t.StaticKeys)
	for i, k := range t.LoadedWritable {
		if k == p {
			return base + i, true
		}
	}
	base += len(t.LoadedWritable)
	for i, k := range t.LoadedReadonly {
		if k == p {
			return base + i, true
		}
	}
	return 0, false
}

// GetPreTokenBalance resolves a token account's balance before the
// transaction executed.
func (t *Transaction) GetPreTokenBalance(p pubkey.Pubkey) (TokenBalance, error) {
	bal, ok := t.PreTokenBalances[p]
	if !ok {
		return TokenBalance{}, ErrTokenBalanceMissing
	}
	return bal, nil
}

// GetPostTokenBalance resolves a token account's balance after the
// transaction executed.
func (t *Transaction) GetPostTokenBalance(p pubkey.Pubkey) (TokenBalance, error) {
	bal, ok := t.PostTokenBalances[p]
	if !ok {
		return TokenBalance{}, ErrTokenBalanceMissing
	}
	return bal, nil
}

// GetMintForTokenAccount resolves a token account's mint, preferring the
// pre-transaction balance and falling back to CreatedTokens for accounts
// that were created within this transaction.
func (t *Transaction) GetMintForTokenAccount(p pubkey.Pubkey) (pubkey.Pubkey, error) {
	if bal, ok := t.PreTokenBalances[p]; ok {
		return bal.Mint, nil
	}
	if mint, ok := t.CreatedTokens[p]; ok {
		return mint, nil
	}
	if bal, ok := t.PostTokenBalances[p]; ok {
		return bal.Mint, nil
	}
	return pubkey.Zero, fmt.Errorf("txn: no mint known for token account %s", p)
}

// FeePayer returns the transaction's fee payer, the first static key.
func (t *Transaction) FeePayer() pubkey.Pubkey {
	if len(t.StaticKeys) == 0 {
		return pubkey.Zero
	}
	return t.StaticKeys[0]
}

// Equal compares transactions by signature only, per spec §4.1.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Signature == other.Signature
}
