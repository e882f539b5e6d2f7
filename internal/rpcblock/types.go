// Package rpcblock defines the wire-format shapes the core consumes: a
// structurally-equivalent representation of a chain RPC's getBlock result.
// Fetching these documents is an external collaborator's job; this package
// only describes what lands on the wire.
package rpcblock

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// Block is the decoded-block document described in spec §6.1.
type Block struct {
	ParentSlot   uint64        `json:"parent_slot"`
	BlockTime    *int64        `json:"block_time"`
	Transactions []Transaction `json:"transactions"`
}

// Transaction wraps one transaction envelope and its metadata. Meta is a
// pointer because a missing meta block is itself meaningful (spec
// MissingTransactionMeta).
type Transaction struct {
	Transaction TransactionBody `json:"transaction"`
	Meta        *Meta           `json:"meta"`
}

// TransactionBody carries the signed message; signatures are base58
// strings, the form every Solana RPC emits them in.
type TransactionBody struct {
	Signatures []string `json:"signatures"`
	Message    Message  `json:"message"`
}

// Message holds the combined static account keys and the compiled
// top-level instructions.
type Message struct {
	AccountKeys  []string      `json:"account_keys"`
	Instructions []Instruction `json:"instructions"`
}

// Instruction is a compiled instruction as it appears on the wire, used for
// both top-level (message.instructions) and inner (meta.inner_instructions)
// positions. StackHeight is absent for top-level instructions (implied 1)
// and required for inner ones.
type Instruction struct {
	ProgramIDIndex int             `json:"program_id_index"`
	Accounts       []int           `json:"accounts"`
	Data           json.RawMessage `json:"data"`
	StackHeight    *int            `json:"stack_height,omitempty"`
}

// DecodeData returns the instruction's raw bytes, decoding the base58
// string form. A non-string (e.g. jsonParsed object) form is unsupported.
func (i Instruction) DecodeData() ([]byte, error) {
	return decodeBase58JSON(i.Data)
}

// InnerInstructionBlock groups the inner instructions triggered by the
// top-level instruction at Index.
type InnerInstructionBlock struct {
	Index        int           `json:"index"`
	Instructions []Instruction `json:"instructions"`
}

// Meta is the transaction metadata block: status, fee, balances, inner
// instructions, and the address-table lookup extension.
type Meta struct {
	Err               json.RawMessage         `json:"err"`
	Fee               uint64                  `json:"fee"`
	PreTokenBalances  []TokenBalanceEntry     `json:"pre_token_balances"`
	PostTokenBalances []TokenBalanceEntry     `json:"post_token_balances"`
	InnerInstructions []InnerInstructionBlock `json:"inner_instructions"`
	LoadedAddresses   LoadedAddresses         `json:"loaded_addresses"`
}

// Succeeded reports whether the transaction executed without error. The
// RPC convention is `err: null` on success.
func (m *Meta) Succeeded() bool {
	return m == nil || len(m.Err) == 0 || string(m.Err) == "null"
}

// LoadedAddresses is the address-lookup-table extension to the static
// account keys: writable entries first, then readonly (spec I2).
type LoadedAddresses struct {
	Writable []string `json:"writable"`
	Readonly []string `json:"readonly"`
}

// TokenBalanceEntry is one pre/post token balance record, indexed by
// position in the combined address table.
type TokenBalanceEntry struct {
	AccountIndex  int           `json:"account_index"`
	Mint          string        `json:"mint"`
	UITokenAmount UITokenAmount `json:"ui_token_amount"`
}

// UITokenAmount carries both the raw integer amount (as a decimal string,
// the RPC convention for u64 precision) and its decimal scale.
type UITokenAmount struct {
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
}

func decodeBase58JSON(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("rpcblock: unsupported instruction data encoding: %w", err)
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("rpcblock: decode base58 instruction data: %w", err)
	}
	return decoded, nil
}
