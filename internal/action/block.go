package action

import (
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// Block is the root action of a block's tree.
type Block struct {
	base
	Slot              uint64  `json:"slot"`
	ParentSlot        uint64  `json:"parent_slot"`
	BlockTime         int64   `json:"block_time"`
	TotalBaseFees     *uint64 `json:"total_base_fees,omitempty"`
	TotalPriorityFees *uint64 `json:"total_priority_fees,omitempty"`
	TotalTips         *uint64 `json:"total_tips,omitempty"`
}

func (b *Block) IsDocumentRoot() bool { return true }
func (b *Block) ToJSON() (map[string]any, error) {
	return toJSON("Block", b)
}

// ClassifiableTransaction wraps a Decoded Transaction as the node every
// transaction's instructions are classified under. It marks a document
// root because each transaction is emitted as its own document.
type ClassifiableTransaction struct {
	base
	Txn       *txn.Transaction `json:"-"`
	Signature string           `json:"signature"`
	Failed    bool             `json:"failed"`
}

func (c *ClassifiableTransaction) IsDocumentRoot() bool { return true }
func (c *ClassifiableTransaction) ToJSON() (map[string]any, error) {
	return toJSON("ClassifiableTransaction", c)
}

// ProgramInvocation is the fallback action for a recognised-but-uninteresting
// instruction, an instruction whose decoding failed, or an instruction from
// an unregistered program. It recurses into its inner instructions (spec S6).
type ProgramInvocation struct {
	base
	ProgramID pubkey.Pubkey `json:"program_id"`
}

func (p *ProgramInvocation) ToJSON() (map[string]any, error) {
	return toJSON("ProgramInvocation", p)
}

// NativeTransfer is a system-program lamport transfer that is not
// recognised as a tip (see JitoTip/BloxrouteTip).
type NativeTransfer struct {
	leaf
	From     pubkey.Pubkey `json:"from"`
	To       pubkey.Pubkey `json:"to"`
	Lamports uint64        `json:"lamports"`
}

func (n *NativeTransfer) ToJSON() (map[string]any, error) {
	return toJSON("NativeTransfer", n)
}

// Vote is a vote-program instruction. Its contents are not decoded in
// detail; compact_update_state records whether the compact vote-state
// variant was used.
type Vote struct {
	leaf
	VoteAuthority      pubkey.Pubkey `json:"vote_authority"`
	CompactUpdateState bool          `json:"compact_update_state"`
}

func (v *Vote) ToJSON() (map[string]any, error) {
	return toJSON("Vote", v)
}

// SetComputeBudgetLimit is a compute-budget-program instruction fixing the
// transaction's compute unit ceiling.
type SetComputeBudgetLimit struct {
	leaf
	Units uint32 `json:"units"`
}

func (s *SetComputeBudgetLimit) ToJSON() (map[string]any, error) {
	return toJSON("SetComputeBudgetLimit", s)
}

// SetComputeUnitPrice is a compute-budget-program instruction setting the
// transaction's priority fee rate.
type SetComputeUnitPrice struct {
	leaf
	MicroLamports uint64 `json:"micro_lamports"`
}

func (s *SetComputeUnitPrice) ToJSON() (map[string]any, error) {
	return toJSON("SetComputeUnitPrice", s)
}

var (
	_ Action = (*Block)(nil)
	_ Action = (*ClassifiableTransaction)(nil)
	_ Action = (*ProgramInvocation)(nil)
	_ Action = (*NativeTransfer)(nil)
	_ Action = (*Vote)(nil)
	_ Action = (*SetComputeBudgetLimit)(nil)
	_ Action = (*SetComputeUnitPrice)(nil)
)
