package action

import (
	"strconv"

	"solmev/internal/pubkey"
)

// AtomicArbitrage tags a transaction whose first normalized swap's input
// mint equals its last normalized swap's output mint (spec §4.6.2). It
// implements txn.Tag (TagType) as well as Action, and is attached as both
// a tree child of the transaction and an entry in the transaction's Tags.
type AtomicArbitrage struct {
	leaf
	Mint         pubkey.Pubkey `json:"mint"`
	ProfitAmount int64         `json:"-"`
	Address      pubkey.Pubkey `json:"address"`
}

func (a *AtomicArbitrage) TagType() string { return "atomicArbitrage" }
func (a *AtomicArbitrage) ToJSON() (map[string]any, error) {
	m, err := toJSON("AtomicArbitrage", a)
	if err != nil {
		return nil, err
	}
	// profitAmount is a signed 128-bit quantity on the wire; Go's largest
	// native signed integer is 64-bit, serialized here as a decimal string
	// per the §6.2 tag schema so downstream consumers don't truncate it.
	m["profitAmount"] = strconv.FormatInt(a.ProfitAmount, 10)
	return m, nil
}

// SandwichFrontrun tags the first leg of a detected sandwich (spec §4.6.3).
type SandwichFrontrun struct {
	leaf
	TokenBought    pubkey.Pubkey `json:"tokenBought"`
	Amount         uint64        `json:"amount"`
	AttackerPubkey pubkey.Pubkey `json:"attackerPubkey"`
}

func (s *SandwichFrontrun) TagType() string { return "sandwich_frontrun" }
func (s *SandwichFrontrun) ToJSON() (map[string]any, error) {
	return toJSON("sandwich_frontrun", s)
}

// SandwichVictim tags the middle leg of a detected sandwich.
type SandwichVictim struct {
	leaf
	TokenBought  pubkey.Pubkey `json:"tokenBought"`
	Amount       uint64        `json:"amount"`
	VictimPubkey pubkey.Pubkey `json:"victimPubkey"`
}

func (s *SandwichVictim) TagType() string { return "sandwich_victim" }
func (s *SandwichVictim) ToJSON() (map[string]any, error) {
	return toJSON("sandwich_victim", s)
}

// SandwichBackrun tags the closing leg of a detected sandwich.
type SandwichBackrun struct {
	leaf
	TokenSold      pubkey.Pubkey `json:"tokenSold"`
	Amount         uint64        `json:"amount"`
	AttackerPubkey pubkey.Pubkey `json:"attackerPubkey"`
	ProfitAmount   int64         `json:"-"`
}

func (s *SandwichBackrun) TagType() string { return "sandwich_backrun" }
func (s *SandwichBackrun) ToJSON() (map[string]any, error) {
	m, err := toJSON("sandwich_backrun", s)
	if err != nil {
		return nil, err
	}
	m["profitAmount"] = strconv.FormatInt(s.ProfitAmount, 10)
	return m, nil
}

// JitoBundle groups the transactions an external bundle-lookup
// collaborator reported as having landed together (spec §4.6.4). It
// recurses during classify only in the loose sense that its tree children
// (the regrouped transactions) are already classified; the dispatcher
// never produces a JitoBundle itself.
type JitoBundle struct {
	base
	BundleID          string          `json:"bundle_id"`
	Timestamp         int64           `json:"timestamp"`
	Tippers           []pubkey.Pubkey `json:"tippers"`
	LandedTipLamports uint64          `json:"landed_tip_lamports"`
}

func (j *JitoBundle) IsDocumentRoot() bool { return true }
func (j *JitoBundle) ToJSON() (map[string]any, error) { return toJSON("JitoBundle", j) }

// StarAtlasAction is an opaque placeholder for Star Atlas game-program
// instructions: recognised by program id but not decoded further.
type StarAtlasAction struct {
	leaf
}

func (s *StarAtlasAction) ToJSON() (map[string]any, error) { return toJSON("StarAtlasAction", s) }

var (
	_ Action = (*AtomicArbitrage)(nil)
	_ Action = (*SandwichFrontrun)(nil)
	_ Action = (*SandwichVictim)(nil)
	_ Action = (*SandwichBackrun)(nil)
	_ Action = (*JitoBundle)(nil)
	_ Action = (*StarAtlasAction)(nil)
)
