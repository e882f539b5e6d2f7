// Package classify implements the Per-Program Classifiers (C4) and the
// Dispatcher (C5): decoding one instruction's bytes and accounts into an
// Action, and walking a transaction's flattened instructions to rebuild
// the call-stack nesting from stack heights.
package classify

import (
	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// Classifier is the uniform per-program contract (spec §4.2). Classify
// returns (action, nil) when recognised, (nil, nil) when the program is
// recognised but this particular instruction is uninteresting, and
// (nil, err) when decoding failed.
type Classifier interface {
	ProgramID() pubkey.Pubkey
	Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error)
}

// Registry is the process-wide, immutable program-id -> classifier table.
// Built once at startup; concurrent reads require no coordination.
type Registry struct {
	byProgram map[pubkey.Pubkey]Classifier
}

// NewRegistry builds the registry with every classifier this repository
// ships. Construction is deterministic and side-effect free.
func NewRegistry() *Registry {
	r := &Registry{byProgram: make(map[pubkey.Pubkey]Classifier)}
	for _, c := range []Classifier{
		systemProgramClassifier{},
		computeBudgetClassifier{},
		voteClassifier{},
		tokenClassifier{programID: TokenProgramID},
		tokenClassifier{programID: Token2022ProgramID},
		associatedTokenClassifier{},
		whirlpoolsClassifier{},
		jupiterV6Classifier{},
		meteoraDlmmClassifier{},
		raydiumClmmClassifier{},
		raydiumAmmClassifier{},
		phoenixV1Classifier{},
		starAtlasClassifier{programID: starAtlasGalacticMarketplaceID},
		starAtlasClassifier{programID: starAtlasSageID},
		starAtlasClassifier{programID: starAtlasCraftingID},
		starAtlasClassifier{programID: starAtlasCargoID},
	} {
		r.register(c)
	}
	return r
}

func (r *Registry) register(c Classifier) {
	r.byProgram[c.ProgramID()] = c
}

// Lookup returns the classifier registered for prog, if any.
func (r *Registry) Lookup(prog pubkey.Pubkey) (Classifier, bool) {
	c, ok := r.byProgram[prog]
	return c, ok
}
