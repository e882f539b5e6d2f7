package classify

import (
	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// Star Atlas program IDs. Every instruction across these programs maps to
// the same opaque StarAtlasAction; the game's on-chain state (fleets,
// crafting, cargo, the galactic marketplace) is outside classification
// scope, but these programs are common enough in block traffic that
// leaving them unregistered would otherwise surface as a flood of
// ProgramInvocation nodes.
var (
	starAtlasGalacticMarketplaceID = pubkey.MustParse("traderDnaR5w6Tcoi3NFm53i48FTDNbGjBSZwWXDRrg")
	starAtlasSageID                = pubkey.MustParse("SAGE2HAwep459SNq61LHvjxPk4pLPEJLoMETef7f7EE")
	starAtlasCraftingID            = pubkey.MustParse("CRAFT2RPXPJWCEix4WpJST3E7NLf79GTqZUL75wngXo5")
	starAtlasCargoID               = pubkey.MustParse("Cargo2VNTPPTi9c1vq1Jw5d3BWUNr18MjRtSupAghKEk")
)

// starAtlasClassifier always returns the opaque StarAtlasAction regardless
// of instruction content; it exists only to tell the dispatcher these
// program IDs are recognised, not unknown.
type starAtlasClassifier struct {
	programID pubkey.Pubkey
}

func (c starAtlasClassifier) ProgramID() pubkey.Pubkey { return c.programID }

func (starAtlasClassifier) Classify(*txn.Transaction, txn.Instruction) (action.Action, error) {
	return &action.StarAtlasAction{}, nil
}
