// Package label implements the Labellers (C7): a fixed sequence of tree
// walks run once over an assembled block, each buffering its mutations
// and applying them only after its own walk completes so that a labeller
// never observes a tree half-mutated by itself.
package label

import (
	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/store"
	"solmev/internal/tree"
)

// Config carries the post-process filtering booleans from spec §4.6.4.
type Config struct {
	RetainVotes             bool
	RemoveEmptyTransactions bool
	ClusterJitoBundles      bool
}

// Run executes every labeller in the spec-mandated order: DEX-swap
// normalization, atomic arbitrage, sandwich attack, post-process
// filtering, bundle clustering. bundleLookup may be nil when
// cfg.ClusterJitoBundles is false.
func Run(log *logrus.Logger, tr *action.Tree, rootID tree.NodeID, cfg Config, bundleLookup store.BundleLookup) error {
	NormalizeDexSwaps(tr, rootID)
	DetectAtomicArbitrage(tr, rootID)
	DetectSandwiches(tr, rootID)
	PostProcessFilter(tr, rootID, cfg)
	if cfg.ClusterJitoBundles {
		if err := ClusterBundles(log, tr, rootID, bundleLookup); err != nil {
			return err
		}
	}
	return nil
}
