package label

import (
	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/store"
	"solmev/internal/tree"
)

// PostProcessFilter implements spec §4.6.4's vote-removal and
// empty-transaction-removal steps (bundle clustering, the third step, is
// ClusterBundles — kept separate since it can fail and needs a logger).
func PostProcessFilter(tr *action.Tree, rootID tree.NodeID, cfg Config) {
	if !cfg.RetainVotes {
		removeVotes(tr, rootID)
	}
	if cfg.RemoveEmptyTransactions {
		removeEmptyTransactions(tr, rootID)
	}
}

func removeVotes(tr *action.Tree, rootID tree.NodeID) {
	var votes []tree.NodeID
	for _, id := range tr.Descendants(rootID) {
		act, ok := tr.Get(id)
		if !ok {
			continue
		}
		if _, isVote := act.(*action.Vote); isVote {
			votes = append(votes, id)
		}
	}
	for _, id := range votes {
		if _, ok := tr.Get(id); !ok {
			continue
		}
		_ = tr.RemoveSubtree(id)
	}
}

func removeEmptyTransactions(tr *action.Tree, rootID tree.NodeID) {
	var empty []tree.NodeID
	for _, txID := range tr.Children(rootID) {
		act, ok := tr.Get(txID)
		if !ok {
			continue
		}
		if _, isTx := act.(*action.ClassifiableTransaction); !isTx {
			continue
		}
		if tr.NumChildren(txID) == 0 {
			empty = append(empty, txID)
		}
	}
	for _, id := range empty {
		_ = tr.RemoveSubtree(id)
	}
}

// ClusterBundles implements the third §4.6.4 step: consult bundleLookup
// for this block's landed bundles and, for each one with at least one
// member transaction still present in the tree, regroup those
// transactions under a single JitoBundle node via InsertParentForChildren.
// A bundle-lookup failure is logged and treated as "no bundles" rather
// than propagated, per spec §6.4's "non-fatal" contract.
func ClusterBundles(log *logrus.Logger, tr *action.Tree, rootID tree.NodeID, bundleLookup store.BundleLookup) error {
	if bundleLookup == nil {
		return nil
	}

	bundles, err := bundleLookup.FetchBundles()
	if err != nil {
		log.WithError(err).Warn("label: bundle lookup failed, skipping bundle clustering")
		return nil
	}

	bySignature := make(map[string]tree.NodeID)
	for _, txID := range tr.Children(rootID) {
		act, ok := tr.Get(txID)
		if !ok {
			continue
		}
		ct, ok := act.(*action.ClassifiableTransaction)
		if !ok {
			continue
		}
		bySignature[ct.Signature] = txID
	}

	for _, bundle := range bundles {
		var members []tree.NodeID
		for _, sig := range bundle.Transactions {
			if id, ok := bySignature[sig]; ok {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}

		tippers, err := parseTipperPubkeys(bundle.Tippers)
		if err != nil {
			log.WithError(err).WithField("bundle_id", bundle.BundleID).Warn("label: skipping bundle with unparseable tipper address")
			continue
		}

		if _, err := tr.InsertParentForChildren(rootID, members, &action.JitoBundle{
			BundleID:          bundle.BundleID,
			Timestamp:         bundle.Timestamp,
			Tippers:           tippers,
			LandedTipLamports: bundle.LandedTipLamports,
		}); err != nil {
			log.WithError(err).WithField("bundle_id", bundle.BundleID).Warn("label: failed to cluster bundle")
		}
	}
	return nil
}

func parseTipperPubkeys(raw []string) ([]pubkey.Pubkey, error) {
	out := make([]pubkey.Pubkey, len(raw))
	for i, s := range raw {
		p, err := pubkey.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
