// Package store implements the §6.2 output document schemas, the §6.4
// external collaborator contracts, and an in-memory index of both that
// backs cmd/queryserver without requiring a real database.
package store

import "solmev/internal/serialize"

// BundleRecord is one bundle reported by an external bundle-lookup
// collaborator: an ordered set of transaction signatures that landed
// together on-chain, the tippers that funded it, and the tip that landed.
type BundleRecord struct {
	BundleID          string
	Timestamp         int64
	Tippers           []string
	Transactions      []string
	LandedTipLamports uint64
}

// BundleLookup is the §6.4 bundle-lookup contract. FetchBundles is an
// idempotent read; a failing implementation is non-fatal to labelling —
// callers (internal/label.ClusterBundles) log and skip clustering rather
// than propagate the error.
type BundleLookup interface {
	FetchBundles() ([]BundleRecord, error)
}

// ColumnStoreWriter is the §6.4 column-store contract: a batch of flat
// rows (§6.3/§4.7) destined for a columnar analytics store.
type ColumnStoreWriter interface {
	WriteRows(rows []serialize.FlatRow) error
}

// DocumentStoreWriter is the §6.4 document-store contract. It must be
// transactional at block granularity: either every document for a block
// becomes visible, or none do. blockMetadata carries caller-supplied
// context (e.g. the labelling config that produced this block) that isn't
// part of the block document itself but downstream consumers may want
// alongside it.
type DocumentStoreWriter interface {
	WriteBlockDocuments(block BlockDocument, transactions []TransactionDocument, blockMetadata map[string]any) error
}
