package store

import (
	"fmt"
	"sync"
)

// Index is an in-memory DocumentStoreWriter backing cmd/queryserver's
// query surface (§A.5). It has no durability of its own — spec.md's
// Non-goals exclude storage durability — but it does honor the §6.4
// transactional-at-block-granularity contract: a block's documents become
// visible atomically under a single lock acquisition, never partially.
type Index struct {
	mu                      sync.RWMutex
	blocksBySlot            map[uint64]BlockDocument
	transactionsBySignature map[string]TransactionDocument
	transactionsByBlock     map[uint64][]string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		blocksBySlot:            make(map[uint64]BlockDocument),
		transactionsBySignature: make(map[string]TransactionDocument),
		transactionsByBlock:     make(map[uint64][]string),
	}
}

// WriteBlockDocuments implements DocumentStoreWriter.
func (idx *Index) WriteBlockDocuments(block BlockDocument, transactions []TransactionDocument, _ map[string]any) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.blocksBySlot[block.Slot] = block
	signatures := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		idx.transactionsBySignature[tx.Signature] = tx
		signatures = append(signatures, tx.Signature)
	}
	idx.transactionsByBlock[block.Slot] = signatures
	return nil
}

// GetBlock returns the block document for slot, if one has been written.
func (idx *Index) GetBlock(slot uint64) (BlockDocument, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	b, ok := idx.blocksBySlot[slot]
	return b, ok
}

// GetTransaction returns the transaction document for a base58 signature,
// if one has been written.
func (idx *Index) GetTransaction(signature string) (TransactionDocument, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	tx, ok := idx.transactionsBySignature[signature]
	return tx, ok
}

// BlockTransactions returns the transaction documents for slot in the
// block_order they were written in.
func (idx *Index) BlockTransactions(slot uint64) ([]TransactionDocument, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	signatures, ok := idx.transactionsByBlock[slot]
	if !ok {
		return nil, fmt.Errorf("store: no block at slot %d", slot)
	}
	out := make([]TransactionDocument, 0, len(signatures))
	for _, sig := range signatures {
		out = append(out, idx.transactionsBySignature[sig])
	}
	return out, nil
}

var _ DocumentStoreWriter = (*Index)(nil)
