package store

import "testing"

func TestIndexWriteBlockDocumentsRoundTrip(t *testing.T) {
	idx := NewIndex()

	block := BlockDocument{Slot: 7, BlockTime: 111}
	txs := []TransactionDocument{
		{ID: "sigA", Signature: "sigA", BlockID: 7, BlockOrder: 0},
		{ID: "sigB", Signature: "sigB", BlockID: 7, BlockOrder: 1},
	}

	if err := idx.WriteBlockDocuments(block, txs, nil); err != nil {
		t.Fatalf("WriteBlockDocuments: %v", err)
	}

	gotBlock, ok := idx.GetBlock(7)
	if !ok || gotBlock.BlockTime != 111 {
		t.Fatalf("expected block 7 to round trip, got %+v, ok=%v", gotBlock, ok)
	}

	gotTx, ok := idx.GetTransaction("sigB")
	if !ok || gotTx.BlockOrder != 1 {
		t.Fatalf("expected sigB to round trip with block_order 1, got %+v, ok=%v", gotTx, ok)
	}

	ordered, err := idx.BlockTransactions(7)
	if err != nil {
		t.Fatalf("BlockTransactions: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Signature != "sigA" || ordered[1].Signature != "sigB" {
		t.Fatalf("expected transactions in block_order, got %+v", ordered)
	}
}

func TestIndexGetBlockMissingSlot(t *testing.T) {
	idx := NewIndex()
	if _, ok := idx.GetBlock(99); ok {
		t.Fatalf("expected no block at an unwritten slot")
	}
	if _, err := idx.BlockTransactions(99); err == nil {
		t.Fatalf("expected an error for an unwritten slot")
	}
}
