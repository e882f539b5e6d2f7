package label

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/store"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

var errFakeLookup = errors.New("fake lookup failure")

func pk(b byte) pubkey.Pubkey {
	var p pubkey.Pubkey
	p[0] = b
	return p
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newBlockTree() (*action.Tree, tree.NodeID) {
	return tree.New[action.Action](&action.Block{})
}

func TestNormalizeDexSwapsFromInnerTransfers(t *testing.T) {
	userA, userB := pk(1), pk(2)
	vaultA, vaultB := pk(3), pk(4)
	mintA, mintB := pk(5), pk(6)

	tx := &txn.Transaction{
		StaticKeys: []pubkey.Pubkey{pk(9)},
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userA: {Mint: mintA},
			userB: {Mint: mintB},
		},
		PostTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{},
		CreatedTokens:     map[pubkey.Pubkey]pubkey.Pubkey{},
	}

	tr, rootID := newBlockTree()
	txID, err := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: tx})
	if err != nil {
		t.Fatalf("InsertChild tx: %v", err)
	}
	swapID, err := tr.InsertChild(txID, &action.WhirlpoolsSwap{
		Amount: 100, AToB: true,
		TokenOwnerAccountA: userA, TokenVaultA: vaultA,
		TokenOwnerAccountB: userB, TokenVaultB: vaultB,
	})
	if err != nil {
		t.Fatalf("InsertChild swap: %v", err)
	}
	if _, err := tr.InsertChild(swapID, &action.TokenTransfer{Source: userA, Destination: vaultA, Amount: 100}); err != nil {
		t.Fatalf("InsertChild transfer1: %v", err)
	}
	if _, err := tr.InsertChild(swapID, &action.TokenTransfer{Source: vaultB, Destination: userB, Amount: 98}); err != nil {
		t.Fatalf("InsertChild transfer2: %v", err)
	}

	NormalizeDexSwaps(tr, rootID)

	parentID, ok := tr.Parent(swapID)
	if !ok {
		t.Fatalf("expected swap node to have a parent")
	}
	parentAct, ok := tr.Get(parentID)
	if !ok {
		t.Fatalf("parent node not found")
	}
	dexSwap, ok := parentAct.(*action.DexSwap)
	if !ok {
		t.Fatalf("expected *action.DexSwap parent, got %T", parentAct)
	}
	if dexSwap.InputMint != mintA || dexSwap.OutputMint != mintB {
		t.Fatalf("unexpected mints: in=%v out=%v", dexSwap.InputMint, dexSwap.OutputMint)
	}
	if dexSwap.InputAmount != 100 || dexSwap.OutputAmount != 98 {
		t.Fatalf("unexpected amounts: in=%d out=%d", dexSwap.InputAmount, dexSwap.OutputAmount)
	}
	if dexSwap.InputTokenAccount != userA || dexSwap.OutputTokenAccount != userB {
		t.Fatalf("unexpected token accounts")
	}
}

func TestNormalizeDexSwapsIsIdempotent(t *testing.T) {
	userA, userB := pk(1), pk(2)
	mintA, mintB := pk(5), pk(6)

	tx := &txn.Transaction{
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userA: {Mint: mintA},
			userB: {Mint: mintB},
		},
	}

	vaultA, vaultB := pk(3), pk(4)

	tr, rootID := newBlockTree()
	txID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: tx})
	swapID, _ := tr.InsertChild(txID, &action.WhirlpoolsSwap{
		Amount: 100, AToB: true,
		TokenOwnerAccountA: userA, TokenVaultA: vaultA,
		TokenOwnerAccountB: userB, TokenVaultB: vaultB,
	})
	tr.InsertChild(swapID, &action.TokenTransfer{Source: userA, Destination: vaultA, Amount: 100})
	tr.InsertChild(swapID, &action.TokenTransfer{Source: vaultB, Destination: userB, Amount: 98})

	NormalizeDexSwaps(tr, rootID)
	countAfterFirst := len(tr.Descendants(rootID))

	NormalizeDexSwaps(tr, rootID)
	countAfterSecond := len(tr.Descendants(rootID))

	if countAfterFirst != countAfterSecond {
		t.Fatalf("expected idempotent second pass: %d nodes after first, %d after second", countAfterFirst, countAfterSecond)
	}
}

func TestDetectAtomicArbitrage(t *testing.T) {
	usdc, mintX, mintY := pk(1), pk(2), pk(3)
	feePayer := pk(9)

	tx := &txn.Transaction{StaticKeys: []pubkey.Pubkey{feePayer}}
	tr, rootID := newBlockTree()
	txID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: tx})
	tr.InsertChild(txID, &action.DexSwap{InputMint: usdc, OutputMint: mintX, InputAmount: 1000, OutputAmount: 5})
	tr.InsertChild(txID, &action.DexSwap{InputMint: mintX, OutputMint: mintY, InputAmount: 5, OutputAmount: 7})
	tr.InsertChild(txID, &action.DexSwap{InputMint: mintY, OutputMint: usdc, InputAmount: 7, OutputAmount: 1100})

	DetectAtomicArbitrage(tr, rootID)

	var tag *action.AtomicArbitrage
	for _, id := range tr.Children(txID) {
		if a, ok := mustGet(t, tr, id).(*action.AtomicArbitrage); ok {
			tag = a
		}
	}
	if tag == nil {
		t.Fatalf("expected an AtomicArbitrage child under the transaction")
	}
	if tag.Mint != usdc {
		t.Fatalf("expected mint=usdc, got %v", tag.Mint)
	}
	if tag.ProfitAmount != 100 {
		t.Fatalf("expected profit_amount=100, got %d", tag.ProfitAmount)
	}
	if tag.Address != feePayer {
		t.Fatalf("expected address=fee payer")
	}
	if len(tx.Tags) != 1 || tx.Tags[0].TagType() != "atomicArbitrage" {
		t.Fatalf("expected transaction to carry one atomicArbitrage tag, got %v", tx.Tags)
	}
}

func TestDetectAtomicArbitrageSkipsFailedTransactions(t *testing.T) {
	usdc, mintX := pk(1), pk(2)
	tx := &txn.Transaction{StaticKeys: []pubkey.Pubkey{pk(9)}}
	tr, rootID := newBlockTree()
	txID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: tx, Failed: true})
	tr.InsertChild(txID, &action.DexSwap{InputMint: usdc, OutputMint: mintX, InputAmount: 10, OutputAmount: 1})
	tr.InsertChild(txID, &action.DexSwap{InputMint: mintX, OutputMint: usdc, InputAmount: 1, OutputAmount: 20})

	DetectAtomicArbitrage(tr, rootID)

	if len(tx.Tags) != 0 {
		t.Fatalf("expected no tag on a failed transaction, got %v", tx.Tags)
	}
}

func TestDetectSandwiches(t *testing.T) {
	mintX, mintY := pk(1), pk(2)
	attacker, victim := pk(10), pk(11)

	tr, rootID := newBlockTree()

	frontTx := &txn.Transaction{StaticKeys: []pubkey.Pubkey{attacker}}
	frontID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: frontTx})
	tr.InsertChild(frontID, &action.DexSwap{InputMint: mintY, OutputMint: mintX, InputAmount: 100, OutputAmount: 50})

	victimTx := &txn.Transaction{StaticKeys: []pubkey.Pubkey{victim}}
	victimID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: victimTx})
	tr.InsertChild(victimID, &action.DexSwap{InputMint: mintY, OutputMint: mintX, InputAmount: 10000, OutputAmount: 40})

	backTx := &txn.Transaction{StaticKeys: []pubkey.Pubkey{attacker}}
	backID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: backTx})
	tr.InsertChild(backID, &action.DexSwap{InputMint: mintX, OutputMint: mintY, InputAmount: 50, OutputAmount: 120})

	DetectSandwiches(tr, rootID)

	front := findTag[*action.SandwichFrontrun](t, tr, frontID)
	if front.TokenBought != mintX || front.Amount != 50 || front.AttackerPubkey != attacker {
		t.Fatalf("unexpected frontrun tag: %+v", front)
	}
	v := findTag[*action.SandwichVictim](t, tr, victimID)
	if v.TokenBought != mintX || v.Amount != 40 || v.VictimPubkey != victim {
		t.Fatalf("unexpected victim tag: %+v", v)
	}
	back := findTag[*action.SandwichBackrun](t, tr, backID)
	if back.TokenSold != mintX || back.Amount != 50 || back.AttackerPubkey != attacker || back.ProfitAmount != 20 {
		t.Fatalf("unexpected backrun tag: %+v", back)
	}

	if len(frontTx.Tags) != 1 || len(victimTx.Tags) != 1 || len(backTx.Tags) != 1 {
		t.Fatalf("expected exactly one tag mirrored onto each transaction's Tags")
	}
}

func findTag[T action.Action](t *testing.T, tr *action.Tree, txID tree.NodeID) T {
	t.Helper()
	for _, id := range tr.Children(txID) {
		if v, ok := mustGet(t, tr, id).(T); ok {
			return v
		}
	}
	t.Fatalf("no matching tag found under node %d", txID)
	var zero T
	return zero
}

func TestPostProcessFilterRemovesVotesAndEmptyTransactions(t *testing.T) {
	tr, rootID := newBlockTree()

	voteOnlyID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}})
	tr.InsertChild(voteOnlyID, &action.Vote{})

	emptyID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}})
	_ = emptyID

	keptID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}})
	tr.InsertChild(keptID, &action.NativeTransfer{})

	PostProcessFilter(tr, rootID, Config{RetainVotes: false, RemoveEmptyTransactions: true})

	children := tr.Children(rootID)
	if len(children) != 1 || children[0] != keptID {
		t.Fatalf("expected only the non-empty transaction to survive, got %v", children)
	}
}

func TestPostProcessFilterRetainsVotesWhenConfigured(t *testing.T) {
	tr, rootID := newBlockTree()
	txID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}})
	tr.InsertChild(txID, &action.Vote{})

	PostProcessFilter(tr, rootID, Config{RetainVotes: true})

	if tr.NumChildren(txID) != 1 {
		t.Fatalf("expected the vote to survive when RetainVotes is set")
	}
}

type fakeBundleLookup struct {
	bundles []store.BundleRecord
	err     error
}

func (f fakeBundleLookup) FetchBundles() ([]store.BundleRecord, error) { return f.bundles, f.err }

func TestClusterBundlesGroupsMatchedTransactions(t *testing.T) {
	tr, rootID := newBlockTree()
	tx1ID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}, Signature: "sig1"})
	tx2ID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}, Signature: "sig2"})
	tx3ID, _ := tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}, Signature: "sig3"})
	_ = tx2ID

	lookup := fakeBundleLookup{bundles: []store.BundleRecord{
		{
			BundleID:          "bundle-1",
			Timestamp:         1000,
			Tippers:           []string{},
			Transactions:      []string{"sig1", "sig2"},
			LandedTipLamports: 5000,
		},
	}}

	if err := ClusterBundles(silentLogger(), tr, rootID, lookup); err != nil {
		t.Fatalf("ClusterBundles: %v", err)
	}

	children := tr.Children(rootID)
	if len(children) != 2 {
		t.Fatalf("expected 2 top-level children after clustering, got %d", len(children))
	}
	bundleNode, ok := mustGet(t, tr, children[0]).(*action.JitoBundle)
	if !ok {
		t.Fatalf("expected the first child to be the JitoBundle, got %T", mustGet(t, tr, children[0]))
	}
	if bundleNode.BundleID != "bundle-1" || bundleNode.LandedTipLamports != 5000 {
		t.Fatalf("unexpected bundle fields: %+v", bundleNode)
	}
	grouped := tr.Children(children[0])
	if len(grouped) != 2 {
		t.Fatalf("expected 2 transactions regrouped under the bundle, got %d", len(grouped))
	}
	if children[1] != tx3ID {
		t.Fatalf("expected the unaffected transaction to remain at top level")
	}
}

func TestClusterBundlesSkipsOnLookupFailure(t *testing.T) {
	tr, rootID := newBlockTree()
	tr.InsertChild(rootID, &action.ClassifiableTransaction{Txn: &txn.Transaction{}, Signature: "sig1"})

	lookup := fakeBundleLookup{err: errFakeLookup}
	if err := ClusterBundles(silentLogger(), tr, rootID, lookup); err != nil {
		t.Fatalf("ClusterBundles should swallow lookup errors, got %v", err)
	}
	if len(tr.Children(rootID)) != 1 {
		t.Fatalf("expected no clustering to occur on lookup failure")
	}
}

func mustGet(t *testing.T, tr *action.Tree, id tree.NodeID) action.Action {
	t.Helper()
	act, ok := tr.Get(id)
	if !ok {
		t.Fatalf("node %d not found", id)
	}
	return act
}
