package action

import (
	"testing"

	"solmev/internal/pubkey"
	"solmev/internal/tree"
	"solmev/internal/txn"
)

func TestNativeTransferToJSON(t *testing.T) {
	from := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	to := pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe")
	n := &NativeTransfer{From: from, To: to, Lamports: 1_000_000}

	m, err := n.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if m["type"] != "NativeTransfer" {
		t.Fatalf("expected type discriminator, got %v", m["type"])
	}
	if m["lamports"].(float64) != 1_000_000 {
		t.Fatalf("expected lamports field to round trip, got %v", m["lamports"])
	}
	if n.RecurseDuringClassify() {
		t.Fatalf("expected NativeTransfer to be a classify leaf")
	}
}

func TestAtomicArbitrageSerializesProfitAsString(t *testing.T) {
	mint := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	addr := pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe")
	a := &AtomicArbitrage{Mint: mint, ProfitAmount: 100, Address: addr}

	m, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if m["profitAmount"] != "100" {
		t.Fatalf("expected profitAmount as decimal string, got %v (%T)", m["profitAmount"], m["profitAmount"])
	}
	var tag txn.Tag = a
	if tag.TagType() != "atomicArbitrage" {
		t.Fatalf("expected tag type atomicArbitrage, got %s", tag.TagType())
	}
}

func TestProgramInvocationRecursesByDefault(t *testing.T) {
	var p Action = &ProgramInvocation{}
	if !p.RecurseDuringClassify() {
		t.Fatalf("expected ProgramInvocation to recurse during classify (S6)")
	}
}

func TestDexSwapIsTerminal(t *testing.T) {
	d := &DexSwap{}
	got, err := d.IntoDexSwap(nil, 0, nil)
	if err != nil || got != nil {
		t.Fatalf("expected DexSwap.IntoDexSwap to be a no-op, got (%v, %v)", got, err)
	}
}

func TestWhirlpoolsSwapNormalizesFromInnerTransfers(t *testing.T) {
	userA := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	vaultA := pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe")
	vaultB := pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY")
	userB := pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49")
	mintA := pubkey.MustParse("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh")
	mintB := pubkey.MustParse("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt")

	decoded := &txn.Transaction{
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userA: {Mint: mintA},
			userB: {Mint: mintB},
		},
	}

	tr, root := tree.New[Action](&ProgramInvocation{})
	swap := &WhirlpoolsSwap{
		Amount: 100, AToB: true,
		TokenOwnerAccountA: userA, TokenVaultA: vaultA,
		TokenOwnerAccountB: userB, TokenVaultB: vaultB,
	}
	swapID, _ := tr.InsertChild(root, swap)
	tr.InsertChild(swapID, &TokenTransfer{Source: userA, Destination: vaultA, Amount: 100})
	tr.InsertChild(swapID, &TokenTransfer{Source: vaultB, Destination: userB, Amount: 98})

	result, err := swap.IntoDexSwap(decoded, swapID, tr)
	if err != nil {
		t.Fatalf("IntoDexSwap failed: %v", err)
	}
	if result.InputMint != mintA || result.OutputMint != mintB {
		t.Fatalf("unexpected mints: %+v", result)
	}
	if result.InputAmount != 100 || result.OutputAmount != 98 {
		t.Fatalf("unexpected amounts: %+v", result)
	}
}

// TestWhirlpoolsSwapHonorsAToBFalse proves direction comes from the
// account pair plus AToB, not from CPI order: the inner transfers are
// inserted in the opposite order from TestWhirlpoolsSwapNormalizesFromInnerTransfers,
// and AToB is false, so the B->A leg pair must still resolve correctly.
func TestWhirlpoolsSwapHonorsAToBFalse(t *testing.T) {
	userA := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	vaultA := pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe")
	vaultB := pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY")
	userB := pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49")
	mintA := pubkey.MustParse("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh")
	mintB := pubkey.MustParse("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt")

	decoded := &txn.Transaction{
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userA: {Mint: mintA},
			userB: {Mint: mintB},
		},
	}

	tr, root := tree.New[Action](&ProgramInvocation{})
	swap := &WhirlpoolsSwap{
		Amount: 50, AToB: false,
		TokenOwnerAccountA: userA, TokenVaultA: vaultA,
		TokenOwnerAccountB: userB, TokenVaultB: vaultB,
	}
	swapID, _ := tr.InsertChild(root, swap)
	// Inserted in A-first order; AToB=false means B funds the swap, so the
	// correct legs are userB->vaultB (input) and vaultA->userA (output).
	tr.InsertChild(swapID, &TokenTransfer{Source: userA, Destination: vaultA, Amount: 98})
	tr.InsertChild(swapID, &TokenTransfer{Source: userB, Destination: vaultB, Amount: 100})
	tr.InsertChild(swapID, &TokenTransfer{Source: vaultA, Destination: userA, Amount: 98})

	result, err := swap.IntoDexSwap(decoded, swapID, tr)
	if err != nil {
		t.Fatalf("IntoDexSwap failed: %v", err)
	}
	if result.InputMint != mintB || result.OutputMint != mintA {
		t.Fatalf("unexpected mints: %+v", result)
	}
	if result.InputAmount != 100 || result.OutputAmount != 98 {
		t.Fatalf("unexpected amounts: %+v", result)
	}
}

func TestMeteoraDlmmSwapMatchesByUserAccounts(t *testing.T) {
	userIn := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	userOut := pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49")
	mintIn := pubkey.MustParse("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh")
	mintOut := pubkey.MustParse("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt")

	decoded := &txn.Transaction{
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userIn:  {Mint: mintIn},
			userOut: {Mint: mintOut},
		},
	}

	tr, root := tree.New[Action](&ProgramInvocation{})
	swap := &MeteoraDlmmSwap{AmountIn: 100, UserTokenIn: userIn, UserTokenOut: userOut, TokenXMint: mintIn}
	swapID, _ := tr.InsertChild(root, swap)
	// The reserve account moving the legs is unrelated to userIn/userOut
	// directly; only matching on userIn-as-source and userOut-as-destination
	// should resolve the correct pair, regardless of insertion order.
	reserve := pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY")
	tr.InsertChild(swapID, &TokenTransfer{Source: reserve, Destination: userOut, Amount: 97})
	tr.InsertChild(swapID, &TokenTransfer{Source: userIn, Destination: reserve, Amount: 100})

	result, err := swap.IntoDexSwap(decoded, swapID, tr)
	if err != nil {
		t.Fatalf("IntoDexSwap failed: %v", err)
	}
	if result.InputMint != mintIn || result.OutputMint != mintOut {
		t.Fatalf("unexpected mints: %+v", result)
	}
	if result.InputAmount != 100 || result.OutputAmount != 97 {
		t.Fatalf("unexpected amounts: %+v", result)
	}
}

// TestJupiterRouteNormalizesFromNestedCpiTransfers proves Route resolves
// its legs from an inner swap's own inner transfers (two levels down),
// not just the Route action's direct children, since Jupiter routes
// through a CPI into the underlying DEX program rather than transferring
// tokens itself.
func TestJupiterRouteNormalizesFromNestedCpiTransfers(t *testing.T) {
	userA := pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5")
	userB := pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49")
	mintA := pubkey.MustParse("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh")
	mintB := pubkey.MustParse("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt")

	decoded := &txn.Transaction{
		PreTokenBalances: map[pubkey.Pubkey]txn.TokenBalance{
			userA: {Mint: mintA},
			userB: {Mint: mintB},
		},
	}

	tr, root := tree.New[Action](&ProgramInvocation{})
	route := &JupiterV6Route{AmountIn: 100, MinimumAmountOut: 90}
	routeID, _ := tr.InsertChild(root, route)
	innerSwapID, _ := tr.InsertChild(routeID, &ProgramInvocation{})
	tr.InsertChild(innerSwapID, &TokenTransfer{Source: userA, Destination: pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"), Amount: 100})
	tr.InsertChild(innerSwapID, &TokenTransfer{Source: pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"), Destination: userB, Amount: 95})

	result, err := route.IntoDexSwap(decoded, routeID, tr)
	if err != nil {
		t.Fatalf("IntoDexSwap failed: %v", err)
	}
	if result.InputMint != mintA || result.OutputMint != mintB {
		t.Fatalf("unexpected mints: %+v", result)
	}
	if result.InputAmount != 100 || result.OutputAmount != 95 {
		t.Fatalf("unexpected amounts: %+v", result)
	}
}
