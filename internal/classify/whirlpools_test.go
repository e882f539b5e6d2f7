package classify

import (
	"encoding/binary"
	"testing"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

func whirlpoolsSwapData(amount uint64, aToB bool) []byte {
	data := make([]byte, 43)
	copy(data[:8], whirlpoolsDiscriminatorSwap[:])
	binary.LittleEndian.PutUint64(data[8:16], amount)
	if aToB {
		data[41] = 1
	}
	return data
}

func TestWhirlpoolsClassifierDecodesSwapAccounts(t *testing.T) {
	keys := []pubkey.Pubkey{
		pubkey.MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"), // tokenProgram
		pubkey.MustParse("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"), // tokenAuthority
		pubkey.MustParse("2vXZaGsTXzeYM2nEWbYpcQrzCM1jvycxQzQAXMLhJAC2"), // whirlpool
		pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"), // tokenOwnerAccountA
		pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"), // tokenVaultA
		pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"), // tokenOwnerAccountB
		pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"), // tokenVaultB
	}
	tx := &txn.Transaction{StaticKeys: keys}
	ix := txn.Instruction{
		ProgramIDIndex: -1,
		Accounts:       []int{0, 1, 2, 3, 4, 5, 6},
		Data:           whirlpoolsSwapData(1000, true),
	}

	c := whirlpoolsClassifier{}
	act, err := c.Classify(tx, ix)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	swap, ok := act.(*action.WhirlpoolsSwap)
	if !ok {
		t.Fatalf("expected *action.WhirlpoolsSwap, got %T", act)
	}
	if swap.Whirlpool != keys[2] {
		t.Fatalf("unexpected whirlpool account: %v", swap.Whirlpool)
	}
	if swap.TokenOwnerAccountA != keys[3] || swap.TokenVaultA != keys[4] {
		t.Fatalf("unexpected A pair: owner=%v vault=%v", swap.TokenOwnerAccountA, swap.TokenVaultA)
	}
	if swap.TokenOwnerAccountB != keys[5] || swap.TokenVaultB != keys[6] {
		t.Fatalf("unexpected B pair: owner=%v vault=%v", swap.TokenOwnerAccountB, swap.TokenVaultB)
	}
	if swap.Amount != 1000 || !swap.AToB {
		t.Fatalf("unexpected amount/direction: %+v", swap)
	}
}

func TestWhirlpoolsClassifierRejectsShortAccountList(t *testing.T) {
	keys := []pubkey.Pubkey{
		pubkey.MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		pubkey.MustParse("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"),
		pubkey.MustParse("2vXZaGsTXzeYM2nEWbYpcQrzCM1jvycxQzQAXMLhJAC2"),
	}
	tx := &txn.Transaction{StaticKeys: keys}
	ix := txn.Instruction{Accounts: []int{0, 1, 2}, Data: whirlpoolsSwapData(1000, true)}

	c := whirlpoolsClassifier{}
	if _, err := c.Classify(tx, ix); err == nil {
		t.Fatalf("expected error for short account list")
	}
}
