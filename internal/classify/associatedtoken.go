package classify

import (
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// AssociatedTokenProgramID is the SPL Associated Token Account Program.
var AssociatedTokenProgramID = pubkey.MustParse("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

const (
	associatedTokenOpCreate           = 0
	associatedTokenOpCreateIdempotent = 1
	associatedTokenOpRecoverNested    = 2
)

// associatedTokenClassifier decodes the Associated Token Account Program.
// A legacy Create instruction carries no data at all; CreateIdempotent and
// RecoverNested are a borsh enum with a one-byte discriminant.
type associatedTokenClassifier struct{}

func (associatedTokenClassifier) ProgramID() pubkey.Pubkey { return AssociatedTokenProgramID }

func (associatedTokenClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) == 0 {
		return classifyAssociatedTokenCreate(t, ix)
	}
	switch ix.Data[0] {
	case associatedTokenOpCreate:
		return classifyAssociatedTokenCreate(t, ix)
	case associatedTokenOpCreateIdempotent:
		return classifyAssociatedTokenCreateIdempotent(t, ix)
	case associatedTokenOpRecoverNested:
		return &action.AssociatedTokenRecoverNested{}, nil
	default:
		return nil, nil
	}
}

func classifyAssociatedTokenCreate(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	payer, associatedAccount, wallet, mint, tokenProgram, err := associatedTokenCreateAccounts(t, ix)
	if err != nil {
		return nil, err
	}
	return &action.AssociatedTokenCreate{
		Payer: payer, AssociatedAccount: associatedAccount, Wallet: wallet,
		Mint: mint, TokenProgram: tokenProgram,
	}, nil
}

func classifyAssociatedTokenCreateIdempotent(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	payer, associatedAccount, wallet, mint, tokenProgram, err := associatedTokenCreateAccounts(t, ix)
	if err != nil {
		return nil, err
	}
	return &action.AssociatedTokenCreateIdempotent{
		Payer: payer, AssociatedAccount: associatedAccount, Wallet: wallet,
		Mint: mint, TokenProgram: tokenProgram,
	}, nil
}

func associatedTokenCreateAccounts(t *txn.Transaction, ix txn.Instruction) (payer, associatedAccount, wallet, mint, tokenProgram pubkey.Pubkey, err error) {
	if len(ix.Accounts) < 6 {
		err = fmt.Errorf("%w: associated token create expects at least 6 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
		return
	}
	if payer, err = resolveAccount(t, ix, 0); err != nil {
		return
	}
	if associatedAccount, err = resolveAccount(t, ix, 1); err != nil {
		return
	}
	if wallet, err = resolveAccount(t, ix, 2); err != nil {
		return
	}
	if mint, err = resolveAccount(t, ix, 3); err != nil {
		return
	}
	tokenProgram, err = resolveAccount(t, ix, 5)
	return
}
