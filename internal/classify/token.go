package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// TokenProgramID is the legacy SPL Token Program.
var TokenProgramID = pubkey.MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// Token2022ProgramID is the SPL Token-2022 Program, sharing the legacy
// program's instruction layout for every opcode this classifier decodes.
var Token2022ProgramID = pubkey.MustParse("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

const (
	tokenOpInitializeAccount  = 1
	tokenOpTransfer           = 3
	tokenOpApprove            = 4
	tokenOpRevoke             = 5
	tokenOpSetAuthority       = 6
	tokenOpMintTo             = 7
	tokenOpBurn               = 8
	tokenOpCloseAccount       = 9
	tokenOpTransferChecked    = 12
	tokenOpInitializeAccount2 = 16
	tokenOpInitializeAccount3 = 18
)

// tokenClassifier decodes the SPL Token program's single-byte-opcode
// instructions. The same logic serves Token and Token-2022: both programs
// keep the legacy opcode layout for the instructions decoded here.
type tokenClassifier struct {
	programID pubkey.Pubkey
}

func (c tokenClassifier) ProgramID() pubkey.Pubkey { return c.programID }

func (c tokenClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 1 {
		return nil, fmt.Errorf("%w: token instruction truncated", ErrInvalidEncoding)
	}
	switch ix.Data[0] {
	case tokenOpInitializeAccount:
		account, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		mint, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		owner, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenInitializeAccount{Account: account, Mint: mint, Owner: owner}, nil

	case tokenOpInitializeAccount2, tokenOpInitializeAccount3:
		if len(ix.Data) < 33 {
			return nil, fmt.Errorf("%w: InitializeAccount2/3 truncated", ErrInvalidEncoding)
		}
		account, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		mint, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		owner, err := pubkey.FromBytes(ix.Data[1:33])
		if err != nil {
			return nil, fmt.Errorf("%w: owner pubkey: %v", ErrInvalidEncoding, err)
		}
		if ix.Data[0] == tokenOpInitializeAccount2 {
			return &action.TokenInitializeAccount2{Account: account, Mint: mint, Owner: owner}, nil
		}
		return &action.TokenInitializeAccount3{Account: account, Mint: mint, Owner: owner}, nil

	case tokenOpTransfer:
		if len(ix.Data) < 9 {
			return nil, fmt.Errorf("%w: Transfer truncated", ErrInvalidEncoding)
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		source, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		destination, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		authority, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenTransfer{Source: source, Destination: destination, Authority: authority, Amount: amount}, nil

	case tokenOpTransferChecked:
		if len(ix.Data) < 10 {
			return nil, fmt.Errorf("%w: TransferChecked truncated", ErrInvalidEncoding)
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		decimals := ix.Data[9]
		source, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		mint, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		destination, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		authority, err := resolveAccount(t, ix, 3)
		if err != nil {
			return nil, err
		}
		return &action.TokenTransferChecked{
			Source: source, Mint: mint, Destination: destination, Authority: authority,
			Amount: amount, Decimals: decimals,
		}, nil

	case tokenOpApprove:
		if len(ix.Data) < 9 {
			return nil, fmt.Errorf("%w: Approve truncated", ErrInvalidEncoding)
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		source, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		delegate, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		owner, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenApprove{Source: source, Delegate: delegate, Owner: owner, Amount: amount}, nil

	case tokenOpRevoke:
		source, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		owner, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		return &action.TokenRevoke{Source: source, Owner: owner}, nil

	case tokenOpSetAuthority:
		if len(ix.Data) < 2 {
			return nil, fmt.Errorf("%w: SetAuthority truncated", ErrInvalidEncoding)
		}
		authorityType := tokenAuthorityTypeName(ix.Data[1])
		var newAuthority *pubkey.Pubkey
		if len(ix.Data) >= 3 && ix.Data[2] == 1 {
			if len(ix.Data) < 35 {
				return nil, fmt.Errorf("%w: SetAuthority new_authority truncated", ErrInvalidEncoding)
			}
			p, err := pubkey.FromBytes(ix.Data[3:35])
			if err != nil {
				return nil, fmt.Errorf("%w: new_authority pubkey: %v", ErrInvalidEncoding, err)
			}
			newAuthority = &p
		}
		account, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		current, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		return &action.TokenSetAuthority{Account: account, AuthorityType: authorityType, NewAuthority: newAuthority, CurrentAuthority: current}, nil

	case tokenOpMintTo:
		if len(ix.Data) < 9 {
			return nil, fmt.Errorf("%w: MintTo truncated", ErrInvalidEncoding)
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		mint, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		destination, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		authority, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenMintTo{Mint: mint, Destination: destination, Authority: authority, Amount: amount}, nil

	case tokenOpBurn:
		if len(ix.Data) < 9 {
			return nil, fmt.Errorf("%w: Burn truncated", ErrInvalidEncoding)
		}
		amount := binary.LittleEndian.Uint64(ix.Data[1:9])
		account, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		mint, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		authority, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenBurn{Account: account, Mint: mint, Authority: authority, Amount: amount}, nil

	case tokenOpCloseAccount:
		account, err := resolveAccount(t, ix, 0)
		if err != nil {
			return nil, err
		}
		destination, err := resolveAccount(t, ix, 1)
		if err != nil {
			return nil, err
		}
		owner, err := resolveAccount(t, ix, 2)
		if err != nil {
			return nil, err
		}
		return &action.TokenCloseAccount{Account: account, Destination: destination, Owner: owner}, nil

	default:
		return nil, nil
	}
}

func tokenAuthorityTypeName(b byte) string {
	switch b {
	case 0:
		return "mint_tokens"
	case 1:
		return "freeze_account"
	case 2:
		return "account_owner"
	case 3:
		return "close_account"
	default:
		return "unknown"
	}
}
