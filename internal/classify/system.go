package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// SystemProgramID is the native System Program.
var SystemProgramID = pubkey.MustParse("11111111111111111111111111111111")

const systemInstructionTransfer = 2

// systemProgramClassifier decodes the System Program's bincode-encoded
// instruction enum. Only Transfer is interesting; everything else is
// Ok(None).
type systemProgramClassifier struct{}

func (systemProgramClassifier) ProgramID() pubkey.Pubkey { return SystemProgramID }

func (systemProgramClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 4 {
		return nil, fmt.Errorf("%w: system instruction truncated", ErrInvalidEncoding)
	}
	tag := binary.LittleEndian.Uint32(ix.Data[:4])
	if tag != systemInstructionTransfer {
		return nil, nil
	}
	if len(ix.Data) < 12 {
		return nil, fmt.Errorf("%w: transfer instruction truncated", ErrInvalidEncoding)
	}
	lamports := binary.LittleEndian.Uint64(ix.Data[4:12])

	if len(ix.Accounts) != 2 {
		return nil, fmt.Errorf("%w: transfer expects 2 accounts, got %d", ErrMissingAccount, len(ix.Accounts))
	}
	from, err := resolveAccount(t, ix, 0)
	if err != nil {
		return nil, err
	}
	to, err := resolveAccount(t, ix, 1)
	if err != nil {
		return nil, err
	}

	if IsJitoTipAddress(to) {
		return &action.JitoTip{Tipper: from, TipAmount: lamports}, nil
	}
	if IsBloxrouteTipAddress(to) {
		return &action.BloxrouteTip{Tipper: from, TipAmount: lamports}, nil
	}
	return &action.NativeTransfer{From: from, To: to, Lamports: lamports}, nil
}
