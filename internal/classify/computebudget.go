package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// ComputeBudgetProgramID is the native Compute Budget Program.
var ComputeBudgetProgramID = pubkey.MustParse("ComputeBudget111111111111111111111111111111")

const (
	computeBudgetSetComputeUnitLimit = 2
	computeBudgetSetComputeUnitPrice = 3
)

// computeBudgetClassifier decodes the Compute Budget Program's
// fixed-layout instructions: a one-byte opcode followed by the
// opcode-determined argument.
type computeBudgetClassifier struct{}

func (computeBudgetClassifier) ProgramID() pubkey.Pubkey { return ComputeBudgetProgramID }

func (computeBudgetClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 1 {
		return nil, fmt.Errorf("%w: compute budget instruction truncated", ErrInvalidEncoding)
	}
	switch ix.Data[0] {
	case computeBudgetSetComputeUnitLimit:
		if len(ix.Data) < 5 {
			return nil, fmt.Errorf("%w: SetComputeUnitLimit truncated", ErrInvalidEncoding)
		}
		units := binary.LittleEndian.Uint32(ix.Data[1:5])
		return &action.SetComputeBudgetLimit{Units: units}, nil
	case computeBudgetSetComputeUnitPrice:
		if len(ix.Data) < 9 {
			return nil, fmt.Errorf("%w: SetComputeUnitPrice truncated", ErrInvalidEncoding)
		}
		microLamports := binary.LittleEndian.Uint64(ix.Data[1:9])
		return &action.SetComputeUnitPrice{MicroLamports: microLamports}, nil
	default:
		return nil, nil
	}
}
