package classify

import (
	"encoding/binary"
	"fmt"

	"solmev/internal/action"
	"solmev/internal/pubkey"
	"solmev/internal/txn"
)

// VoteProgramID is the native Vote Program.
var VoteProgramID = pubkey.MustParse("Vote111111111111111111111111111111111111111")

// voteInstructionCompactUpdateVoteState is the VoteInstruction enum's
// bincode discriminant for CompactUpdateVoteState, the only vote
// instruction this classifier recognises; every other variant is
// Ok(None) (spec: uninteresting tag under a recognised program).
const voteInstructionCompactUpdateVoteState = 12

// voteClassifier decodes the Vote Program's bincode-encoded instruction
// enum. Account position 0 is the authorized voter for every variant.
type voteClassifier struct{}

func (voteClassifier) ProgramID() pubkey.Pubkey { return VoteProgramID }

func (voteClassifier) Classify(t *txn.Transaction, ix txn.Instruction) (action.Action, error) {
	if len(ix.Data) < 4 {
		return nil, fmt.Errorf("%w: vote instruction truncated", ErrInvalidEncoding)
	}
	tag := binary.LittleEndian.Uint32(ix.Data[:4])
	if tag != voteInstructionCompactUpdateVoteState {
		return nil, nil
	}
	voteAuthority, err := resolveAccount(t, ix, 0)
	if err != nil {
		return nil, err
	}
	return &action.Vote{VoteAuthority: voteAuthority, CompactUpdateState: true}, nil
}
