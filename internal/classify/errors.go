package classify

import "errors"

// Error taxonomy per spec §7. These are recovered locally by the
// dispatcher (instruction-level) or the block assembler
// (transaction/block-level); only block-level errors propagate to the
// caller.
var (
	ErrInvalidEncoding  = errors.New("classify: invalid instruction encoding")
	ErrMissingAccount   = errors.New("classify: required account index missing or out of range")
	ErrMissingProgramID = errors.New("classify: program_id_index out of range")
)
