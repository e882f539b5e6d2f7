package txn

import "errors"

// Error kinds per the propagation policy: decoding errors at the
// instruction/transaction boundary are recovered locally by callers, never
// panics.
var (
	ErrUnsupportedEncoding  = errors.New("txn: unsupported inner instruction encoding")
	ErrMissingStackHeight   = errors.New("txn: inner instruction missing stack height")
	ErrMissingTransactionMeta = errors.New("txn: transaction metadata missing")
	ErrMissingProgramID     = errors.New("txn: program_id_index out of range")
	ErrMissingAccount       = errors.New("txn: account index out of range")
)

// ErrTokenBalanceMissing is returned by GetPreTokenBalance/GetPostTokenBalance
// when no balance entry exists for the requested account.
var ErrTokenBalanceMissing = errors.New("txn: token balance missing")
