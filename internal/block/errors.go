package block

import "errors"

// ErrMissingBlockTime is returned when a block's block_time is nil; per
// spec this fails assembly of the entire block, not just one transaction.
var ErrMissingBlockTime = errors.New("block: missing block_time")
