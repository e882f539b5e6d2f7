// Package pubkey implements the 32-byte account identity used throughout
// the classifier pipeline.
package pubkey

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// Size is the length in bytes of a Pubkey.
const Size = 32

// Pubkey is a 32-byte on-chain account identifier. It is compared bytewise
// via ordinary Go equality and displayed as base58, matching wallet and
// explorer conventions.
type Pubkey [Size]byte

// Zero is the all-zero Pubkey, used as a sentinel for "no address".
var Zero Pubkey

// FromBytes copies b into a new Pubkey. It returns an error if b is not
// exactly Size bytes long.
func FromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != Size {
		return p, fmt.Errorf("pubkey: expected %d bytes, got %d", Size, len(b))
	}
	copy(p[:], b)
	return p, nil
}

// Parse decodes a base58-encoded Pubkey, the textual form used by every
// Solana wallet and RPC client.
func Parse(s string) (Pubkey, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("pubkey: decode base58 %q: %w", s, err)
	}
	return FromBytes(decoded)
}

// MustParse is Parse but panics on error. Intended for static addresses
// known at compile time, such as the Jito tip accounts.
func MustParse(s string) Pubkey {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsZero reports whether p is the all-zero Pubkey.
func (p Pubkey) IsZero() bool {
	return p == Zero
}

// String renders p in base58, the canonical Solana account address form.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// MarshalJSON emits the base58 string form, matching the JSON document
// schema in which pubkeys are base58 strings.
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the base58 string form.
func (p *Pubkey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
