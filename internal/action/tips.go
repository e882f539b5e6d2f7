package action

import "solmev/internal/pubkey"

// JitoTip is a native transfer recognised as a tip to one of the eight
// well-known Jito tip accounts (see internal/classify for the address
// list; they are a classification concern, not an action-model one).
type JitoTip struct {
	leaf
	Tipper    pubkey.Pubkey `json:"tipper"`
	TipAmount uint64        `json:"tip_amount"`
}

func (j *JitoTip) ToJSON() (map[string]any, error) { return toJSON("JitoTip", j) }

// BloxrouteTip is the Bloxroute equivalent of JitoTip.
type BloxrouteTip struct {
	leaf
	Tipper    pubkey.Pubkey `json:"tipper"`
	TipAmount uint64        `json:"tip_amount"`
}

func (b *BloxrouteTip) ToJSON() (map[string]any, error) { return toJSON("BloxrouteTip", b) }

var (
	_ Action = (*JitoTip)(nil)
	_ Action = (*BloxrouteTip)(nil)
)
