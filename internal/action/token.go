package action

import "solmev/internal/pubkey"

// TokenTransfer is an SPL Token Transfer instruction (unchecked variant:
// no mint or decimals argument).
type TokenTransfer struct {
	leaf
	Source      pubkey.Pubkey `json:"source"`
	Destination pubkey.Pubkey `json:"destination"`
	Authority   pubkey.Pubkey `json:"authority"`
	Amount      uint64        `json:"amount"`
}

func (t *TokenTransfer) ToJSON() (map[string]any, error) { return toJSON("Token.Transfer", t) }

// TokenTransferChecked additionally carries the mint and its decimals,
// guarding against decimal-mismatch attacks.
type TokenTransferChecked struct {
	leaf
	Source      pubkey.Pubkey `json:"source"`
	Mint        pubkey.Pubkey `json:"mint"`
	Destination pubkey.Pubkey `json:"destination"`
	Authority   pubkey.Pubkey `json:"authority"`
	Amount      uint64        `json:"amount"`
	Decimals    uint8         `json:"decimals"`
}

func (t *TokenTransferChecked) ToJSON() (map[string]any, error) {
	return toJSON("Token.TransferChecked", t)
}

// TokenInitializeAccount initializes a token account, owner supplied via
// the account list.
type TokenInitializeAccount struct {
	leaf
	Account pubkey.Pubkey `json:"account"`
	Mint    pubkey.Pubkey `json:"mint"`
	Owner   pubkey.Pubkey `json:"owner"`
}

func (t *TokenInitializeAccount) ToJSON() (map[string]any, error) {
	return toJSON("Token.InitializeAccount", t)
}

// TokenInitializeAccount2 is InitializeAccount with owner passed as an
// instruction argument rather than an account.
type TokenInitializeAccount2 struct {
	leaf
	Account pubkey.Pubkey `json:"account"`
	Mint    pubkey.Pubkey `json:"mint"`
	Owner   pubkey.Pubkey `json:"owner"`
}

func (t *TokenInitializeAccount2) ToJSON() (map[string]any, error) {
	return toJSON("Token.InitializeAccount2", t)
}

// TokenInitializeAccount3 is InitializeAccount2 without the rent-sysvar
// account requirement.
type TokenInitializeAccount3 struct {
	leaf
	Account pubkey.Pubkey `json:"account"`
	Mint    pubkey.Pubkey `json:"mint"`
	Owner   pubkey.Pubkey `json:"owner"`
}

func (t *TokenInitializeAccount3) ToJSON() (map[string]any, error) {
	return toJSON("Token.InitializeAccount3", t)
}

// TokenMintTo mints new tokens to a destination account.
type TokenMintTo struct {
	leaf
	Mint        pubkey.Pubkey `json:"mint"`
	Destination pubkey.Pubkey `json:"destination"`
	Authority   pubkey.Pubkey `json:"authority"`
	Amount      uint64        `json:"amount"`
}

func (t *TokenMintTo) ToJSON() (map[string]any, error) { return toJSON("Token.MintTo", t) }

// TokenBurn destroys tokens from an account.
type TokenBurn struct {
	leaf
	Account   pubkey.Pubkey `json:"account"`
	Mint      pubkey.Pubkey `json:"mint"`
	Authority pubkey.Pubkey `json:"authority"`
	Amount    uint64        `json:"amount"`
}

func (t *TokenBurn) ToJSON() (map[string]any, error) { return toJSON("Token.Burn", t) }

// TokenCloseAccount closes a token account, reclaiming its rent to
// Destination.
type TokenCloseAccount struct {
	leaf
	Account     pubkey.Pubkey `json:"account"`
	Destination pubkey.Pubkey `json:"destination"`
	Owner       pubkey.Pubkey `json:"owner"`
}

func (t *TokenCloseAccount) ToJSON() (map[string]any, error) { return toJSON("Token.CloseAccount", t) }

// TokenApprove grants a delegate the right to transfer up to Amount from
// Source.
type TokenApprove struct {
	leaf
	Source   pubkey.Pubkey `json:"source"`
	Delegate pubkey.Pubkey `json:"delegate"`
	Owner    pubkey.Pubkey `json:"owner"`
	Amount   uint64        `json:"amount"`
}

func (t *TokenApprove) ToJSON() (map[string]any, error) { return toJSON("Token.Approve", t) }

// TokenRevoke revokes a previously granted delegate.
type TokenRevoke struct {
	leaf
	Source pubkey.Pubkey `json:"source"`
	Owner  pubkey.Pubkey `json:"owner"`
}

func (t *TokenRevoke) ToJSON() (map[string]any, error) { return toJSON("Token.Revoke", t) }

// TokenSetAuthority changes one of an account's or mint's authorities.
type TokenSetAuthority struct {
	leaf
	Account          pubkey.Pubkey  `json:"account"`
	AuthorityType    string         `json:"authority_type"`
	NewAuthority     *pubkey.Pubkey `json:"new_authority,omitempty"`
	CurrentAuthority pubkey.Pubkey  `json:"current_authority"`
}

func (t *TokenSetAuthority) ToJSON() (map[string]any, error) { return toJSON("Token.SetAuthority", t) }

// AssociatedTokenCreate creates an associated token account. The
// associated token program never recurses during classify: its own
// instruction already carries every field of interest, and the
// Token.InitializeAccount it CPIs into adds nothing new.
type AssociatedTokenCreate struct {
	leaf
	Payer             pubkey.Pubkey `json:"payer"`
	AssociatedAccount pubkey.Pubkey `json:"associated_token_address"`
	Wallet            pubkey.Pubkey `json:"wallet"`
	Mint              pubkey.Pubkey `json:"mint"`
	TokenProgram      pubkey.Pubkey `json:"token_program"`
}

func (a *AssociatedTokenCreate) ToJSON() (map[string]any, error) {
	return toJSON("AssociatedToken.Create", a)
}

// AssociatedTokenCreateIdempotent is Create but a no-op if the account
// already exists.
type AssociatedTokenCreateIdempotent struct {
	leaf
	Payer             pubkey.Pubkey `json:"payer"`
	AssociatedAccount pubkey.Pubkey `json:"associated_token_address"`
	Wallet            pubkey.Pubkey `json:"wallet"`
	Mint              pubkey.Pubkey `json:"mint"`
	TokenProgram      pubkey.Pubkey `json:"token_program"`
}

func (a *AssociatedTokenCreateIdempotent) ToJSON() (map[string]any, error) {
	return toJSON("AssociatedToken.CreateIdempotent", a)
}

// AssociatedTokenRecoverNested recovers tokens mistakenly sent to a nested
// associated token account back to the wallet's own account for that mint.
// The instruction carries no decodable arguments beyond its accounts, and
// the accounts themselves aren't in fixed enough positions to be worth
// resolving here.
type AssociatedTokenRecoverNested struct {
	leaf
}

func (a *AssociatedTokenRecoverNested) ToJSON() (map[string]any, error) {
	return toJSON("AssociatedToken.RecoverNested", a)
}

var (
	_ Action = (*TokenTransfer)(nil)
	_ Action = (*TokenTransferChecked)(nil)
	_ Action = (*TokenInitializeAccount)(nil)
	_ Action = (*TokenInitializeAccount2)(nil)
	_ Action = (*TokenInitializeAccount3)(nil)
	_ Action = (*TokenMintTo)(nil)
	_ Action = (*TokenBurn)(nil)
	_ Action = (*TokenCloseAccount)(nil)
	_ Action = (*TokenApprove)(nil)
	_ Action = (*TokenRevoke)(nil)
	_ Action = (*TokenSetAuthority)(nil)
	_ Action = (*AssociatedTokenCreate)(nil)
	_ Action = (*AssociatedTokenCreateIdempotent)(nil)
	_ Action = (*AssociatedTokenRecoverNested)(nil)
)
