package classify

import "solmev/internal/pubkey"

// jitoTipAddresses is the fixed allow-list of eight Jito tip accounts
// (GLOSSARY: "Tip address"). Preserved verbatim from the reference
// implementation.
var jitoTipAddresses = map[pubkey.Pubkey]bool{
	pubkey.MustParse("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"): true,
	pubkey.MustParse("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"): true,
	pubkey.MustParse("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"): true,
	pubkey.MustParse("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"): true,
	pubkey.MustParse("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"): true,
	pubkey.MustParse("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"): true,
	pubkey.MustParse("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"): true,
	pubkey.MustParse("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"): true,
}

// bloxrouteTipAddress is Bloxroute's single known tip account.
var bloxrouteTipAddress = pubkey.MustParse("HWEoBxYs7ssKuudEjzjmpfJVX7Dvi7wescFsVx2L5yoY")

// IsJitoTipAddress reports whether p is one of the eight known Jito tip
// accounts.
func IsJitoTipAddress(p pubkey.Pubkey) bool { return jitoTipAddresses[p] }

// IsBloxrouteTipAddress reports whether p is the known Bloxroute tip
// account.
func IsBloxrouteTipAddress(p pubkey.Pubkey) bool { return p == bloxrouteTipAddress }
