// internal/token/config.go
// Package token validates proposed SPL token configurations and derives
// the offline metadata that would accompany them.
package token

import (
	"github.com/gagliardetto/solana-go"
)

// Limits mirror the Metaplex token-metadata account constraints.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxDecimals     = 9

	// DefaultDecimals matches `spl-token create-token` without --decimals.
	DefaultDecimals = 9
)

// RawConfig is unvalidated user input as collected by a presentation layer.
// TotalSupply is a decimal string so that values wider than 64 bits can be
// expressed (and rejected) instead of silently wrapping.
type RawConfig struct {
	Name        string            `mapstructure:"name" json:"name" yaml:"name"`
	Symbol      string            `mapstructure:"symbol" json:"symbol" yaml:"symbol"`
	Description string            `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Decimals    int               `mapstructure:"decimals" json:"decimals" yaml:"decimals"`
	TotalSupply string            `mapstructure:"total_supply" json:"total_supply" yaml:"total_supply"`
	LogoURI     string            `mapstructure:"logo_uri" json:"logo_uri,omitempty" yaml:"logo_uri,omitempty"`
	Socials     map[string]string `mapstructure:"-" json:"socials,omitempty" yaml:"socials,omitempty"`
	MintAddress string            `mapstructure:"mint_address" json:"mint_address,omitempty" yaml:"mint_address,omitempty"`
}

// Config is a validated token configuration. Values returned by Validate
// own their Socials map; callers must treat a Config as read-only.
type Config struct {
	Name        string            `json:"name" yaml:"name"`
	Symbol      string            `json:"symbol" yaml:"symbol"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Decimals    uint8             `json:"decimals" yaml:"decimals"`
	TotalSupply uint64            `json:"total_supply" yaml:"total_supply"`
	LogoURI     string            `json:"logo_uri,omitempty" yaml:"logo_uri,omitempty"`
	Socials     map[string]string `json:"socials,omitempty" yaml:"socials,omitempty"`

	mint solana.PublicKey
}

// BaseUnitSupply returns the supply expressed in the token's smallest unit.
// Validate guarantees the product fits in 64 bits.
func (c Config) BaseUnitSupply() uint64 {
	supply := c.TotalSupply
	for i := uint8(0); i < c.Decimals; i++ {
		supply *= 10
	}
	return supply
}

// Mint returns the configured mint address, if any.
func (c Config) Mint() (solana.PublicKey, bool) {
	return c.mint, !c.mint.IsZero()
}

// Equal reports whether two configs describe the same token.
func (c Config) Equal(o Config) bool {
	if c.Name != o.Name || c.Symbol != o.Symbol || c.Description != o.Description ||
		c.Decimals != o.Decimals || c.TotalSupply != o.TotalSupply ||
		c.LogoURI != o.LogoURI || !c.mint.Equals(o.mint) {
		return false
	}
	if len(c.Socials) != len(o.Socials) {
		return false
	}
	for k, v := range c.Socials {
		if o.Socials[k] != v {
			return false
		}
	}
	return true
}
