package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawConfig {
	return RawConfig{
		Name:        "  Example Token ",
		Symbol:      " exm ",
		Description: "  demo asset  ",
		Decimals:    9,
		TotalSupply: "1_000_000_000",
		LogoURI:     "https://example.com/logo.png",
		Socials: map[string]string{
			"website": "https://example.com",
			"x":       "https://x.com/example",
		},
	}
}

func TestValidate_NormalizesInput(t *testing.T) {
	cfg, err := Validate(validRaw())
	require.NoError(t, err)

	assert.Equal(t, "Example Token", cfg.Name)
	assert.Equal(t, "EXM", cfg.Symbol)
	assert.Equal(t, "demo asset", cfg.Description)
	assert.Equal(t, uint8(9), cfg.Decimals)
	assert.Equal(t, uint64(1_000_000_000), cfg.TotalSupply)
	assert.Equal(t, uint64(1_000_000_000_000_000_000), cfg.BaseUnitSupply())
	assert.Len(t, cfg.Socials, 2)
}

func TestValidate_SupplyBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		decimals int
		supply   string
		wantErr  error
	}{
		{"nine decimals one billion", 9, "1000000000", nil},
		{"nine decimals 2e22", 9, "20000000000000000000000", ErrSupplyOverflow},
		{"zero decimals max uint64", 0, "18446744073709551615", nil},
		{"zero decimals above uint64", 0, "18446744073709551616", ErrSupplyOverflow},
		{"product just fits", 9, "18446744073", nil},
		{"product overflows", 9, "18446744074", ErrSupplyOverflow},
		{"wider than 256 bits", 0, "1" + strings.Repeat("0", 90), ErrSupplyOverflow},
		{"zero", 6, "0", ErrInvalidSupply},
		{"empty", 6, "", ErrInvalidSupply},
		{"not a number", 6, "12abc", ErrInvalidSupply},
		{"negative", 6, "-5", ErrInvalidSupply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw.Decimals = tt.decimals
			raw.TotalSupply = tt.supply

			cfg, err := Validate(raw)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotZero(t, cfg.BaseUnitSupply())
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	raw := RawConfig{
		Name:        "   ",
		Symbol:      "WAYTOOLONGSYMBOL",
		Decimals:    12,
		TotalSupply: "0",
		LogoURI:     "not a uri",
		Socials:     map[string]string{"telegram": "t.me/example"},
		MintAddress: "definitely-not-base58!",
	}

	_, err := Validate(raw)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	for _, kind := range []error{
		ErrInvalidName,
		ErrInvalidSymbol,
		ErrInvalidDecimals,
		ErrInvalidSupply,
		ErrInvalidLogoURI,
		ErrInvalidSocialURL,
		ErrInvalidMintAddress,
	} {
		assert.True(t, verr.Has(kind), "missing violation %v", kind)
		assert.ErrorIs(t, err, kind)
	}
	assert.Len(t, verr.Violations(), 7)
	assert.NotErrorIs(t, err, ErrSupplyOverflow)
	assert.Contains(t, err.Error(), "name: invalid name")
}

func TestValidate_OverflowSkippedWhenDecimalsInvalid(t *testing.T) {
	raw := validRaw()
	raw.Decimals = -1
	raw.TotalSupply = "18446744073709551615"

	_, err := Validate(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
	assert.NotErrorIs(t, err, ErrSupplyOverflow)
}

func TestValidate_NameAndSymbolLimits(t *testing.T) {
	raw := validRaw()
	raw.Name = strings.Repeat("n", MaxNameLength)
	raw.Symbol = strings.Repeat("s", MaxSymbolLength)
	_, err := Validate(raw)
	require.NoError(t, err)

	raw.Name = strings.Repeat("n", MaxNameLength+1)
	raw.Symbol = strings.Repeat("s", MaxSymbolLength+1)
	_, err = Validate(raw)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestValidate_LogoURISyntax(t *testing.T) {
	tests := []struct {
		uri string
		ok  bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", true},
		{"ar://Zx3abc", true},
		{"ftp://example.com/a.png", false},
		{"https://", false},
		{"/relative/path.png", false},
		{"https://exa mple.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			raw := validRaw()
			raw.LogoURI = tt.uri
			_, err := Validate(raw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLogoURI)
			}
		})
	}
}

func TestValidate_DoesNotAliasInput(t *testing.T) {
	raw := validRaw()
	cfg, err := Validate(raw)
	require.NoError(t, err)

	raw.Socials["website"] = "https://changed.example"
	assert.Equal(t, "https://example.com", cfg.Socials["website"])
}
