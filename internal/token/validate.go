// internal/token/validate.go
package token

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"go.uber.org/multierr"
)

var allowedURISchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ipfs":  true,
	"ar":    true,
}

// Validate turns raw input into a Config. It never stops at the first problem:
// all violations are collected into a single *ValidationError.
func Validate(raw RawConfig) (Config, error) {
	var (
		cfg  Config
		errs error
	)

	fail := func(field string, kind error, detail string) {
		errs = multierr.Append(errs, &FieldError{Field: field, Err: kind, Detail: detail})
	}

	cfg.Name = strings.TrimSpace(raw.Name)
	switch {
	case cfg.Name == "":
		fail("name", ErrInvalidName, "must not be empty")
	case len(cfg.Name) > MaxNameLength:
		fail("name", ErrInvalidName, fmt.Sprintf("%d bytes exceeds limit of %d", len(cfg.Name), MaxNameLength))
	}

	cfg.Symbol = strings.ToUpper(strings.TrimSpace(raw.Symbol))
	switch {
	case cfg.Symbol == "":
		fail("symbol", ErrInvalidSymbol, "must not be empty")
	case len(cfg.Symbol) > MaxSymbolLength:
		fail("symbol", ErrInvalidSymbol, fmt.Sprintf("%d bytes exceeds limit of %d", len(cfg.Symbol), MaxSymbolLength))
	}

	cfg.Description = strings.TrimSpace(raw.Description)

	decimalsOK := raw.Decimals >= 0 && raw.Decimals <= MaxDecimals
	if decimalsOK {
		cfg.Decimals = uint8(raw.Decimals)
	} else {
		fail("decimals", ErrInvalidDecimals, fmt.Sprintf("%d outside [0,%d]", raw.Decimals, MaxDecimals))
	}

	supply, supplyErr := parseSupply(raw.TotalSupply)
	switch {
	case supplyErr != nil:
		fail("total_supply", supplyErr, strings.TrimSpace(raw.TotalSupply))
	case decimalsOK:
		if _, overflow := scaleToBaseUnits(supply, cfg.Decimals); overflow {
			fail("total_supply", ErrSupplyOverflow,
				fmt.Sprintf("%d x 10^%d does not fit in 64 bits", supply, cfg.Decimals))
		} else {
			cfg.TotalSupply = supply
		}
	default:
		// Без корректных decimals переполнение проверить нельзя
		cfg.TotalSupply = supply
	}

	cfg.LogoURI = strings.TrimSpace(raw.LogoURI)
	if cfg.LogoURI != "" {
		if err := checkURI(cfg.LogoURI); err != nil {
			fail("logo_uri", ErrInvalidLogoURI, err.Error())
		}
	}

	if len(raw.Socials) > 0 {
		cfg.Socials = make(map[string]string, len(raw.Socials))
		for label, link := range raw.Socials {
			label = strings.TrimSpace(label)
			link = strings.TrimSpace(link)
			if label == "" {
				fail("socials", ErrInvalidSocialURL, "empty label")
				continue
			}
			if err := checkURI(link); err != nil {
				fail("socials."+label, ErrInvalidSocialURL, err.Error())
				continue
			}
			cfg.Socials[label] = link
		}
	}

	if mint := strings.TrimSpace(raw.MintAddress); mint != "" {
		pk, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			fail("mint_address", ErrInvalidMintAddress, err.Error())
		} else {
			cfg.mint = pk
		}
	}

	if errs != nil {
		return Config{}, &ValidationError{errs: errs}
	}
	return cfg, nil
}

// parseSupply accepts plain decimal digits, optionally grouped with '_'.
// Values above 64 bits are reported as overflow rather than malformed.
func parseSupply(s string) (uint64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if s == "" {
		return 0, ErrInvalidSupply
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		if strings.Trim(s, "0123456789") == "" {
			// все цифры, но больше 256 бит
			return 0, ErrSupplyOverflow
		}
		return 0, ErrInvalidSupply
	}
	if v.IsZero() {
		return 0, ErrInvalidSupply
	}
	if !v.IsUint64() {
		return 0, ErrSupplyOverflow
	}
	return v.Uint64(), nil
}

func scaleToBaseUnits(supply uint64, decimals uint8) (uint64, bool) {
	scale := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(supply), scale)
	if overflow || !product.IsUint64() {
		return 0, true
	}
	return product.Uint64(), false
}

// checkURI is a syntax check only; nothing is fetched.
func checkURI(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty uri")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	scheme := strings.ToLower(u.Scheme)
	if !allowedURISchemes[scheme] {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
