// internal/token/errors.go
package token

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Violation kinds. Each names exactly one violated constraint.
var (
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidDecimals    = errors.New("invalid decimals")
	ErrInvalidSupply      = errors.New("invalid supply")
	ErrSupplyOverflow     = errors.New("supply overflow")
	ErrInvalidLogoURI     = errors.New("invalid logo uri")
	ErrInvalidSocialURL   = errors.New("invalid social url")
	ErrInvalidMintAddress = errors.New("invalid mint address")

	ErrNoMintAddress = errors.New("mint address not configured")
)

// FieldError binds a violation kind to the offending input field.
type FieldError struct {
	Field  string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationError reports every violation found in a single validation pass.
type ValidationError struct {
	errs error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations()))
	for _, v := range e.Violations() {
		parts = append(parts, v.Error())
	}
	return "invalid token config: " + strings.Join(parts, "; ")
}

// Unwrap exposes the combined violations so errors.Is matches any of them.
func (e *ValidationError) Unwrap() error {
	return e.errs
}

// Violations returns the collected field errors in discovery order.
func (e *ValidationError) Violations() []*FieldError {
	var out []*FieldError
	for _, err := range multierr.Errors(e.errs) {
		var fe *FieldError
		if errors.As(err, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// Has reports whether the given kind was among the violations.
func (e *ValidationError) Has(kind error) bool {
	for _, v := range e.Violations() {
		if errors.Is(v.Err, kind) {
			return true
		}
	}
	return false
}
