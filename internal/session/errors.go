// internal/session/errors.go
package session

import (
	"errors"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/preview"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

var (
	ErrNotConfigured  = errors.New("token is not configured")
	ErrNoPool         = errors.New("pool is not seeded")
	ErrNoFeeEstimate  = errors.New("fee is not estimated")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrUnknownAction  = errors.New("unknown scenario action")
	ErrSessionUnknown = errors.New("session not found")
)

// ErrorKind классифицирует ошибки для отображения пользователю
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindAuthority  ErrorKind = "authority"
	KindPool       ErrorKind = "pool"
	KindEstimation ErrorKind = "estimation"
	KindPreview    ErrorKind = "preview"
	KindConfig     ErrorKind = "config"
	KindSession    ErrorKind = "session"
	KindUnknown    ErrorKind = "unknown"
)

// Kind maps an error from any engine package to its kind.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		ve *token.ValidationError
		ae *authority.Error
		pe *cpmm.PoolError
		fe *fee.Error
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ae), errors.Is(err, authority.ErrUnknownFlag):
		return KindAuthority
	case errors.As(err, &pe), errors.Is(err, cpmm.ErrInvalidDirection):
		return KindPool
	case errors.As(err, &fe):
		return KindEstimation
	case errors.Is(err, preview.ErrIncompletePreview):
		return KindPreview
	case errors.Is(err, config.ErrInvalidConfig):
		return KindConfig
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrNoPool), errors.Is(err, ErrNoFeeEstimate),
		errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrUnknownAction), errors.Is(err, ErrSessionUnknown):
		return KindSession
	default:
		return KindUnknown
	}
}
