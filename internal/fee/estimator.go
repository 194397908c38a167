// internal/fee/estimator.go
// Package fee оценивает сетевые комиссии в SOL и их эквивалент в фиатной валюте.
package fee

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/token"
)

// Точность отображения по умолчанию
const (
	DefaultNativePrecision int32 = 6
	DefaultFiatPrecision   int32 = 2

	NativeSymbol = "SOL"
)

var (
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	ErrInvalidPrecision    = errors.New("precision must be non-negative")
)

// Error оборачивает ошибки оценки комиссии
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("fee %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Estimate - производное значение, отдельно не хранится.
type Estimate struct {
	Token        string          `json:"token" yaml:"token"`
	Lamports     uint64          `json:"lamports" yaml:"lamports"`
	Native       decimal.Decimal `json:"native" yaml:"native"`
	Fiat         decimal.Decimal `json:"fiat" yaml:"fiat"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" yaml:"exchange_rate"`
	FiatCurrency string          `json:"fiat_currency" yaml:"fiat_currency"`

	NativePrecision int32 `json:"native_precision" yaml:"native_precision"`
	FiatPrecision   int32 `json:"fiat_precision" yaml:"fiat_precision"`
}

// NativeString форматирует сумму в SOL с фиксированной точностью
func (e Estimate) NativeString() string {
	return e.Native.StringFixedBank(e.NativePrecision) + " " + NativeSymbol
}

// FiatString форматирует фиатный эквивалент
func (e Estimate) FiatString() string {
	return e.Fiat.StringFixedBank(e.FiatPrecision) + " " + e.FiatCurrency
}

// Options задаёт точность округления и метку валюты
type Options struct {
	NativePrecision int32
	FiatPrecision   int32
	FiatCurrency    string
}

// DefaultOptions возвращает точность 6/2 и USD
func DefaultOptions() Options {
	return Options{
		NativePrecision: DefaultNativePrecision,
		FiatPrecision:   DefaultFiatPrecision,
		FiatCurrency:    "USD",
	}
}

// Estimator переводит лампорты в отображаемые единицы.
// Вся арифметика десятичная, без float64.
type Estimator struct {
	opts   Options
	logger *zap.Logger
}

// NewEstimator проверяет параметры и создаёт оценщик
func NewEstimator(opts Options, logger *zap.Logger) (*Estimator, error) {
	if opts.NativePrecision < 0 || opts.FiatPrecision < 0 {
		return nil, &Error{Op: "configure", Err: ErrInvalidPrecision}
	}
	if opts.FiatCurrency == "" {
		opts.FiatCurrency = "USD"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{opts: opts, logger: logger.Named("fee")}, nil
}

// Estimate converts a base-unit fee into SOL and fiat. The fiat value is
// derived from the exact SOL amount; only the displayed values are rounded
// (half to even).
func (e *Estimator) Estimate(cfg token.Config, lamports uint64, rate decimal.Decimal) (Estimate, error) {
	if !rate.IsPositive() {
		return Estimate{}, &Error{Op: "estimate", Err: fmt.Errorf("%w: got %s", ErrInvalidExchangeRate, rate.String())}
	}

	exact := LamportsToSOL(lamports)
	native := exact.RoundBank(e.opts.NativePrecision)
	fiat := exact.Mul(rate).RoundBank(e.opts.FiatPrecision)

	e.logger.Debug("Fee estimated",
		zap.String("token", cfg.Symbol),
		zap.Uint64("lamports", lamports),
		zap.String("native", native.String()),
		zap.String("fiat", fiat.String()),
		zap.String("rate", rate.String()))

	return Estimate{
		Token:           cfg.Symbol,
		Lamports:        lamports,
		Native:          native,
		Fiat:            fiat,
		ExchangeRate:    rate,
		FiatCurrency:    e.opts.FiatCurrency,
		NativePrecision: e.opts.NativePrecision,
		FiatPrecision:   e.opts.FiatPrecision,
	}, nil
}

// LamportsToSOL конвертирует лампорты в SOL без потери точности
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.NewFromUint64(solana.LAMPORTS_PER_SOL))
}
