// internal/dex/cpmm/errors.go
package cpmm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSeed           = errors.New("seed reserves must be greater than zero")
	ErrSeedExceedsSupply     = errors.New("seed amount exceeds token supply")
	ErrPoolNotInitialized    = errors.New("pool is not initialized")
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInvalidFee            = errors.New("fee must be below 10000 bps")
	ErrInvalidDirection      = errors.New("invalid swap direction")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrOutputTooSmall        = errors.New("output rounds down to zero")
	ErrReserveOverflow       = errors.New("reserve exceeds 64 bits")
	ErrUnbalancedDeposit     = errors.New("deposit ratio does not match pool ratio")
	ErrInvalidShare          = errors.New("share fraction must be in (0, 1]")
	ErrNoPosition            = errors.New("no liquidity position to withdraw")
	ErrInvalidParams         = errors.New("invalid pool parameters")
)

// PoolError описывает отклонённую операцию; исходный пул остаётся прежним
type PoolError struct {
	Op      string
	Err     error
	Details map[string]interface{}
}

func (e *PoolError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("pool %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pool %s: %v %v", e.Op, e.Err, e.Details)
}

func (e *PoolError) Unwrap() error {
	return e.Err
}

func newPoolError(op string, err error, details map[string]interface{}) *PoolError {
	return &PoolError{Op: op, Err: err, Details: details}
}
