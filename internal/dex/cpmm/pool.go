// internal/dex/cpmm/pool.go
// Package cpmm моделирует пул постоянного произведения (x*y=k) в стиле Raydium CPMM.
// Все операции чистые: возвращают новый Pool и не меняют переданный.
package cpmm

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// QuoteDecimals - сторона B всегда SOL
const QuoteDecimals uint8 = 9

// LiquidityScale задаёт дробность долей ликвидности
const LiquidityScale uint64 = 1_000_000_000

// Direction определяет направление свапа
type Direction uint8

const (
	AToB Direction = iota + 1 // продажа токена за SOL
	BToA                      // покупка токена за SOL
)

func (d Direction) String() string {
	switch d {
	case AToB:
		return "a_to_b"
	case BToA:
		return "b_to_a"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection принимает a_to_b / b_to_a, а также sell / buy
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a_to_b", "atob", "sell":
		return AToB, nil
	case "b_to_a", "btoa", "buy":
		return BToA, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Pool - снимок состояния пула. Тип значимый: копия независима от оригинала.
type Pool struct {
	ReserveA  uint64
	ReserveB  uint64
	DecimalsA uint8
	DecimalsB uint8

	// seedShares заблокированы за начальной ликвидностью и не выводятся
	seedShares     uint256.Int
	positionShares uint256.Int
}

// Initialized reports whether both reserves are positive.
func (p Pool) Initialized() bool {
	return p.ReserveA > 0 && p.ReserveB > 0
}

// K возвращает произведение резервов (до 128 бит)
func (p Pool) K() *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(p.ReserveA), uint256.NewInt(p.ReserveB))
}

// TotalShares returns seed plus position shares.
func (p Pool) TotalShares() *uint256.Int {
	return new(uint256.Int).Add(&p.seedShares, &p.positionShares)
}

// PositionShares returns the shares owned by the session.
func (p Pool) PositionShares() *uint256.Int {
	v := p.positionShares
	return &v
}

// HasPosition reports whether the session has deposited liquidity.
func (p Pool) HasPosition() bool {
	return !p.positionShares.IsZero()
}

// PositionFraction is the session's share of the pool, in [0, 1).
func (p Pool) PositionFraction() decimal.Decimal {
	total := p.TotalShares()
	if total.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(p.positionShares.ToBig(), 0).
		Div(decimal.NewFromBigInt(total.ToBig(), 0))
}

// reserves возвращает (вход, выход) для направления
func (p Pool) reserves(dir Direction) (uint64, uint64) {
	if dir == BToA {
		return p.ReserveB, p.ReserveA
	}
	return p.ReserveA, p.ReserveB
}

// SpotPrice - сырые единицы выхода за единицу входа
func (p Pool) SpotPrice(dir Direction) decimal.Decimal {
	in, out := p.reserves(dir)
	if in == 0 {
		return decimal.Zero
	}
	return decimal.NewFromUint64(out).Div(decimal.NewFromUint64(in))
}

// Price возвращает цену одного целого токена A в целых единицах B (SOL)
// с учётом decimals обеих сторон
func (p Pool) Price() decimal.Decimal {
	if p.ReserveA == 0 {
		return decimal.Zero
	}
	a := decimal.NewFromUint64(p.ReserveA).Shift(-int32(p.DecimalsA))
	b := decimal.NewFromUint64(p.ReserveB).Shift(-int32(p.DecimalsB))
	return b.Div(a)
}

// WithDecimals returns a copy of the pool with token side A reinterpreted at
// the given decimals. Reserves and shares are base units and stay as they are.
func (p Pool) WithDecimals(decimalsA uint8) Pool {
	p.DecimalsA = decimalsA
	return p
}

// newPool создаёт пул с начальными долями isqrt(a*b) * LiquidityScale
func newPool(a, b uint64, decA, decB uint8) Pool {
	seed := new(uint256.Int).Sqrt(new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b)))
	seed.Mul(seed, uint256.NewInt(LiquidityScale))
	return Pool{
		ReserveA:   a,
		ReserveB:   b,
		DecimalsA:  decA,
		DecimalsB:  decB,
		seedShares: *seed,
	}
}
