// internal/dex/cpmm/liquidity.go
package cpmm

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Contribution - результат депозита: сколько реально вошло в пул.
// Излишек стороны сверх текущего соотношения остаётся у пользователя.
type Contribution struct {
	AmountA      uint64
	AmountB      uint64
	SharesMinted *uint256.Int
	Pool         Pool
}

// Withdrawal - результат вывода ликвидности
type Withdrawal struct {
	AmountA      uint64
	AmountB      uint64
	SharesBurned *uint256.Int
	Pool         Pool
}

// Deposit добавляет ликвидность в текущем соотношении резервов.
// Отклонение b от ожидаемого a*rb/ra проверяется в целых числах:
// |a*rb - b*ra| * 10000 <= tolerance * a * rb
func (s *Simulator) Deposit(pool Pool, amountA, amountB uint64) (Contribution, error) {
	const op = "deposit"

	if !pool.Initialized() {
		return Contribution{}, newPoolError(op, ErrPoolNotInitialized, nil)
	}
	if amountA == 0 || amountB == 0 {
		return Contribution{}, newPoolError(op, ErrZeroAmount, map[string]interface{}{
			"amount_a": amountA,
			"amount_b": amountB,
		})
	}
	if pool.ReserveA > ^uint64(0)-amountA || pool.ReserveB > ^uint64(0)-amountB {
		return Contribution{}, newPoolError(op, ErrReserveOverflow, nil)
	}

	ra, rb := uint256.NewInt(pool.ReserveA), uint256.NewInt(pool.ReserveB)
	a, b := uint256.NewInt(amountA), uint256.NewInt(amountB)

	lhs := new(uint256.Int).Mul(a, rb)
	rhs := new(uint256.Int).Mul(b, ra)
	diff := new(uint256.Int)
	if lhs.Gt(rhs) {
		diff.Sub(lhs, rhs)
	} else {
		diff.Sub(rhs, lhs)
	}
	diff.Mul(diff, uint256.NewInt(BasisPoints))
	limit := new(uint256.Int).Mul(lhs, uint256.NewInt(uint64(s.params.DepositToleranceBps)))
	if diff.Gt(limit) {
		return Contribution{}, newPoolError(op, ErrUnbalancedDeposit, map[string]interface{}{
			"amount_a":      amountA,
			"amount_b":      amountB,
			"pool_price":    pool.SpotPrice(AToB).String(),
			"deposit_price": decimal.NewFromUint64(amountB).Div(decimal.NewFromUint64(amountA)).String(),
			"tolerance_bps": s.params.DepositToleranceBps,
		})
	}

	// Выпускаем доли по меньшей из сторон, как в Raydium CPMM
	total := pool.TotalShares()
	byA := new(uint256.Int).Div(new(uint256.Int).Mul(a, total), ra)
	byB := new(uint256.Int).Div(new(uint256.Int).Mul(b, total), rb)
	minted := byA
	if byB.Lt(byA) {
		minted = byB
	}
	if minted.IsZero() {
		return Contribution{}, newPoolError(op, ErrOutputTooSmall, map[string]interface{}{
			"amount_a": amountA,
			"amount_b": amountB,
		})
	}

	// В пул входит ceil(minted*r/total) по каждой стороне, не больше предложенного
	usedA := contributed(minted, ra, total, amountA)
	usedB := contributed(minted, rb, total, amountB)

	next := pool
	next.ReserveA += usedA
	next.ReserveB += usedB
	next.positionShares.Add(&pool.positionShares, minted)

	s.logger.Debug("Liquidity deposited",
		zap.Uint64("amount_a", usedA),
		zap.Uint64("amount_b", usedB),
		zap.Uint64("refund_a", amountA-usedA),
		zap.Uint64("refund_b", amountB-usedB),
		zap.String("shares_minted", minted.Dec()),
		zap.Uint64("reserve_a", next.ReserveA),
		zap.Uint64("reserve_b", next.ReserveB))

	return Contribution{
		AmountA:      usedA,
		AmountB:      usedB,
		SharesMinted: new(uint256.Int).Set(minted),
		Pool:         next,
	}, nil
}

func contributed(minted, reserve, total *uint256.Int, offered uint64) uint64 {
	used := ceilDiv(new(uint256.Int).Mul(minted, reserve), total)
	if !used.IsUint64() || used.Uint64() > offered {
		return offered
	}
	return used.Uint64()
}

// Withdraw burns fraction of the session position and returns the floored
// proportional amounts. Locked seed liquidity is never withdrawn, so both
// reserves stay positive.
func (s *Simulator) Withdraw(pool Pool, fraction decimal.Decimal) (Withdrawal, error) {
	const op = "withdraw"

	if !pool.Initialized() {
		return Withdrawal{}, newPoolError(op, ErrPoolNotInitialized, nil)
	}
	if !fraction.IsPositive() || fraction.GreaterThan(decimal.NewFromInt(1)) {
		return Withdrawal{}, newPoolError(op, ErrInvalidShare, map[string]interface{}{
			"fraction": fraction.String(),
		})
	}
	if !pool.HasPosition() {
		return Withdrawal{}, newPoolError(op, ErrNoPosition, nil)
	}

	burn := new(uint256.Int).Set(&pool.positionShares)
	if !fraction.Equal(decimal.NewFromInt(1)) {
		scaled := decimal.NewFromBigInt(pool.positionShares.ToBig(), 0).Mul(fraction).Floor()
		burn = uint256.MustFromBig(scaled.BigInt())
	}
	if burn.IsZero() {
		return Withdrawal{}, newPoolError(op, ErrOutputTooSmall, map[string]interface{}{
			"fraction": fraction.String(),
			"position": pool.positionShares.Dec(),
		})
	}

	total := pool.TotalShares()
	outA := new(uint256.Int).Div(new(uint256.Int).Mul(burn, uint256.NewInt(pool.ReserveA)), total)
	outB := new(uint256.Int).Div(new(uint256.Int).Mul(burn, uint256.NewInt(pool.ReserveB)), total)

	next := pool
	next.ReserveA -= outA.Uint64()
	next.ReserveB -= outB.Uint64()
	next.positionShares.Sub(&pool.positionShares, burn)

	s.logger.Debug("Liquidity withdrawn",
		zap.String("fraction", fraction.String()),
		zap.String("shares_burned", burn.Dec()),
		zap.Uint64("amount_a", outA.Uint64()),
		zap.Uint64("amount_b", outB.Uint64()),
		zap.Uint64("reserve_a", next.ReserveA),
		zap.Uint64("reserve_b", next.ReserveB))

	return Withdrawal{
		AmountA:      outA.Uint64(),
		AmountB:      outB.Uint64(),
		SharesBurned: burn,
		Pool:         next,
	}, nil
}
