// internal/dex/cpmm/swap.go
package cpmm

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SwapQuote содержит результат расчёта свапа и состояние пула после него
type SwapQuote struct {
	Direction        Direction
	AmountIn         uint64
	FeeBps           uint16
	FeeAmount        uint64
	AmountInAfterFee uint64
	AmountOut        uint64

	SpotPriceBefore decimal.Decimal
	SpotPriceAfter  decimal.Decimal
	ExecutionPrice  decimal.Decimal
	// PriceImpact в процентах: (1 - execution/spot) * 100
	PriceImpact decimal.Decimal

	KBefore *uint256.Int
	KAfter  *uint256.Int
	Pool    Pool
}

// MinimumReceived возвращает минимальный выход с учётом проскальзывания
func MinimumReceived(amountOut uint64, slippageBps uint16) uint64 {
	if uint64(slippageBps) >= BasisPoints {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(amountOut), uint256.NewInt(BasisPoints-uint64(slippageBps)))
	v.Div(v, uint256.NewInt(BasisPoints))
	return v.Uint64()
}

// applyFee вычитает комиссию из входа: amount * (10000 - fee) / 10000
func applyFee(amount uint64, feeBps uint16) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(BasisPoints-uint64(feeBps)))
	v.Div(v, uint256.NewInt(BasisPoints))
	return v.Uint64()
}

// ceilDiv возвращает ceil(x / y)
func ceilDiv(x, y *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// QuoteSwap рассчитывает свап по формуле постоянного произведения.
// Комиссия удерживается из входа до расчёта; полный вход остаётся в пуле,
// поэтому k после свапа не меньше k до него. Выход округляется вниз.
func (s *Simulator) QuoteSwap(pool Pool, amountIn uint64, dir Direction, feeBps uint16) (SwapQuote, error) {
	const op = "swap"

	if dir != AToB && dir != BToA {
		return SwapQuote{}, newPoolError(op, ErrInvalidDirection, nil)
	}
	if !pool.Initialized() {
		return SwapQuote{}, newPoolError(op, ErrPoolNotInitialized, nil)
	}
	if amountIn == 0 {
		return SwapQuote{}, newPoolError(op, ErrZeroAmount, nil)
	}
	if uint64(feeBps) >= BasisPoints {
		return SwapQuote{}, newPoolError(op, ErrInvalidFee, map[string]interface{}{"fee_bps": feeBps})
	}

	reserveIn, reserveOut := pool.reserves(dir)
	if reserveIn > ^uint64(0)-amountIn {
		return SwapQuote{}, newPoolError(op, ErrReserveOverflow, map[string]interface{}{
			"reserve_in": reserveIn,
			"amount_in":  amountIn,
		})
	}

	afterFee := applyFee(amountIn, feeBps)
	if afterFee == 0 {
		return SwapQuote{}, newPoolError(op, ErrOutputTooSmall, map[string]interface{}{"amount_in": amountIn})
	}

	k := pool.K()
	// reserve_out' = ceil(k / (reserve_in + after_fee)); output = reserve_out - reserve_out'
	denominator := new(uint256.Int).AddUint64(uint256.NewInt(reserveIn), afterFee)
	newOut := ceilDiv(k, denominator)
	if newOut.IsZero() || !newOut.IsUint64() || newOut.Uint64() > reserveOut {
		return SwapQuote{}, newPoolError(op, ErrInsufficientLiquidity, nil)
	}
	amountOut := reserveOut - newOut.Uint64()
	if amountOut == 0 {
		return SwapQuote{}, newPoolError(op, ErrOutputTooSmall, map[string]interface{}{
			"amount_in":   amountIn,
			"after_fee":   afterFee,
			"reserve_out": reserveOut,
		})
	}

	next := pool
	if dir == AToB {
		next.ReserveA = reserveIn + amountIn
		next.ReserveB = newOut.Uint64()
	} else {
		next.ReserveB = reserveIn + amountIn
		next.ReserveA = newOut.Uint64()
	}

	spotBefore := pool.SpotPrice(dir)
	execution := decimal.NewFromUint64(amountOut).Div(decimal.NewFromUint64(afterFee))
	impact := decimal.NewFromInt(1).Sub(execution.Div(spotBefore)).
		Mul(decimal.NewFromInt(100)).
		RoundBank(6)

	quote := SwapQuote{
		Direction:        dir,
		AmountIn:         amountIn,
		FeeBps:           feeBps,
		FeeAmount:        amountIn - afterFee,
		AmountInAfterFee: afterFee,
		AmountOut:        amountOut,
		SpotPriceBefore:  spotBefore,
		SpotPriceAfter:   next.SpotPrice(dir),
		ExecutionPrice:   execution,
		PriceImpact:      impact,
		KBefore:          k,
		KAfter:           next.K(),
		Pool:             next,
	}

	s.logger.Debug("Swap quoted",
		zap.Stringer("direction", dir),
		zap.Uint64("amount_in", amountIn),
		zap.Uint64("after_fee", afterFee),
		zap.Uint64("amount_out", amountOut),
		zap.String("price_impact", impact.String()+"%"),
		zap.String("k_before", k.Dec()),
		zap.String("k_after", quote.KAfter.Dec()))

	return quote, nil
}

// Swap quotes with the simulator's default fee.
func (s *Simulator) Swap(pool Pool, amountIn uint64, dir Direction) (SwapQuote, error) {
	return s.QuoteSwap(pool, amountIn, dir, s.params.DefaultFeeBps)
}
