// internal/dex/cpmm/simulator.go
package cpmm

import (
	"fmt"

	"github.com/rovshanmuradov/tokensim/internal/token"
	"go.uber.org/zap"
)

const (
	// BasisPoints - знаменатель для комиссий и допусков
	BasisPoints uint64 = 10_000

	// DefaultFeeBps соответствует 0.25% стандартного пула Raydium
	DefaultFeeBps uint16 = 25
	// DefaultDepositToleranceBps - допустимое отклонение соотношения депозита
	DefaultDepositToleranceBps uint16 = 50
)

// Params задаёт параметры симулятора
type Params struct {
	DefaultFeeBps       uint16 `mapstructure:"fee_bps" json:"fee_bps" yaml:"fee_bps"`
	DepositToleranceBps uint16 `mapstructure:"deposit_tolerance_bps" json:"deposit_tolerance_bps" yaml:"deposit_tolerance_bps"`
}

func DefaultParams() Params {
	return Params{
		DefaultFeeBps:       DefaultFeeBps,
		DepositToleranceBps: DefaultDepositToleranceBps,
	}
}

// Simulator выполняет операции над пулом. Собственного состояния не хранит,
// поэтому безопасен для конкурентного использования.
type Simulator struct {
	params Params
	logger *zap.Logger
}

// NewSimulator проверяет параметры и создаёт симулятор
func NewSimulator(params Params, logger *zap.Logger) (*Simulator, error) {
	if uint64(params.DefaultFeeBps) >= BasisPoints {
		return nil, fmt.Errorf("%w: fee %d bps", ErrInvalidParams, params.DefaultFeeBps)
	}
	if uint64(params.DepositToleranceBps) > BasisPoints {
		return nil, fmt.Errorf("%w: tolerance %d bps", ErrInvalidParams, params.DepositToleranceBps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{params: params, logger: logger.Named("cpmm")}, nil
}

func (s *Simulator) Params() Params {
	return s.params
}

// Initialize создаёт пул из начальных резервов
func (s *Simulator) Initialize(seedA, seedB uint64, decimalsA, decimalsB uint8) (Pool, error) {
	if seedA == 0 || seedB == 0 {
		return Pool{}, newPoolError("initialize", ErrInvalidSeed, map[string]interface{}{
			"seed_a": seedA,
			"seed_b": seedB,
		})
	}

	pool := newPool(seedA, seedB, decimalsA, decimalsB)
	s.logger.Debug("Pool initialized",
		zap.Uint64("reserve_a", seedA),
		zap.Uint64("reserve_b", seedB),
		zap.String("k", pool.K().Dec()),
		zap.String("price", pool.Price().String()))
	return pool, nil
}

// InitializeForToken seeds a pool whose A side is the configured token and
// whose B side is SOL. The token seed cannot exceed the minted supply.
func (s *Simulator) InitializeForToken(cfg token.Config, seedA, seedB uint64) (Pool, error) {
	if seedA > cfg.BaseUnitSupply() {
		return Pool{}, newPoolError("initialize", ErrSeedExceedsSupply, map[string]interface{}{
			"seed_a": seedA,
			"supply": cfg.BaseUnitSupply(),
		})
	}
	return s.Initialize(seedA, seedB, cfg.Decimals, QuoteDecimals)
}
