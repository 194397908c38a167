// internal/session/session.go
// Package session держит снимки одной симуляции и историю для undo.
// Каждая операция транзакционна: при ошибке состояние не меняется.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/preview"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

// DefaultHistoryLimit ограничивает глубину undo
const DefaultHistoryLimit = 64

// Options задаёт параметры новой сессии
type Options struct {
	Pool         cpmm.Params
	Fee          fee.Options
	Cluster      string
	HistoryLimit int
}

func DefaultOptions() Options {
	return Options{
		Pool:         cpmm.DefaultParams(),
		Fee:          fee.DefaultOptions(),
		HistoryLimit: DefaultHistoryLimit,
	}
}

// snapshot - полный набор состояний сессии; копируется по значению
type snapshot struct {
	config   *token.Config
	flags    authority.Flags
	estimate *fee.Estimate
	launch   *fee.Breakdown
	pool     *cpmm.Pool
	lastSwap *cpmm.SwapQuote
}

// Session is safe for concurrent use; operations are serialized.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	cluster   string

	sim       *cpmm.Simulator
	estimator *fee.Estimator
	planner   *fee.Planner
	logger    *zap.Logger

	mu           sync.Mutex
	cur          snapshot
	history      []snapshot
	historyLimit int
	updatedAt    time.Time
}

// New создаёт сессию с полностью централизованными полномочиями
func New(opts Options, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sim, err := cpmm.NewSimulator(opts.Pool, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}
	estimator, err := fee.NewEstimator(opts.Fee, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator: %w", err)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}

	id := uuid.New()
	now := time.Now()
	return &Session{
		id:           id,
		createdAt:    now,
		updatedAt:    now,
		cluster:      opts.Cluster,
		sim:          sim,
		estimator:    estimator,
		planner:      fee.NewPlanner(logger),
		logger:       logger.With(zap.String("session_id", id.String())),
		cur:          snapshot{flags: authority.New()},
		historyLimit: opts.HistoryLimit,
	}, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the time of the last committed operation.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Params returns the pool parameters of the session simulator.
func (s *Session) Params() cpmm.Params { return s.sim.Params() }

// Config возвращает текущую конфигурацию токена
func (s *Session) Config() (token.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.config == nil {
		return token.Config{}, false
	}
	return *s.cur.config, true
}

func (s *Session) Flags() authority.Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.flags
}

func (s *Session) Pool() (cpmm.Pool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.pool == nil {
		return cpmm.Pool{}, false
	}
	return *s.cur.pool, true
}

func (s *Session) Estimate() (fee.Estimate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.estimate == nil {
		return fee.Estimate{}, false
	}
	return *s.cur.estimate, true
}

// CanUndo reports whether there is history to roll back.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) > 0
}

// commit сохраняет предыдущий снимок в историю и применяет новый.
// Вызывается под s.mu.
func (s *Session) commit(next snapshot) {
	s.history = append(s.history, s.cur)
	if len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
	s.cur = next
	s.updatedAt = time.Now()
}

func (s *Session) reject(op string, err error) error {
	s.logger.Warn("Operation rejected",
		zap.String("operation", op),
		zap.String("kind", string(Kind(err))),
		zap.Error(err))
	return err
}

// Configure validates raw input and replaces the token config. An existing
// fee estimate is recomputed for the new token, and a seeded pool takes the
// new decimals.
func (s *Session) Configure(raw token.RawConfig) (token.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := token.Validate(raw)
	if err != nil {
		return token.Config{}, s.reject("configure", err)
	}

	next := s.cur
	next.config = &cfg
	if s.cur.estimate != nil {
		est, err := s.estimator.Estimate(cfg, s.cur.estimate.Lamports, s.cur.estimate.ExchangeRate)
		if err != nil {
			return token.Config{}, s.reject("configure", err)
		}
		next.estimate = &est
	}
	if s.cur.pool != nil {
		if s.cur.pool.ReserveA > cfg.BaseUnitSupply() {
			return token.Config{}, s.reject("configure", &cpmm.PoolError{
				Op:  "configure",
				Err: cpmm.ErrSeedExceedsSupply,
			})
		}
		// цена пула зависит от decimals токена
		pool := s.cur.pool.WithDecimals(cfg.Decimals)
		next.pool = &pool
	}
	s.commit(next)

	s.logger.Info("Token configured",
		zap.String("symbol", cfg.Symbol),
		zap.Uint8("decimals", cfg.Decimals),
		zap.Uint64("supply", cfg.TotalSupply))
	return cfg, nil
}

// Revoke burns an authority. Revoking twice succeeds without a new history entry.
func (s *Session) Revoke(f authority.Flag) (authority.Flags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.cur.flags.Revoke(f)
	if err != nil {
		return s.cur.flags, s.reject("revoke", err)
	}
	if flags == s.cur.flags {
		return flags, nil
	}

	next := s.cur
	next.flags = flags
	s.commit(next)

	s.logger.Info("Authority revoked", zap.Stringer("flag", f))
	return flags, nil
}

// Enable fails for a revoked authority; enabling an enabled one is a no-op.
func (s *Session) Enable(f authority.Flag) (authority.Flags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags, err := s.cur.flags.Enable(f)
	if err != nil {
		return s.cur.flags, s.reject("enable", err)
	}
	return flags, nil
}

// EstimateFee converts a fixed lamport fee at the given SOL exchange rate.
func (s *Session) EstimateFee(lamports uint64, rate decimal.Decimal) (fee.Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.config == nil {
		return fee.Estimate{}, s.reject("estimate", ErrNotConfigured)
	}
	est, err := s.estimator.Estimate(*s.cur.config, lamports, rate)
	if err != nil {
		return fee.Estimate{}, s.reject("estimate", err)
	}

	next := s.cur
	next.estimate = &est
	next.launch = nil
	s.commit(next)

	s.logger.Info("Fee estimated",
		zap.String("native", est.Native.String()),
		zap.String("fiat", est.FiatString()))
	return est, nil
}

// EstimateLaunch планирует транзакции запуска токена с учётом отозванных
// полномочий и оценивает их стоимость
func (s *Session) EstimateLaunch(priority fee.PriorityLevel, rate decimal.Decimal) (fee.Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.config == nil {
		return fee.Estimate{}, s.reject("estimate", ErrNotConfigured)
	}
	plan := fee.LaunchPlan(*s.cur.config, s.cur.flags.Revoked(), priority)
	breakdown, err := s.planner.Lamports(plan)
	if err != nil {
		return fee.Estimate{}, s.reject("estimate", err)
	}
	est, err := s.estimator.Estimate(*s.cur.config, breakdown.Total, rate)
	if err != nil {
		return fee.Estimate{}, s.reject("estimate", err)
	}

	next := s.cur
	next.estimate = &est
	next.launch = &breakdown
	s.commit(next)

	s.logger.Info("Fee estimated",
		zap.String("native", est.Native.String()),
		zap.String("fiat", est.FiatString()),
		zap.Int("transactions", len(breakdown.Steps)))
	return est, nil
}

// SeedPool создаёт пул токен/SOL; предыдущий пул отбрасывается
func (s *Session) SeedPool(seedA, seedB uint64) (cpmm.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.config == nil {
		return cpmm.Pool{}, s.reject("seed", ErrNotConfigured)
	}
	pool, err := s.sim.InitializeForToken(*s.cur.config, seedA, seedB)
	if err != nil {
		return cpmm.Pool{}, s.reject("seed", err)
	}

	next := s.cur
	next.pool = &pool
	next.lastSwap = nil
	s.commit(next)

	s.logger.Info("Pool seeded",
		zap.Uint64("reserve_a", pool.ReserveA),
		zap.Uint64("reserve_b", pool.ReserveB))
	return pool, nil
}

// Quote prices a swap against the current pool without applying it.
func (s *Session) Quote(amountIn uint64, dir cpmm.Direction) (cpmm.SwapQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.pool == nil {
		return cpmm.SwapQuote{}, ErrNoPool
	}
	return s.sim.Swap(*s.cur.pool, amountIn, dir)
}

// Swap applies a swap at the session's default fee.
func (s *Session) Swap(amountIn uint64, dir cpmm.Direction) (cpmm.SwapQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.pool == nil {
		return cpmm.SwapQuote{}, s.reject("swap", ErrNoPool)
	}
	q, err := s.sim.Swap(*s.cur.pool, amountIn, dir)
	if err != nil {
		return cpmm.SwapQuote{}, s.reject("swap", err)
	}

	next := s.cur
	pool := q.Pool
	next.pool = &pool
	next.lastSwap = &q
	s.commit(next)

	s.logger.Info("Swap simulated",
		zap.Stringer("direction", dir),
		zap.Uint64("amount_in", q.AmountIn),
		zap.Uint64("amount_out", q.AmountOut),
		zap.String("price_impact", q.PriceImpact.String()))
	return q, nil
}

// Deposit adds liquidity; the result reports the amounts the pool took,
// which may be less than offered on the side above the pool ratio.
func (s *Session) Deposit(amountA, amountB uint64) (cpmm.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.pool == nil {
		return cpmm.Contribution{}, s.reject("deposit", ErrNoPool)
	}
	c, err := s.sim.Deposit(*s.cur.pool, amountA, amountB)
	if err != nil {
		return cpmm.Contribution{}, s.reject("deposit", err)
	}

	next := s.cur
	pool := c.Pool
	next.pool = &pool
	s.commit(next)

	s.logger.Info("Liquidity deposited",
		zap.Uint64("amount_a", c.AmountA),
		zap.Uint64("amount_b", c.AmountB))
	return c, nil
}

func (s *Session) Withdraw(fraction decimal.Decimal) (cpmm.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.pool == nil {
		return cpmm.Withdrawal{}, s.reject("withdraw", ErrNoPool)
	}
	w, err := s.sim.Withdraw(*s.cur.pool, fraction)
	if err != nil {
		return cpmm.Withdrawal{}, s.reject("withdraw", err)
	}

	next := s.cur
	pool := w.Pool
	next.pool = &pool
	s.commit(next)

	s.logger.Info("Liquidity withdrawn",
		zap.String("fraction", fraction.String()),
		zap.Uint64("amount_a", w.AmountA),
		zap.Uint64("amount_b", w.AmountB))
	return w, nil
}

// Undo откатывает последнюю операцию. Отозванные полномочия остаются
// отозванными: сжигание необратимо.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return s.reject("undo", ErrNothingToUndo)
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	prev.flags = prev.flags.Merge(s.cur.flags)
	s.cur = prev
	s.updatedAt = time.Now()

	s.logger.Info("Operation undone", zap.Int("history", len(s.history)))
	return nil
}

// Reset discards the token, fee and pool snapshots and the undo history.
// Revoked authorities stay revoked for the life of the session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = snapshot{flags: s.cur.flags}
	s.history = nil
	s.updatedAt = time.Now()

	s.logger.Info("Session reset")
}

// Preview composes the current snapshots.
func (s *Session) Preview() (preview.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := s.cur.flags
	p, err := preview.Compose(preview.Input{
		Config:    s.cur.config,
		Authority: &flags,
		Fee:       s.cur.estimate,
		Launch:    s.cur.launch,
		Pool:      s.cur.pool,
		LastSwap:  s.cur.lastSwap,
		Cluster:   s.cluster,
	})
	if err != nil {
		return preview.Preview{}, err
	}
	return p, nil
}
