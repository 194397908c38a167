// internal/session/scenario.go
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/preview"
)

// ScenarioResult holds the preview after setup and after all steps.
type ScenarioResult struct {
	Before preview.Preview `json:"before" yaml:"before"`
	After  preview.Preview `json:"after" yaml:"after"`
	Delta  preview.Delta   `json:"delta" yaml:"delta"`
	Steps  int             `json:"steps" yaml:"steps"`
}

// StepError указывает на шаг сценария, который не удалось применить
type StepError struct {
	Index  int
	Action string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Apply выполняет один шаг сценария
func (s *Session) Apply(ctx context.Context, step config.Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch strings.ToLower(step.Action) {
	case config.ActionSwap:
		dir, err := cpmm.ParseDirection(step.Direction)
		if err != nil {
			return err
		}
		_, err = s.Swap(step.Amount, dir)
		return err

	case config.ActionDeposit:
		_, err := s.Deposit(step.AmountA, step.AmountB)
		return err

	case config.ActionWithdraw:
		fraction, err := decimal.NewFromString(strings.TrimSpace(step.Fraction))
		if err != nil {
			return &cpmm.PoolError{Op: "withdraw", Err: cpmm.ErrInvalidShare}
		}
		_, err = s.Withdraw(fraction)
		return err

	case config.ActionRevoke:
		f, err := authority.ParseFlag(step.Authority)
		if err != nil {
			return err
		}
		_, err = s.Revoke(f)
		return err

	case config.ActionEnable:
		f, err := authority.ParseFlag(step.Authority)
		if err != nil {
			return err
		}
		_, err = s.Enable(f)
		return err

	case config.ActionUndo:
		return s.Undo()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, step.Action)
	}
}

// RunScenario настраивает токен, отзывает полномочия, оценивает комиссию,
// создаёт пул и затем применяет шаги. Первая ошибка прерывает сценарий.
func (s *Session) RunScenario(ctx context.Context, sc config.ScenarioConfig) (ScenarioResult, error) {
	if _, err := s.Configure(sc.Token); err != nil {
		return ScenarioResult{}, err
	}

	for _, name := range sc.Revoke {
		f, err := authority.ParseFlag(name)
		if err != nil {
			return ScenarioResult{}, err
		}
		if _, err := s.Revoke(f); err != nil {
			return ScenarioResult{}, err
		}
	}

	rate, err := sc.Fee.Rate()
	if err != nil {
		return ScenarioResult{}, &fee.Error{Op: "estimate", Err: fmt.Errorf("invalid exchange rate %q: %w", sc.Fee.ExchangeRate, err)}
	}
	if sc.Fee.Lamports > 0 {
		_, err = s.EstimateFee(sc.Fee.Lamports, rate)
	} else {
		_, err = s.EstimateLaunch(fee.PriorityLevel(sc.Fee.Priority), rate)
	}
	if err != nil {
		return ScenarioResult{}, err
	}

	if sc.Pool.Enabled() {
		if _, err := s.SeedPool(sc.Pool.SeedA, sc.Pool.SeedB); err != nil {
			return ScenarioResult{}, err
		}
	}

	before, err := s.Preview()
	if err != nil {
		return ScenarioResult{}, err
	}

	for i, step := range sc.Steps {
		if err := s.Apply(ctx, step); err != nil {
			return ScenarioResult{}, &StepError{Index: i + 1, Action: step.Action, Err: err}
		}
	}

	after, err := s.Preview()
	if err != nil {
		return ScenarioResult{}, err
	}

	s.logger.Info("Scenario completed", zap.Int("steps", len(sc.Steps)))
	return ScenarioResult{
		Before: before,
		After:  after,
		Delta:  preview.Compare(before, after),
		Steps:  len(sc.Steps),
	}, nil
}
