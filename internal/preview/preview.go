// internal/preview/preview.go
// Package preview собирает итоговый снимок токена, полномочий, комиссий и пула.
// Preview только для чтения: при любом изменении строится заново.
package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

var ErrIncompletePreview = errors.New("incomplete preview")

// batchLimit ограничивает число одновременно собираемых превью
const batchLimit = 8

// Input collects the sub-results. Config, Authority and Fee are required.
type Input struct {
	Config    *token.Config
	Authority *authority.Flags
	Fee       *fee.Estimate
	Launch    *fee.Breakdown
	Pool      *cpmm.Pool
	LastSwap  *cpmm.SwapQuote
	Cluster   string
}

// PoolView - отображаемое состояние пула
type PoolView struct {
	ReserveA         uint64          `json:"reserve_a" yaml:"reserve_a"`
	ReserveB         uint64          `json:"reserve_b" yaml:"reserve_b"`
	DecimalsA        uint8           `json:"decimals_a" yaml:"decimals_a"`
	DecimalsB        uint8           `json:"decimals_b" yaml:"decimals_b"`
	K                string          `json:"k" yaml:"k"`
	Price            decimal.Decimal `json:"price" yaml:"price"`
	TotalShares      string          `json:"total_shares" yaml:"total_shares"`
	PositionShares   string          `json:"position_shares" yaml:"position_shares"`
	PositionFraction decimal.Decimal `json:"position_fraction" yaml:"position_fraction"`
}

// SwapView - итог последнего свапа
type SwapView struct {
	Direction      string          `json:"direction" yaml:"direction"`
	AmountIn       uint64          `json:"amount_in" yaml:"amount_in"`
	FeeBps         uint16          `json:"fee_bps" yaml:"fee_bps"`
	FeeAmount      uint64          `json:"fee_amount" yaml:"fee_amount"`
	AmountOut      uint64          `json:"amount_out" yaml:"amount_out"`
	ExecutionPrice decimal.Decimal `json:"execution_price" yaml:"execution_price"`
	PriceImpact    decimal.Decimal `json:"price_impact_percent" yaml:"price_impact_percent"`
}

// Preview is the composite before/after view.
type Preview struct {
	Cluster         string            `json:"cluster,omitempty" yaml:"cluster,omitempty"`
	Token           token.Config      `json:"token" yaml:"token"`
	Mint            string            `json:"mint,omitempty" yaml:"mint,omitempty"`
	MetadataAddress string            `json:"metadata_address,omitempty" yaml:"metadata_address,omitempty"`
	BaseUnitSupply  uint64            `json:"base_unit_supply" yaml:"base_unit_supply"`
	Authority       map[string]string `json:"authority" yaml:"authority"`
	Decentralized   bool              `json:"decentralized" yaml:"decentralized"`
	Fee             fee.Estimate      `json:"fee" yaml:"fee"`
	Launch          *fee.Breakdown    `json:"launch,omitempty" yaml:"launch,omitempty"`
	Pool            *PoolView         `json:"pool,omitempty" yaml:"pool,omitempty"`
	LastSwap        *SwapView         `json:"last_swap,omitempty" yaml:"last_swap,omitempty"`
}

// Compose aggregates the inputs. Missing required parts signal a caller
// defect, not a user error.
func Compose(in Input) (Preview, error) {
	var missing []string
	if in.Config == nil {
		missing = append(missing, "token config")
	}
	if in.Authority == nil {
		missing = append(missing, "authority flags")
	}
	if in.Fee == nil {
		missing = append(missing, "fee estimate")
	}
	if len(missing) > 0 {
		return Preview{}, fmt.Errorf("%w: missing %v", ErrIncompletePreview, missing)
	}

	cfg := *in.Config
	if cfg.Socials != nil {
		socials := make(map[string]string, len(cfg.Socials))
		for k, v := range cfg.Socials {
			socials[k] = v
		}
		cfg.Socials = socials
	}

	p := Preview{
		Cluster:        in.Cluster,
		Token:          cfg,
		BaseUnitSupply: cfg.BaseUnitSupply(),
		Authority:      in.Authority.Map(),
		Decentralized:  in.Authority.Decentralized(),
		Fee:            *in.Fee,
	}
	if mint, ok := cfg.Mint(); ok {
		p.Mint = mint.String()
		if addr, err := cfg.MetadataAddress(); err == nil {
			p.MetadataAddress = addr.String()
		}
	}
	if in.Launch != nil {
		launch := *in.Launch
		launch.Steps = append([]fee.Step(nil), in.Launch.Steps...)
		p.Launch = &launch
	}
	if in.Pool != nil {
		p.Pool = poolView(*in.Pool)
	}
	if in.LastSwap != nil {
		p.LastSwap = swapView(*in.LastSwap)
	}
	return p, nil
}

// ComposeBatch собирает несколько независимых превью параллельно.
// Порядок результатов совпадает с порядком входов.
func ComposeBatch(ctx context.Context, inputs []Input) ([]Preview, error) {
	out := make([]Preview, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Compose(inputs[i])
			if err != nil {
				return fmt.Errorf("preview %d: %w", i, err)
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func poolView(pool cpmm.Pool) *PoolView {
	return &PoolView{
		ReserveA:         pool.ReserveA,
		ReserveB:         pool.ReserveB,
		DecimalsA:        pool.DecimalsA,
		DecimalsB:        pool.DecimalsB,
		K:                pool.K().Dec(),
		Price:            pool.Price(),
		TotalShares:      pool.TotalShares().Dec(),
		PositionShares:   pool.PositionShares().Dec(),
		PositionFraction: pool.PositionFraction(),
	}
}

func swapView(q cpmm.SwapQuote) *SwapView {
	return &SwapView{
		Direction:      q.Direction.String(),
		AmountIn:       q.AmountIn,
		FeeBps:         q.FeeBps,
		FeeAmount:      q.FeeAmount,
		AmountOut:      q.AmountOut,
		ExecutionPrice: q.ExecutionPrice,
		PriceImpact:    q.PriceImpact,
	}
}
