// internal/preview/compare.go
package preview

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/tokensim/internal/authority"
)

// Delta describes what changed between two previews
type Delta struct {
	TokenChanged bool `json:"token_changed" yaml:"token_changed"`

	// RevokedNow - полномочия, отозванные между снимками
	RevokedNow []string `json:"revoked_now,omitempty" yaml:"revoked_now,omitempty"`

	FeeLamports decimal.Decimal `json:"fee_lamports" yaml:"fee_lamports"`

	PoolChanged bool            `json:"pool_changed" yaml:"pool_changed"`
	ReserveA    decimal.Decimal `json:"reserve_a" yaml:"reserve_a"`
	ReserveB    decimal.Decimal `json:"reserve_b" yaml:"reserve_b"`
	// PriceChange в процентах относительно цены до
	PriceChange decimal.Decimal `json:"price_change_percent" yaml:"price_change_percent"`
	KBefore     string          `json:"k_before,omitempty" yaml:"k_before,omitempty"`
	KAfter      string          `json:"k_after,omitempty" yaml:"k_after,omitempty"`
}

// Compare reports the changes from before to after. A pool missing on one
// side counts as empty reserves.
func Compare(before, after Preview) Delta {
	d := Delta{
		TokenChanged: !before.Token.Equal(after.Token),
		FeeLamports: decimal.NewFromUint64(after.Fee.Lamports).
			Sub(decimal.NewFromUint64(before.Fee.Lamports)),
	}

	for name, state := range after.Authority {
		if before.Authority[name] != state && state == authority.Revoked.String() {
			d.RevokedNow = append(d.RevokedNow, name)
		}
	}
	sort.Strings(d.RevokedNow)

	var pb, pa PoolView
	if before.Pool != nil {
		pb = *before.Pool
		d.KBefore = pb.K
	}
	if after.Pool != nil {
		pa = *after.Pool
		d.KAfter = pa.K
	}
	d.ReserveA = decimal.NewFromUint64(pa.ReserveA).Sub(decimal.NewFromUint64(pb.ReserveA))
	d.ReserveB = decimal.NewFromUint64(pa.ReserveB).Sub(decimal.NewFromUint64(pb.ReserveB))
	d.PoolChanged = !d.ReserveA.IsZero() || !d.ReserveB.IsZero() ||
		pa.PositionShares != pb.PositionShares
	if !pb.Price.IsZero() {
		d.PriceChange = pa.Price.Sub(pb.Price).Div(pb.Price).
			Mul(decimal.NewFromInt(100)).
			RoundBank(4)
	}
	return d
}
