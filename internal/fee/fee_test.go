package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

func testConfig(t *testing.T) token.Config {
	t.Helper()
	cfg, err := token.Validate(token.RawConfig{
		Name:        "Fee Token",
		Symbol:      "fee",
		Decimals:    6,
		TotalSupply: "1000000",
	})
	require.NoError(t, err)
	return cfg
}

func newEstimator(t *testing.T) *Estimator {
	t.Helper()
	e, err := NewEstimator(DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestEstimate_Conversion(t *testing.T) {
	e := newEstimator(t)
	cfg := testConfig(t)

	est, err := e.Estimate(cfg, 9_142_600, decimal.RequireFromString("150"))
	require.NoError(t, err)

	assert.Equal(t, "FEE", est.Token)
	assert.Equal(t, uint64(9_142_600), est.Lamports)
	assert.True(t, decimal.RequireFromString("0.009143").Equal(est.Native), est.Native.String())
	// 0.0091426 * 150 = 1.37139
	assert.True(t, decimal.RequireFromString("1.37").Equal(est.Fiat), est.Fiat.String())
	assert.Equal(t, "0.009143 SOL", est.NativeString())
	assert.Equal(t, "1.37 USD", est.FiatString())
}

func TestEstimate_RoundHalfToEven(t *testing.T) {
	e := newEstimator(t)
	cfg := testConfig(t)

	tests := []struct {
		lamports   uint64
		rate       string
		wantNative string
		wantFiat   string
	}{
		{125_000_000, "1", "0.125", "0.12"},
		{45_000_000, "3", "0.045", "0.14"},
		{2_500, "1", "0.000002", "0"},
		{3_500, "1", "0.000004", "0"},
		{0, "200", "0", "0"},
	}
	for _, tt := range tests {
		est, err := e.Estimate(cfg, tt.lamports, decimal.RequireFromString(tt.rate))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tt.wantNative).Equal(est.Native),
			"lamports=%d native=%s", tt.lamports, est.Native)
		assert.True(t, decimal.RequireFromString(tt.wantFiat).Equal(est.Fiat),
			"lamports=%d fiat=%s", tt.lamports, est.Fiat)
	}
}

func TestEstimate_FiatFromExactNative(t *testing.T) {
	// 1 lamport at a huge rate: rounding native first would lose the value
	e := newEstimator(t)
	est, err := e.Estimate(testConfig(t), 1, decimal.RequireFromString("1000000"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0").Equal(est.Native))
	assert.True(t, est.Fiat.IsZero(), est.Fiat.String())

	est, err = e.Estimate(testConfig(t), 10, decimal.RequireFromString("1000000"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.01").Equal(est.Fiat), est.Fiat.String())
}

func TestEstimate_InvalidRate(t *testing.T) {
	e := newEstimator(t)
	for _, rate := range []string{"0", "-1.5"} {
		_, err := e.Estimate(testConfig(t), 5000, decimal.RequireFromString(rate))
		assert.ErrorIs(t, err, ErrInvalidExchangeRate)
	}
}

func TestNewEstimator_Options(t *testing.T) {
	_, err := NewEstimator(Options{NativePrecision: -1}, nil)
	assert.ErrorIs(t, err, ErrInvalidPrecision)

	e, err := NewEstimator(Options{NativePrecision: 9, FiatPrecision: 4, FiatCurrency: "EUR"}, nil)
	require.NoError(t, err)
	est, err := e.Estimate(testConfig(t), 1, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.Equal(t, "0.000000001 SOL", est.NativeString())
	assert.Equal(t, "0.0000 EUR", est.FiatString())
}

func TestRentExempt(t *testing.T) {
	assert.Equal(t, uint64(1_461_600), RentExempt(MintAccountSize))
	assert.Equal(t, uint64(2_039_280), RentExempt(TokenAccountSize))
	assert.Equal(t, uint64(5_616_720), RentExempt(MetadataAccountSize))
}

func TestPlanner_LaunchPlan(t *testing.T) {
	p := NewPlanner(zap.NewNop())
	cfg := testConfig(t)

	b, err := p.Lamports(LaunchPlan(cfg, nil, PriorityNone))
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), b.BaseFee)
	assert.Equal(t, uint64(0), b.PriorityFee)
	assert.Equal(t, uint64(9_117_600), b.Rent)
	assert.Equal(t, uint64(9_142_600), b.Total)
	assert.Len(t, b.Steps, 4)

	revoked := []authority.Flag{authority.Mint, authority.Freeze}
	b, err = p.Lamports(LaunchPlan(cfg, revoked, PriorityLow))
	require.NoError(t, err)
	assert.Equal(t, uint64(35_000), b.BaseFee)
	assert.Equal(t, uint64(1_200), b.PriorityFee)
	assert.Equal(t, uint64(9_153_800), b.Total)
	assert.Equal(t, "revoke-freeze", b.Steps[5].Name)
}

func TestPlanner_Priority(t *testing.T) {
	p := NewPlanner(nil)

	prof, err := p.Profile(PriorityExtreme)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), prof.Lamports())

	_, err = p.Profile("ludicrous")
	require.Error(t, err)

	// 1 CU at 1 micro-lamport rounds up to a whole lamport
	assert.Equal(t, uint64(1), PriorityConfig{ComputeUnits: 1, PriorityFee: 1}.Lamports())

	b, err := p.Lamports(Plan{
		Steps:  []Step{{Name: "custom", Signatures: 1}},
		Custom: &PriorityConfig{ComputeUnits: 300_000, PriorityFee: 2_500},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(750), b.PriorityFee)
	assert.Equal(t, uint64(5_750), b.Total)

	_, err = p.Lamports(Plan{Steps: []Step{{Name: "unsigned"}}})
	require.Error(t, err)
}
