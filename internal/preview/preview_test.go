package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

type fixture struct {
	cfg   token.Config
	flags authority.Flags
	est   fee.Estimate
	pool  cpmm.Pool
	sim   *cpmm.Simulator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg, err := token.Validate(token.RawConfig{
		Name:        "Preview Token",
		Symbol:      "prv",
		Decimals:    6,
		TotalSupply: "1000000",
		Socials:     map[string]string{"website": "https://prv.example"},
		MintAddress: "So11111111111111111111111111111111111111112",
	})
	require.NoError(t, err)

	estimator, err := fee.NewEstimator(fee.DefaultOptions(), nil)
	require.NoError(t, err)
	est, err := estimator.Estimate(cfg, 9_142_600, decimal.RequireFromString("150"))
	require.NoError(t, err)

	sim, err := cpmm.NewSimulator(cpmm.DefaultParams(), nil)
	require.NoError(t, err)
	pool, err := sim.InitializeForToken(cfg, 1_000_000, 2_000_000)
	require.NoError(t, err)

	return fixture{cfg: cfg, flags: authority.New(), est: est, pool: pool, sim: sim}
}

func (f fixture) input() Input {
	return Input{Config: &f.cfg, Authority: &f.flags, Fee: &f.est, Pool: &f.pool, Cluster: "devnet"}
}

func TestCompose(t *testing.T) {
	f := newFixture(t)

	p, err := Compose(f.input())
	require.NoError(t, err)

	assert.Equal(t, "PRV", p.Token.Symbol)
	assert.Equal(t, uint64(1_000_000_000_000), p.BaseUnitSupply)
	assert.Equal(t, "So11111111111111111111111111111111111111112", p.Mint)
	assert.NotEmpty(t, p.MetadataAddress)
	assert.Equal(t, "enabled", p.Authority["mint"])
	assert.False(t, p.Decentralized)
	require.NotNil(t, p.Pool)
	assert.Equal(t, "2000000000000", p.Pool.K)
	assert.Nil(t, p.LastSwap)

	// превью не разделяет карту socials с исходной конфигурацией
	p.Token.Socials["website"] = "https://evil.example"
	assert.Equal(t, "https://prv.example", f.cfg.Socials["website"])
}

func TestCompose_PoolOptional(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.Pool = nil

	p, err := Compose(in)
	require.NoError(t, err)
	assert.Nil(t, p.Pool)
}

func TestCompose_Incomplete(t *testing.T) {
	f := newFixture(t)

	for name, mutate := range map[string]func(*Input){
		"config":    func(in *Input) { in.Config = nil },
		"authority": func(in *Input) { in.Authority = nil },
		"fee":       func(in *Input) { in.Fee = nil },
	} {
		t.Run(name, func(t *testing.T) {
			in := f.input()
			mutate(&in)
			_, err := Compose(in)
			assert.ErrorIs(t, err, ErrIncompletePreview)
		})
	}
}

func TestCompare(t *testing.T) {
	f := newFixture(t)
	before, err := Compose(f.input())
	require.NoError(t, err)

	q, err := f.sim.QuoteSwap(f.pool, 10_000, cpmm.AToB, 30)
	require.NoError(t, err)
	revoked, err := f.flags.Revoke(authority.Freeze)
	require.NoError(t, err)

	in := f.input()
	in.Pool = &q.Pool
	in.LastSwap = &q
	in.Authority = &revoked
	after, err := Compose(in)
	require.NoError(t, err)

	d := Compare(before, after)
	assert.False(t, d.TokenChanged)
	assert.Equal(t, []string{"freeze"}, d.RevokedNow)
	assert.True(t, d.PoolChanged)
	assert.Equal(t, "10000", d.ReserveA.String())
	assert.Equal(t, "-19743", d.ReserveB.String())
	assert.True(t, d.PriceChange.IsNegative())
	assert.Equal(t, "2000000000000", d.KBefore)

	none := Compare(before, before)
	assert.False(t, none.PoolChanged)
	assert.Empty(t, none.RevokedNow)
	assert.Equal(t, "no changes", ViewDelta(none))
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	q, err := f.sim.QuoteSwap(f.pool, 10_000, cpmm.AToB, 30)
	require.NoError(t, err)
	flags := f.flags.RevokeAll()

	in := f.input()
	in.LastSwap = &q
	in.Authority = &flags
	p, err := Compose(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	out := buf.String()
	for _, want := range []string{"Preview Token", "PRV", "revoked", "fully decentralized",
		"0.009143 SOL", "1.37 USD", "Reserve A", "19743", "Website", "devnet"} {
		assert.Contains(t, out, want)
	}
}

func TestEncode(t *testing.T) {
	f := newFixture(t)
	p, err := Compose(f.input())
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, Encode(&js, p, FormatJSON))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "PRV", decoded["token"].(map[string]interface{})["symbol"])
	assert.Equal(t, "0.009143", decoded["fee"].(map[string]interface{})["native"])

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, p, "YAML"))
	var ydecoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &ydecoded))
	assert.Equal(t, "devnet", ydecoded["cluster"])
	assert.Equal(t, 1_000_000, ydecoded["pool"].(map[string]interface{})["reserve_a"])

	var txt bytes.Buffer
	require.NoError(t, Encode(&txt, p, ""))
	assert.Contains(t, txt.String(), "Authorities")

	assert.ErrorIs(t, Encode(&txt, p, "xml"), ErrUnknownFormat)
}

func TestEncodeData(t *testing.T) {
	rows := []struct {
		File string `json:"file" yaml:"file"`
	}{{File: "a.yaml"}, {File: "b.yaml"}}

	var js bytes.Buffer
	require.NoError(t, EncodeData(&js, rows, "JSON"))
	assert.JSONEq(t, `[{"file":"a.yaml"},{"file":"b.yaml"}]`, js.String())

	var ym bytes.Buffer
	require.NoError(t, EncodeData(&ym, rows, FormatYAML))
	assert.Equal(t, "- file: a.yaml\n- file: b.yaml\n", ym.String())

	// text только для превью
	assert.ErrorIs(t, EncodeData(&bytes.Buffer{}, rows, FormatText), ErrUnknownFormat)
}

func TestComposeBatch(t *testing.T) {
	f := newFixture(t)

	inputs := make([]Input, 20)
	for i := range inputs {
		pool, err := f.sim.Initialize(uint64(1_000+i), 2_000, 6, cpmm.QuoteDecimals)
		require.NoError(t, err)
		in := f.input()
		in.Pool = &pool
		inputs[i] = in
	}

	out, err := ComposeBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, out, len(inputs))
	for i, p := range out {
		assert.Equal(t, uint64(1_000+i), p.Pool.ReserveA)
	}

	inputs[7].Fee = nil
	_, err = ComposeBatch(context.Background(), inputs)
	assert.ErrorIs(t, err, ErrIncompletePreview)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComposeBatch(ctx, inputs[:3])
	assert.ErrorIs(t, err, context.Canceled)
}
