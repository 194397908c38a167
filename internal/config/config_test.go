package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
)

const scenarioYAML = `
app:
  debug_logging: true
  output: JSON
network:
  name: devnet
scenario:
  token:
    name: Demo Token
    symbol: demo
    total_supply: "1000000"
    decimals: 6
    socials:
      website: https://demo.example
  revoke: [mint, Freeze]
  fee:
    priority: low
    exchange_rate: "150.25"
  pool:
    seed_a: 1000000
    seed_b: 2000000
  steps:
    - action: swap
      direction: a_to_b
      amount: 10000
    - action: deposit
      amount_a: 10000
      amount_b: 20000
    - action: withdraw
      fraction: "0.5"
    - action: revoke
      authority: update
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Scenario(t *testing.T) {
	cfg, err := Load(writeConfig(t, "scenario.yaml", scenarioYAML))
	require.NoError(t, err)

	assert.True(t, cfg.App.DebugLogging)
	assert.Equal(t, "json", cfg.App.Output)
	assert.Equal(t, rpc.DevNet_RPC, cfg.Network.Endpoint())

	tok := cfg.Scenario.Token
	assert.Equal(t, "Demo Token", tok.Name)
	assert.Equal(t, "1000000", tok.TotalSupply)
	assert.Equal(t, 6, tok.Decimals)
	assert.Equal(t, "https://demo.example", tok.Socials["website"])
	assert.Equal(t, []string{"mint", "freeze"}, cfg.Scenario.Revoke)

	rate, err := cfg.Scenario.Fee.Rate()
	require.NoError(t, err)
	assert.Equal(t, "150.25", rate.String())
	assert.Equal(t, "USD", cfg.Scenario.Fee.Options().FiatCurrency)

	// значения пула по умолчанию
	assert.Equal(t, cpmm.DefaultParams(), cfg.Scenario.Pool.Params())
	assert.True(t, cfg.Scenario.Pool.Enabled())

	require.Len(t, cfg.Scenario.Steps, 4)
	assert.Equal(t, ActionWithdraw, cfg.Scenario.Steps[2].Action)
	assert.Equal(t, "0.5", cfg.Scenario.Steps[2].Fraction)
}

func TestLoad_SocialLabelsKeepCase(t *testing.T) {
	want := map[string]string{
		"Twitter":  "https://twitter.com/demo",
		"Telegram": "https://t.me/demo",
		"x.com":    "https://x.com/demo",
	}
	files := map[string]string{
		"scenario.yaml": `
scenario:
  token:
    name: Demo
    symbol: DEMO
    total_supply: "1"
    socials:
      Twitter: https://twitter.com/demo
      Telegram: https://t.me/demo
      x.com: https://x.com/demo
  fee:
    exchange_rate: "1"
`,
		"scenario.json": `{"scenario": {"token": {"name": "Demo", "symbol": "DEMO", "total_supply": "1",
 "socials": {"Twitter": "https://twitter.com/demo", "Telegram": "https://t.me/demo", "x.com": "https://x.com/demo"}},
 "fee": {"exchange_rate": "1"}}}`,
		"scenario.toml": `
[scenario.token]
name = "Demo"
symbol = "DEMO"
total_supply = "1"

[scenario.token.socials]
Twitter = "https://twitter.com/demo"
Telegram = "https://t.me/demo"
"x.com" = "https://x.com/demo"

[scenario.fee]
exchange_rate = "1"
`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Scenario.Token.Socials)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "min.json", `{"scenario": {"fee": {"exchange_rate": "1"}}}`))
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.App.Output)
	assert.Equal(t, NetworkMainnet, cfg.Network.Name)
	assert.Equal(t, rpc.MainNetBeta_RPC, cfg.Network.Endpoint())
	assert.Equal(t, 9, cfg.Scenario.Token.Decimals)
	assert.Equal(t, int32(6), cfg.Scenario.Fee.NativePrecision)
	assert.False(t, cfg.Scenario.Pool.Enabled())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TOKENSIM_APP_OUTPUT", "yaml")
	t.Setenv("TOKENSIM_SCENARIO_FEE_EXCHANGE_RATE", "99.5")

	cfg, err := Load(writeConfig(t, "min.yaml", "scenario:\n  token:\n    name: x\n"))
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.App.Output)
	assert.Equal(t, "99.5", cfg.Scenario.Fee.ExchangeRate)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad output", `{"app": {"output": "xml"}, "scenario": {"fee": {"exchange_rate": "1"}}}`},
		{"missing rate", `{"scenario": {"token": {"name": "x"}}}`},
		{"bad rate", `{"scenario": {"fee": {"exchange_rate": "abc"}}}`},
		{"custom without url", `{"network": {"name": "custom"}, "scenario": {"fee": {"exchange_rate": "1"}}}`},
		{"unknown authority", `{"scenario": {"revoke": ["owner"], "fee": {"exchange_rate": "1"}}}`},
		{"fee bps", `{"scenario": {"pool": {"seed_a": 1, "seed_b": 1, "fee_bps": 10000}, "fee": {"exchange_rate": "1"}}}`},
		{"half seeded", `{"scenario": {"pool": {"seed_a": 1}, "fee": {"exchange_rate": "1"}}}`},
		{"swap without amount", `{"scenario": {"pool": {"seed_a": 1, "seed_b": 1}, "fee": {"exchange_rate": "1"},
			"steps": [{"action": "swap", "direction": "buy"}]}}`},
		{"swap without pool", `{"scenario": {"fee": {"exchange_rate": "1"},
			"steps": [{"action": "swap", "direction": "buy", "amount": 5}]}}`},
		{"unknown action", `{"scenario": {"fee": {"exchange_rate": "1"}, "steps": [{"action": "mint_more"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "bad.json", tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestNetwork_Custom(t *testing.T) {
	cfg, err := Load(writeConfig(t, "custom.json",
		`{"network": {"name": "custom", "rpc_url": "http://127.0.0.1:8899"}, "scenario": {"fee": {"exchange_rate": "1"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8899", cfg.Network.Endpoint())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "text", cfg.App.Output)
	assert.Equal(t, cpmm.DefaultFeeBps, cfg.Scenario.Pool.FeeBps)
	assert.Equal(t, "USD", cfg.Scenario.Fee.FiatCurrency)
}
