package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/logger"
	"github.com/rovshanmuradov/tokensim/internal/session"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

func testScenario() config.ScenarioConfig {
	return config.ScenarioConfig{
		Token: token.RawConfig{
			Name:        "Model Token",
			Symbol:      "mdl",
			Decimals:    6,
			TotalSupply: "1000000",
		},
		Fee: config.FeeConfig{
			ExchangeRate: "150",
			FiatCurrency: "USD",
			Priority:     "low",
		},
		Pool: config.PoolConfig{
			SeedA:               1_000_000,
			SeedB:               2_000_000,
			FeeBps:              30,
			DepositToleranceBps: cpmm.DefaultDepositToleranceBps,
		},
	}
}

func newModel(t *testing.T) (*Model, *logger.LogBuffer) {
	t.Helper()
	buf, err := logger.NewLogBuffer(100, "", nil)
	require.NoError(t, err)
	log, err := logger.CreateTUILoggerWithBuffer(false, buf)
	require.NoError(t, err)

	sc := testScenario()
	opts := session.DefaultOptions()
	opts.Pool = sc.Pool.Params()
	s, err := session.New(opts, log)
	require.NoError(t, err)
	_, err = s.RunScenario(context.Background(), sc)
	require.NoError(t, err)

	return NewModel(s, Options{Scenario: sc, Logs: buf, RefreshInterval: time.Hour}), buf
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press отправляет клавишу и применяет результат операции, если он есть
func press(t *testing.T, m *Model, msg tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if res, ok := cmd().(OperationMsg); ok {
		m.Update(res)
	}
}

func pool(t *testing.T, m *Model) (uint64, uint64) {
	t.Helper()
	p, ok := m.Preview()
	require.True(t, ok)
	require.NotNil(t, p.Pool)
	return p.Pool.ReserveA, p.Pool.ReserveB
}

func TestModel_RevokeAndEnable(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, keyRunes("m"))
	p, _ := m.Preview()
	assert.Equal(t, "revoked", p.Authority["mint"])
	status, isErr := m.Status()
	assert.False(t, isErr)
	assert.Contains(t, status, "mint authority revoked")

	press(t, m, keyRunes("M"))
	status, isErr = m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "authority")
	p, _ = m.Preview()
	assert.Equal(t, "revoked", p.Authority["mint"])

	press(t, m, keyRunes("F"))
	_, isErr = m.Status()
	assert.False(t, isErr)
}

func TestModel_SwapAndUndo(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, keyRunes("s"))
	a, b := pool(t, m)
	assert.Equal(t, uint64(1_010_000), a)
	assert.Equal(t, uint64(1_980_257), b)
	require.NotNil(t, m.delta)
	assert.Equal(t, "-19743", m.delta.ReserveB.String())

	press(t, m, keyRunes("z"))
	a, b = pool(t, m)
	assert.Equal(t, uint64(1_000_000), a)
	assert.Equal(t, uint64(2_000_000), b)

	press(t, m, keyRunes("b"))
	a, _ = pool(t, m)
	assert.Less(t, a, uint64(1_000_000))
}

func TestModel_DepositWithdraw(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, keyRunes("d"))
	status, isErr := m.Status()
	require.False(t, isErr, status)
	assert.Equal(t, "deposited 10000 A + 20000 B", status)
	p, _ := m.Preview()
	assert.NotEqual(t, "0", p.Pool.PositionShares)

	press(t, m, keyRunes("W"))
	status, _ = m.Status()
	assert.Equal(t, "withdrew 10000 A + 20000 B", status)

	press(t, m, keyRunes("w"))
	_, isErr = m.Status()
	assert.True(t, isErr)
}

func TestModel_WithdrawHalf(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, keyRunes("d"))
	p, _ := m.Preview()
	assert.Equal(t, "14142130000000", p.Pool.PositionShares)

	// ровно половина позиции: 1/202 от резервов 1_010_000 / 2_020_000
	press(t, m, keyRunes("w"))
	status, isErr := m.Status()
	require.False(t, isErr, status)
	assert.Equal(t, "withdrew 5000 A + 10000 B", status)
	p, _ = m.Preview()
	assert.Equal(t, "7071065000000", p.Pool.PositionShares)

	press(t, m, keyRunes("W"))
	status, _ = m.Status()
	assert.Equal(t, "withdrew 5000 A + 10000 B", status)
}

func TestModel_EditAmount(t *testing.T) {
	m, _ := newModel(t)

	m.Update(keyRunes("a"))
	assert.True(t, m.editing)
	for i := 0; i < len("10000"); i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m.Update(keyRunes("500"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.editing)
	assert.Equal(t, uint64(500), m.Amount())

	// esc отменяет ввод
	m.Update(keyRunes("a"))
	m.Update(keyRunes("7"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, uint64(500), m.Amount())

	// while editing, action keys go to the input
	m.Update(keyRunes("a"))
	m.Update(keyRunes("s"))
	assert.True(t, m.editing)
	a, _ := pool(t, m)
	assert.Equal(t, uint64(1_000_000), a)
}

func TestModel_Reset(t *testing.T) {
	m, _ := newModel(t)

	press(t, m, keyRunes("m"))
	press(t, m, keyRunes("s"))
	press(t, m, keyRunes("r"))

	status, isErr := m.Status()
	require.False(t, isErr, status)
	a, _ := pool(t, m)
	assert.Equal(t, uint64(1_000_000), a)
	p, _ := m.Preview()
	assert.Equal(t, "revoked", p.Authority["mint"])
	assert.Nil(t, p.LastSwap)
}

func TestModel_Estimate(t *testing.T) {
	m, _ := newModel(t)
	press(t, m, keyRunes("u"))
	press(t, m, keyRunes("e"))

	status, isErr := m.Status()
	require.False(t, isErr, status)
	assert.True(t, strings.HasPrefix(status, "fee "))
	p, _ := m.Preview()
	require.NotNil(t, p.Launch)
	assert.Equal(t, "revoke-update", p.Launch.Steps[len(p.Launch.Steps)-1].Name)
}

func TestModel_View(t *testing.T) {
	m, _ := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})

	press(t, m, keyRunes("s"))
	_, cmd := m.Update(LogTickMsg(time.Now()))
	assert.NotNil(t, cmd)

	view := m.View()
	for _, want := range []string{"tokensim", "Authorities", "Pool", "Changes", "Activity", "Swap simulated", "sell"} {
		assert.Contains(t, view, want)
	}

	press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.NotContains(t, m.View(), "Activity")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMatchingB(t *testing.T) {
	p, err := mustSimulator(t).Initialize(1_000_000, 1_980_257, 6, cpmm.QuoteDecimals)
	require.NoError(t, err)
	assert.Equal(t, uint64(19_803), matchingB(p, 10_000))
	assert.Zero(t, matchingB(cpmm.Pool{}, 10_000))
}

func mustSimulator(t *testing.T) *cpmm.Simulator {
	t.Helper()
	sim, err := cpmm.NewSimulator(cpmm.DefaultParams(), nil)
	require.NoError(t, err)
	return sim
}
