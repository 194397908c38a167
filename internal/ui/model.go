// internal/ui/model.go
// Package ui - интерактивный режим симулятора поверх session.Session.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/config"
	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/logger"
	"github.com/rovshanmuradov/tokensim/internal/preview"
	"github.com/rovshanmuradov/tokensim/internal/session"
	"github.com/rovshanmuradov/tokensim/internal/ui/component"
	"github.com/rovshanmuradov/tokensim/internal/style"
)

const (
	DefaultAmount          uint64 = 10_000
	DefaultRefreshInterval        = 500 * time.Millisecond
	logPaneHeight                 = 9
	trendWidth                    = 40
)

var half = decimal.New(5, -1)

// Options configures the interactive model
type Options struct {
	// Scenario повторно применяется (без шагов) после reset
	Scenario        config.ScenarioConfig
	Amount          uint64
	RefreshInterval time.Duration
	Logs            *logger.LogBuffer
}

// Model is the bubbletea model of the simulator
type Model struct {
	session *session.Session
	opts    Options
	keys    KeyMap
	help    help.Model
	logs    *component.LogPane
	trend   *component.PriceTrend
	input   textinput.Model
	editing bool

	amount  uint64
	current *preview.Preview
	delta   *preview.Delta

	status    string
	statusErr bool

	width  int
	height int
}

// NewModel creates the model; the session is expected to be set up already
func NewModel(s *session.Session, opts Options) *Model {
	if opts.Amount == 0 {
		opts.Amount = DefaultAmount
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}

	input := textinput.New()
	input.Placeholder = "amount in base units"
	input.CharLimit = 20
	input.Width = 24
	input.Validate = func(v string) error {
		if v == "" {
			return nil
		}
		_, err := strconv.ParseUint(v, 10, 64)
		return err
	}

	m := &Model{
		session: s,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		logs:    component.NewLogPane(opts.Logs),
		trend:   component.NewPriceTrend(trendWidth),
		input:   input,
		amount:  opts.Amount,
	}
	m.refreshPreview()
	return m
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return logTick(m.opts.RefreshInterval)
}

// Amount returns the base-unit amount used by swap and deposit keys
func (m *Model) Amount() uint64 { return m.amount }

// Status returns the last status line and whether it reports an error
func (m *Model) Status() (string, bool) { return m.status, m.statusErr }

// Preview returns the preview currently on screen
func (m *Model) Preview() (preview.Preview, bool) {
	if m.current == nil {
		return preview.Preview{}, false
	}
	return *m.current, true
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logs.SetSize(msg.Width, logPaneHeight)
		return m, nil

	case LogTickMsg:
		m.logs.Refresh()
		return m, logTick(m.opts.RefreshInterval)

	case OperationMsg:
		m.handleResult(msg)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m, m.updateInput(msg)
		}
		return m, m.handleKey(msg)
	}

	return m, m.logs.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.ToggleLogs):
		m.logs.Toggle()

	case key.Matches(msg, k.RevokeMint):
		return m.revoke(authority.Mint)
	case key.Matches(msg, k.RevokeFreeze):
		return m.revoke(authority.Freeze)
	case key.Matches(msg, k.RevokeUpdate):
		return m.revoke(authority.Update)
	case key.Matches(msg, k.EnableMint):
		return m.enable(authority.Mint)
	case key.Matches(msg, k.EnableFreeze):
		return m.enable(authority.Freeze)
	case key.Matches(msg, k.EnableUpdate):
		return m.enable(authority.Update)

	case key.Matches(msg, k.Sell):
		return m.swap(OpSell, cpmm.AToB)
	case key.Matches(msg, k.Buy):
		return m.swap(OpBuy, cpmm.BToA)
	case key.Matches(msg, k.Deposit):
		return m.deposit()
	case key.Matches(msg, k.Withdraw):
		return m.withdraw(half)
	case key.Matches(msg, k.WithdrawAll):
		return m.withdraw(decimal.NewFromInt(1))
	case key.Matches(msg, k.EditAmount):
		m.editing = true
		m.input.SetValue(strconv.FormatUint(m.amount, 10))
		m.input.CursorEnd()
		return m.input.Focus()

	case key.Matches(msg, k.Estimate):
		return m.estimate()
	case key.Matches(msg, k.Undo):
		return run(OpUndo, func() (string, error) {
			return "last operation undone", m.session.Undo()
		})
	case key.Matches(msg, k.Reset):
		return m.reset()

	default:
		return m.logs.Update(msg)
	}
	return nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return nil
	case key.Matches(msg, m.keys.Confirm):
		v, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 10, 64)
		if err != nil || v == 0 {
			m.setStatus("amount must be a positive integer", true)
			return nil
		}
		m.amount = v
		m.editing = false
		m.input.Blur()
		m.setStatus(fmt.Sprintf("amount set to %d", v), false)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// run выполняет операцию сессии как команду bubbletea
func run(op Operation, fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		summary, err := fn()
		return OperationMsg{Op: op, Summary: summary, Err: err}
	}
}

func (m *Model) revoke(f authority.Flag) tea.Cmd {
	return run(OpRevoke, func() (string, error) {
		_, err := m.session.Revoke(f)
		return fmt.Sprintf("%s authority revoked", f), err
	})
}

func (m *Model) enable(f authority.Flag) tea.Cmd {
	return run(OpEnable, func() (string, error) {
		_, err := m.session.Enable(f)
		return fmt.Sprintf("%s authority is enabled", f), err
	})
}

func (m *Model) swap(op Operation, dir cpmm.Direction) tea.Cmd {
	amount := m.amount
	return run(op, func() (string, error) {
		q, err := m.session.Swap(amount, dir)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %d in, %d out, impact %s%%",
			dir, q.AmountIn, q.AmountOut, q.PriceImpact.StringFixed(4)), nil
	})
}

// deposit вносит amount стороны A и пропорциональное количество B
func (m *Model) deposit() tea.Cmd {
	amountA := m.amount
	return run(OpDeposit, func() (string, error) {
		pool, ok := m.session.Pool()
		if !ok {
			return "", session.ErrNoPool
		}
		amountB := matchingB(pool, amountA)
		c, err := m.session.Deposit(amountA, amountB)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("deposited %d A + %d B", c.AmountA, c.AmountB), nil
	})
}

func (m *Model) withdraw(fraction decimal.Decimal) tea.Cmd {
	return run(OpWithdraw, func() (string, error) {
		w, err := m.session.Withdraw(fraction)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("withdrew %d A + %d B", w.AmountA, w.AmountB), nil
	})
}

func (m *Model) estimate() tea.Cmd {
	fc := m.opts.Scenario.Fee
	return run(OpEstimate, func() (string, error) {
		rate, err := fc.Rate()
		if err != nil {
			return "", &fee.Error{Op: "estimate", Err: err}
		}
		var est fee.Estimate
		if fc.Lamports > 0 {
			est, err = m.session.EstimateFee(fc.Lamports, rate)
		} else {
			est, err = m.session.EstimateLaunch(fee.PriorityLevel(fc.Priority), rate)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fee %s (%s)", est.NativeString(), est.FiatString()), nil
	})
}

// reset очищает сессию и заново применяет настройку сценария без шагов
func (m *Model) reset() tea.Cmd {
	setup := m.opts.Scenario
	setup.Steps = nil
	return run(OpReset, func() (string, error) {
		m.session.Reset()
		if _, err := m.session.RunScenario(context.Background(), setup); err != nil {
			return "", err
		}
		return "session reset, revoked authorities stay revoked", nil
	})
}

func (m *Model) handleResult(msg OperationMsg) {
	if msg.Err != nil {
		kind := session.Kind(msg.Err)
		m.setStatus(fmt.Sprintf("%s rejected (%s): %v", msg.Op, kind, msg.Err), true)
		m.logs.Refresh()
		return
	}
	m.setStatus(msg.Summary, false)
	m.refreshPreview()
	m.logs.Refresh()
}

// refreshPreview перестраивает превью и дельту относительно предыдущего экрана
func (m *Model) refreshPreview() {
	next, err := m.session.Preview()
	if err != nil {
		m.current = nil
		m.delta = nil
		m.setStatus(err.Error(), true)
		return
	}
	if m.current != nil {
		d := preview.Compare(*m.current, next)
		m.delta = &d
	}
	m.current = &next
	if next.Pool != nil {
		m.trend.Push(next.Pool.Price)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// View renders the model
func (m *Model) View() string {
	header := style.HeaderStyle.Render(fmt.Sprintf("tokensim · session %s", m.session.ID().String()[:8]))

	body := style.MutedStyle.Render("Nothing to preview: the session is not configured")
	if m.current != nil {
		side := []string{preview.View(*m.current)}
		if m.delta != nil {
			side = append(side, preview.ViewDelta(*m.delta))
		}
		body = style.AdaptiveJoinHorizontal(m.width, side...)
	}

	amount := style.LabelStyle.Render("Amount") + style.ValueStyle.Render(strconv.FormatUint(m.amount, 10))
	if m.editing {
		amount = style.LabelStyle.Render("Amount") + m.input.View()
	}

	status := ""
	if m.status != "" {
		if m.statusErr {
			status = style.ErrorStyle.Render("✗ " + m.status)
		} else {
			status = style.SuccessStyle.Render("✓ " + m.status)
		}
	}

	helpView := m.help.View(m.keys)
	if m.editing {
		helpView = m.help.ShortHelpView(m.keys.EditingHelp())
	}

	trend := style.LabelStyle.Render("Price trend") + m.trend.View()

	sections := []string{header, body, trend, amount}
	if status != "" {
		sections = append(sections, status)
	}
	if m.logs.IsVisible() {
		sections = append(sections, m.logs.View())
	}
	sections = append(sections, style.HelpStyle.Render(helpView))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// matchingB считает сумму B для депозита в текущем соотношении резервов, с округлением вверх
func matchingB(pool cpmm.Pool, amountA uint64) uint64 {
	if pool.ReserveA == 0 {
		return 0
	}
	b := decimal.NewFromUint64(amountA).
		Mul(decimal.NewFromUint64(pool.ReserveB)).
		Div(decimal.NewFromUint64(pool.ReserveA)).
		Ceil()
	return b.BigInt().Uint64()
}
