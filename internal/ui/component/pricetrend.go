package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/tokensim/internal/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PriceTrend is a sparkline of pool prices after each committed operation
type PriceTrend struct {
	data  []decimal.Decimal
	width int
}

func NewPriceTrend(width int) *PriceTrend {
	if width < 1 {
		width = 1
	}
	return &PriceTrend{width: width}
}

// Push adds a price; only the last width points are kept. Repeating the
// last price is ignored.
func (t *PriceTrend) Push(price decimal.Decimal) {
	if n := len(t.data); n > 0 && t.data[n-1].Equal(price) {
		return
	}
	t.data = append(t.data, price)
	if len(t.data) > t.width {
		t.data = t.data[len(t.data)-t.width:]
	}
}

func (t *PriceTrend) Len() int { return len(t.data) }

func (t *PriceTrend) Clear() { t.data = nil }

// Change returns the percent change from the first to the last point, 2 dp
func (t *PriceTrend) Change() decimal.Decimal {
	if len(t.data) < 2 || t.data[0].IsZero() {
		return decimal.Zero
	}
	first, last := t.data[0], t.data[len(t.data)-1]
	return last.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).Round(2)
}

// Sparkline renders the raw spark characters without styling
func (t *PriceTrend) Sparkline() string {
	if len(t.data) == 0 {
		return ""
	}
	lo, hi := t.data[0], t.data[0]
	for _, v := range t.data {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
	}
	if lo.Equal(hi) {
		return strings.Repeat(string(sparkChars[3]), len(t.data))
	}

	top := decimal.NewFromInt(int64(len(sparkChars) - 1))
	span := hi.Sub(lo)
	var b strings.Builder
	for _, v := range t.data {
		idx := int(v.Sub(lo).Div(span).Mul(top).Round(0).IntPart())
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// View renders the sparkline with the overall change
func (t *PriceTrend) View() string {
	if len(t.data) < 2 {
		return style.MutedStyle.Render("price history appears after the first trade")
	}
	change := t.Change()
	line := lipgloss.NewStyle().Foreground(style.DefaultPalette().Primary).Render(t.Sparkline())

	label := style.MutedStyle.Render("→ " + change.StringFixed(2) + "%")
	switch {
	case change.IsPositive():
		label = style.IncreaseStyle.Render("↗ +" + change.StringFixed(2) + "%")
	case change.IsNegative():
		label = style.DecreaseStyle.Render("↘ " + change.StringFixed(2) + "%")
	}
	return line + " " + label
}
