// internal/preview/render.go
package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/tokensim/internal/authority"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/style"
)

// Форматы вывода
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

var (
	hundred = decimal.NewFromInt(100)
	// highImpact - порог предупреждения о влиянии на цену, %
	highImpact = decimal.NewFromInt(5)
)

// Encode пишет превью в выбранном формате
func Encode(w io.Writer, p Preview, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return Render(w, p)
	default:
		return EncodeData(w, p, format)
	}
}

// EncodeData writes any value as json or yaml; text is not supported here.
func EncodeData(w io.Writer, v interface{}, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Render writes the lipgloss text view.
func Render(w io.Writer, p Preview) error {
	_, err := io.WriteString(w, View(p)+"\n")
	return err
}

// View builds the text view; the TUI embeds it directly.
func View(p Preview) string {
	sections := []string{tokenSection(p), authoritySection(p), feeSection(p)}
	if p.Pool != nil {
		sections = append(sections, poolSection(*p.Pool))
	}
	if p.LastSwap != nil {
		sections = append(sections, swapSection(*p.LastSwap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ViewDelta - краткая сводка изменений для TUI и CLI
func ViewDelta(d Delta) string {
	var rows []string
	if d.TokenChanged {
		rows = append(rows, row("Token", style.WarningStyle.Render("changed")))
	}
	if len(d.RevokedNow) > 0 {
		rows = append(rows, row("Revoked", style.RevokedStyle.Render(strings.Join(d.RevokedNow, ", "))))
	}
	if d.PoolChanged {
		rows = append(rows,
			row("Δ Reserve A", signed(d.ReserveA.String())),
			row("Δ Reserve B", signed(d.ReserveB.String())),
			row("Δ Price", signed(d.PriceChange.String())+"%"),
		)
	}
	if len(rows) == 0 {
		return style.MutedStyle.Render("no changes")
	}
	return section("Changes", rows...)
}

func tokenSection(p Preview) string {
	t := p.Token
	rows := []string{
		row("Name", t.Name),
		row("Symbol", t.Symbol),
		row("Decimals", fmt.Sprintf("%d", t.Decimals)),
		row("Supply", fmt.Sprintf("%d (%d base units)", t.TotalSupply, p.BaseUnitSupply)),
	}
	if t.Description != "" {
		rows = append(rows, row("Description", t.Description))
	}
	if t.LogoURI != "" {
		rows = append(rows, row("Logo", t.LogoURI))
	}
	labels := make([]string, 0, len(t.Socials))
	for k := range t.Socials {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, k := range labels {
		rows = append(rows, row(capitalize(k), t.Socials[k]))
	}
	if p.Mint != "" {
		rows = append(rows, row("Mint", p.Mint))
	}
	if p.MetadataAddress != "" {
		rows = append(rows, row("Metadata", p.MetadataAddress))
	}
	if p.Cluster != "" {
		rows = append(rows, row("Cluster", p.Cluster))
	}
	return section("Token", rows...)
}

func authoritySection(p Preview) string {
	rows := make([]string, 0, len(authority.All)+1)
	for _, f := range authority.All {
		state := p.Authority[f.String()]
		rendered := style.EnabledStyle.Render(state)
		if state == authority.Revoked.String() {
			rendered = style.RevokedStyle.Render(state)
		}
		rows = append(rows, row(f.String(), rendered))
	}
	if p.Decentralized {
		rows = append(rows, style.SuccessStyle.Render("fully decentralized"))
	}
	return section("Authorities", rows...)
}

func feeSection(p Preview) string {
	rows := []string{
		row("Network fee", p.Fee.NativeString()),
		row("Fiat", p.Fee.FiatString()),
		row("Rate", fmt.Sprintf("1 %s = %s %s", fee.NativeSymbol, p.Fee.ExchangeRate.String(), p.Fee.FiatCurrency)),
	}
	if p.Launch != nil {
		for _, s := range p.Launch.Steps {
			rows = append(rows, style.MutedStyle.Render("  · "+s.Name))
		}
		rows = append(rows,
			row("Base fee", fmt.Sprintf("%d lamports", p.Launch.BaseFee)),
			row("Priority fee", fmt.Sprintf("%d lamports", p.Launch.PriorityFee)),
			row("Rent", fmt.Sprintf("%d lamports", p.Launch.Rent)),
		)
	}
	return section("Fees", rows...)
}

func poolSection(v PoolView) string {
	rows := []string{
		row("Reserve A", fmt.Sprintf("%d", v.ReserveA)),
		row("Reserve B", fmt.Sprintf("%d", v.ReserveB)),
		row("k", v.K),
		row("Price", v.Price.StringFixedBank(int32(v.DecimalsB))+" "+fee.NativeSymbol),
	}
	if v.PositionShares != "0" {
		rows = append(rows, row("Position", v.PositionFraction.Mul(hundred).StringFixedBank(4)+"%"))
	}
	return section("Pool", rows...)
}

func swapSection(v SwapView) string {
	impact := style.InfoStyle.Render(v.PriceImpact.StringFixed(4) + "%")
	if v.PriceImpact.GreaterThan(highImpact) {
		impact = style.WarningStyle.Render(v.PriceImpact.StringFixed(4) + "%")
	}
	return section("Last swap",
		row("Direction", v.Direction),
		row("Amount in", fmt.Sprintf("%d (fee %d)", v.AmountIn, v.FeeAmount)),
		row("Amount out", fmt.Sprintf("%d", v.AmountOut)),
		row("Price impact", impact),
	)
}

func section(title string, rows ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return style.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, style.TitleStyle.Render(title), body))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, style.LabelStyle.Render(label), style.ValueStyle.Render(value))
}

func signed(v string) string {
	switch {
	case strings.HasPrefix(v, "-"):
		return style.DecreaseStyle.Render(v)
	case v == "0":
		return style.MutedStyle.Render(v)
	default:
		return style.IncreaseStyle.Render("+" + v)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
