package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/tokensim/internal/logger"
	"github.com/rovshanmuradov/tokensim/internal/style"
)

// recentLimit - сколько записей забирать из буфера за одно обновление
const recentLimit = 50

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// LogPane renders the tail of a LogBuffer in a scrollable viewport
type LogPane struct {
	buffer   *logger.LogBuffer
	viewport viewport.Model
	filter   LogFilter
	style    logPaneStyle
	width    int
	height   int
	visible  bool
	title    string
}

type logPaneStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	entry     lipgloss.Style
	timestamp lipgloss.Style
	error     lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
	debug     lipgloss.Style
}

// NewLogPane creates a log pane over buffer; a nil buffer renders a placeholder
func NewLogPane(buffer *logger.LogBuffer) *LogPane {
	palette := style.DefaultPalette()

	return &LogPane{
		buffer:  buffer,
		visible: true,
		title:   "Activity",
		filter: LogFilter{
			ShowError:   true,
			ShowWarning: true,
			ShowInfo:    true,
		},
		style: logPaneStyle{
			container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Info).
				Padding(0, 1),
			title:     lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
			entry:     lipgloss.NewStyle().Foreground(palette.Text),
			timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
			error:     lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			warning:   lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			info:      lipgloss.NewStyle().Foreground(palette.Info),
			debug:     lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
		viewport: viewport.New(60, 6),
	}
}

// SetSize sets the component dimensions
func (p *LogPane) SetSize(width, height int) {
	p.width = width
	p.height = height

	// рамка и заголовок съедают 4 колонки и 3 строки
	vw, vh := width-4, height-3
	if vw < 10 {
		vw = 10
	}
	if vh < 2 {
		vh = 2
	}
	p.viewport.Width = vw
	p.viewport.Height = vh
	p.Refresh()
}

func (p *LogPane) SetVisible(visible bool) { p.visible = visible }

func (p *LogPane) Toggle() { p.visible = !p.visible }

func (p *LogPane) IsVisible() bool { return p.visible }

func (p *LogPane) SetFilter(filter LogFilter) {
	p.filter = filter
	p.Refresh()
}

// Update forwards scroll keys to the viewport
func (p *LogPane) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// Refresh reloads the viewport from the buffer and scrolls to the newest entry
func (p *LogPane) Refresh() {
	if p.buffer == nil {
		p.viewport.SetContent("No log buffer available")
		return
	}

	var lines []string
	for _, entry := range p.buffer.GetRecentLogs(recentLimit) {
		if p.shouldShow(entry) {
			lines = append(lines, p.format(entry))
		}
	}
	if len(lines) == 0 {
		p.viewport.SetContent(p.style.debug.Render("No activity yet"))
		return
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

func (p *LogPane) View() string {
	if !p.visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		p.style.title.Render(p.title),
		p.viewport.View(),
	)
	return p.style.container.Render(content)
}

// GetHeight returns the component height for layout calculations
func (p *LogPane) GetHeight() int {
	if !p.visible {
		return 0
	}
	return p.height
}

func (p *LogPane) shouldShow(entry logger.LogEntry) bool {
	switch strings.ToLower(entry.Level) {
	case "error":
		return p.filter.ShowError
	case "warning", "warn":
		return p.filter.ShowWarning
	case "debug":
		return p.filter.ShowDebug
	default:
		return p.filter.ShowInfo
	}
}

func (p *LogPane) format(entry logger.LogEntry) string {
	ts := p.style.timestamp.Render(entry.Timestamp.Format("15:04:05"))

	msg := entry.Message
	if reason, ok := entry.Fields["error"].(string); ok && reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}

	var styled string
	switch strings.ToLower(entry.Level) {
	case "error":
		styled = p.style.error.Render(msg)
	case "warning", "warn":
		styled = p.style.warning.Render(msg)
	case "info":
		styled = p.style.info.Render(msg)
	case "debug":
		styled = p.style.debug.Render(msg)
	default:
		styled = p.style.entry.Render(msg)
	}
	return fmt.Sprintf("%s %s", ts, styled)
}
