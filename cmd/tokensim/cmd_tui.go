package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokensim/internal/logger"
	"github.com/rovshanmuradov/tokensim/internal/ui"
)

// tuiLogBuffer - сколько записей держит панель логов
const tuiLogBuffer = 500

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Explore the scenario interactively",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var flagTUI struct {
	Amount uint64
}

func init() {
	cmdTUI.Flags().Uint64Var(&flagTUI.Amount, "amount", ui.DefaultAmount, "Base-unit amount used by the swap and deposit keys")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Логи идут только в буфер панели; вытесненные записи уходят в log_file
	buffer, err := logger.NewLogBuffer(tuiLogBuffer, cfg.App.LogFile, nil)
	if err != nil {
		return err
	}
	defer func() { _ = buffer.Close() }()

	log, err := logger.CreateTUILoggerWithBuffer(cfg.App.DebugLogging, buffer)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, cfg, log)
	if err != nil {
		return err
	}

	// Шаги сценария применяются сразу, reset вернёт состояние без них
	if _, err := s.RunScenario(cmd.Context(), cfg.Scenario); err != nil {
		log.Warn("Scenario stopped", zap.Error(err))
	}

	model := ui.NewModel(s, ui.Options{
		Scenario: cfg.Scenario,
		Amount:   flagTUI.Amount,
		Logs:     buffer,
	})
	return ui.Run(cmd.Context(), model, log, tea.WithAltScreen())
}
