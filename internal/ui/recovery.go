package ui

import (
	"context"
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SafeModel wraps a model and recovers panics in Init, Update and View.
// Состояние сессии транзакционно, поэтому после паники модель продолжает работу.
type SafeModel struct {
	model  tea.Model
	logger *zap.Logger
	panics int
}

// NewSafeModel creates a new safe UI wrapper
func NewSafeModel(model tea.Model, logger *zap.Logger) *SafeModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SafeModel{model: model, logger: logger}
}

// Panics returns the number of recovered panics
func (sw *SafeModel) Panics() int { return sw.panics }

// Init wraps the Init method with panic recovery
func (sw *SafeModel) Init() (cmd tea.Cmd) {
	defer sw.recoverFromPanic("Init", &cmd)
	return sw.model.Init()
}

// Update wraps the Update method with panic recovery
func (sw *SafeModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	model = sw
	defer sw.recoverFromPanic("Update", &cmd)
	next, cmd := sw.model.Update(msg)
	sw.model = next
	return sw, cmd
}

// View wraps the View method with panic recovery
func (sw *SafeModel) View() (view string) {
	defer func() {
		if r := recover(); r != nil {
			sw.panics++
			sw.logger.Error("View panic recovered",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			view = "UI Error: View crashed. Press q to exit."
		}
	}()
	return sw.model.View()
}

func (sw *SafeModel) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sw.panics++
		sw.logger.Error("UI method panic recovered",
			zap.String("method", method),
			zap.Any("panic", r),
			zap.String("stack", string(debug.Stack())))
		*cmd = nil
	}
}

// Run starts the program and stops it when ctx is canceled
func Run(ctx context.Context, model tea.Model, logger *zap.Logger, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(NewSafeModel(model, logger), opts...)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}
