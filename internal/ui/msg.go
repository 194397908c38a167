package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Tea message types for UI communication

// OperationMsg reports the result of a session operation
type OperationMsg struct {
	Op      Operation
	Summary string
	Err     error
}

// LogTickMsg triggers a log pane refresh
type LogTickMsg time.Time

// logTick schedules the next LogTickMsg
func logTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return LogTickMsg(t)
	})
}

// Operation identifies a simulator action bound to a key
type Operation int

const (
	OpNone Operation = iota
	OpRevoke
	OpEnable
	OpSell
	OpBuy
	OpDeposit
	OpWithdraw
	OpEstimate
	OpUndo
	OpReset
)

// String returns the string representation of the operation
func (o Operation) String() string {
	switch o {
	case OpRevoke:
		return "revoke"
	case OpEnable:
		return "enable"
	case OpSell:
		return "sell"
	case OpBuy:
		return "buy"
	case OpDeposit:
		return "deposit"
	case OpWithdraw:
		return "withdraw"
	case OpEstimate:
		return "estimate"
	case OpUndo:
		return "undo"
	case OpReset:
		return "reset"
	default:
		return "none"
	}
}
