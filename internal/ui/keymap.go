package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the simulator
type KeyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	ToggleLogs key.Binding

	// Authorities
	RevokeMint   key.Binding
	RevokeFreeze key.Binding
	RevokeUpdate key.Binding
	EnableMint   key.Binding
	EnableFreeze key.Binding
	EnableUpdate key.Binding

	// Pool
	Sell        key.Binding
	Buy         key.Binding
	Deposit     key.Binding
	Withdraw    key.Binding
	WithdrawAll key.Binding
	EditAmount  key.Binding

	// Session
	Estimate key.Binding
	Undo     key.Binding
	Reset    key.Binding

	// Amount input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle logs"),
		),

		RevokeMint: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "revoke mint"),
		),
		RevokeFreeze: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "revoke freeze"),
		),
		RevokeUpdate: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "revoke update"),
		),
		EnableMint: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "enable mint"),
		),
		EnableFreeze: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "enable freeze"),
		),
		EnableUpdate: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "enable update"),
		),

		Sell: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sell A→B"),
		),
		Buy: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "buy B→A"),
		),
		Deposit: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "deposit"),
		),
		Withdraw: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "withdraw half"),
		),
		WithdrawAll: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "withdraw all"),
		),
		EditAmount: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "set amount"),
		),

		Estimate: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "re-estimate fee"),
		),
		Undo: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "undo"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sell, k.Buy, k.RevokeMint, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.RevokeMint, k.RevokeFreeze, k.RevokeUpdate},
		{k.EnableMint, k.EnableFreeze, k.EnableUpdate},
		{k.Sell, k.Buy, k.EditAmount},
		{k.Deposit, k.Withdraw, k.WithdrawAll},
		{k.Estimate, k.Undo, k.Reset},
		{k.ToggleLogs, k.Help, k.Quit},
	}
}

// EditingHelp is shown while the amount input is focused
func (k KeyMap) EditingHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}
