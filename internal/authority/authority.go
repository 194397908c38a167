// internal/authority/authority.go
// Package authority models the mint, freeze and update authorities of a token.
// Revocation mirrors an on-chain authority burn: it cannot be undone.
package authority

import (
	"errors"
	"fmt"
	"strings"
)

// Flag identifies one authority.
type Flag uint8

const (
	Mint Flag = iota + 1
	Freeze
	Update
)

// All lists the flags in display order.
var All = []Flag{Mint, Freeze, Update}

func (f Flag) String() string {
	switch f {
	case Mint:
		return "mint"
	case Freeze:
		return "freeze"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
}

// ParseFlag accepts the names printed by Flag.String.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mint":
		return Mint, nil
	case "freeze":
		return Freeze, nil
	case "update":
		return Update, nil
	}
	return 0, &Error{Op: "parse", Name: s, Err: ErrUnknownFlag}
}

// State of a single authority.
type State uint8

const (
	Enabled State = iota
	Revoked
)

func (s State) String() string {
	if s == Revoked {
		return "revoked"
	}
	return "enabled"
}

var (
	ErrIrreversibleAuthority = errors.New("authority revocation is irreversible")
	ErrUnknownFlag           = errors.New("unknown authority flag")
)

// Error is returned for rejected authority transitions.
type Error struct {
	Op   string
	Flag Flag
	Name string
	Err  error
}

func (e *Error) Error() string {
	name := e.Name
	if name == "" {
		name = e.Flag.String()
	}
	return fmt.Sprintf("%s %s authority: %v", e.Op, name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Flags is an immutable value; transitions return a new Flags.
// The zero value has every authority enabled.
type Flags struct {
	mint   State
	freeze State
	update State
}

// New returns the initial, fully centralized state.
func New() Flags {
	return Flags{}
}

// State reports the state of f. Unknown flags report Enabled.
func (a Flags) State(f Flag) State {
	switch f {
	case Mint:
		return a.mint
	case Freeze:
		return a.freeze
	case Update:
		return a.update
	}
	return Enabled
}

func (a Flags) Mintable() bool  { return a.mint == Enabled }
func (a Flags) Freezable() bool { return a.freeze == Enabled }
func (a Flags) Updatable() bool { return a.update == Enabled }

// Revoke moves f to Revoked. Revoking twice is a successful no-op.
func (a Flags) Revoke(f Flag) (Flags, error) {
	return a.set(f, Revoked, "revoke")
}

// Enable succeeds only when f is already enabled; a revoked authority
// cannot be restored.
func (a Flags) Enable(f Flag) (Flags, error) {
	if !valid(f) {
		return a, &Error{Op: "enable", Flag: f, Err: ErrUnknownFlag}
	}
	if a.State(f) == Revoked {
		return a, &Error{Op: "enable", Flag: f, Err: ErrIrreversibleAuthority}
	}
	return a, nil
}

// RevokeAll revokes every authority.
func (a Flags) RevokeAll() Flags {
	return Flags{mint: Revoked, freeze: Revoked, update: Revoked}
}

// Merge keeps every revocation present in either value. Used to carry
// burns forward when other state is rolled back.
func (a Flags) Merge(o Flags) Flags {
	out := a
	for _, f := range All {
		if o.State(f) == Revoked {
			out, _ = out.Revoke(f)
		}
	}
	return out
}

// Revoked lists revoked flags in display order.
func (a Flags) Revoked() []Flag {
	var out []Flag
	for _, f := range All {
		if a.State(f) == Revoked {
			out = append(out, f)
		}
	}
	return out
}

// Decentralized reports whether no authority remains.
func (a Flags) Decentralized() bool {
	return len(a.Revoked()) == len(All)
}

// Map is a display helper: flag name to state name.
func (a Flags) Map() map[string]string {
	out := make(map[string]string, len(All))
	for _, f := range All {
		out[f.String()] = a.State(f).String()
	}
	return out
}

func (a Flags) set(f Flag, s State, op string) (Flags, error) {
	switch f {
	case Mint:
		a.mint = s
	case Freeze:
		a.freeze = s
	case Update:
		a.update = s
	default:
		return a, &Error{Op: op, Flag: f, Err: ErrUnknownFlag}
	}
	return a, nil
}

func valid(f Flag) bool {
	return f >= Mint && f <= Update
}
