package feature

import (
	"fmt"
	"strings"
)

// State is the normalized outcome of resolving a flag.
type State string

const (
	StateOn    State = "on"
	StateOff   State = "off"
	StateUnset State = "unset"
)

// IsValid reports whether s is one of the three known states.
func (s State) IsValid() bool {
	switch s {
	case StateOn, StateOff, StateUnset:
		return true
	}
	return false
}

// Enabled reports whether s is StateOn. Unset counts as disabled.
func (s State) Enabled() bool {
	return s == StateOn
}

func (s State) String() string {
	return string(s)
}

// ParseState parses a default state as written in a catalog.
// It accepts "unset" in addition to the on/off tokens of the status table.
func ParseState(raw string) (State, error) {
	switch classify(raw) {
	case tokenOn:
		return StateOn, nil
	case tokenOff:
		return StateOff, nil
	case tokenUnset:
		return StateUnset, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
}

type token int

const (
	tokenUnknown token = iota
	tokenOn
	tokenOff
	tokenSwitchable
	tokenUnset
)

// classify maps a raw status, override or default-state string to a token.
// This is the single status/state table shared by catalog loading, status
// resolution and override parsing.
func classify(raw string) token {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "enabled", "true", "1":
		return tokenOn
	case "off", "disabled", "false", "0":
		return tokenOff
	case "switchable":
		return tokenSwitchable
	case "unset":
		return tokenUnset
	default:
		return tokenUnknown
	}
}

// parseOverride converts an override value into a state.
// Only on/off tokens count; everything else is treated as no override.
func parseOverride(raw string) (State, bool) {
	switch classify(raw) {
	case tokenOn:
		return StateOn, true
	case tokenOff:
		return StateOff, true
	default:
		return "", false
	}
}
