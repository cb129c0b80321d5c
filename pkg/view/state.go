// Package view holds presentation routing state: which page is shown and
// whether the floating chat panel is open. It never touches orchestrators.
package view

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Mode string

const (
	ModeLanding Mode = "landing"
	ModeChat    Mode = "chat"
	ModeResume  Mode = "resume"
)

var ErrUnknownMode = errors.New("unknown view mode")

func (m Mode) Valid() bool {
	switch m {
	case ModeLanding, ModeChat, ModeResume:
		return true
	}
	return false
}

// State is the whole view state. The zero value is not valid; use Initial.
type State struct {
	Mode     Mode `json:"mode"`
	ChatOpen bool `json:"chatOpen"`
}

func Initial() State { return State{Mode: ModeLanding} }

// WithMode switches the page, leaving the chat panel as it is.
func (s State) WithMode(m Mode) (State, error) {
	if !m.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	s.Mode = m
	return s, nil
}

func (s State) WithChatOpen(open bool) State {
	s.ChatOpen = open
	return s
}

// Escalated is the state after the assistant hands over to resume analysis.
func (s State) Escalated() State {
	s.Mode = ModeResume
	return s
}

func (s *State) UnmarshalJSON(b []byte) error {
	var raw struct {
		Mode     Mode `json:"mode"`
		ChatOpen bool `json:"chatOpen"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if !raw.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, raw.Mode)
	}
	*s = State(raw)
	return nil
}
