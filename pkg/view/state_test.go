package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Transitions(t *testing.T) {
	s := Initial()
	assert.Equal(t, State{Mode: ModeLanding}, s)

	s = s.WithChatOpen(true)
	s, err := s.WithMode(ModeChat)
	require.NoError(t, err)
	assert.Equal(t, State{Mode: ModeChat, ChatOpen: true}, s)

	s = s.Escalated()
	assert.Equal(t, State{Mode: ModeResume, ChatOpen: true}, s)

	_, err = s.WithMode("settings")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestState_JSON(t *testing.T) {
	b, err := json.Marshal(State{Mode: ModeResume, ChatOpen: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"resume","chatOpen":true}`, string(b))

	var s State
	require.NoError(t, json.Unmarshal(b, &s))
	assert.Equal(t, State{Mode: ModeResume, ChatOpen: true}, s)

	tests := []string{`{"mode":"admin"}`, `{"chatOpen":true}`, `[]`}
	for _, in := range tests {
		assert.Error(t, json.Unmarshal([]byte(in), &s), in)
	}
}
