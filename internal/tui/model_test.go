package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelCollectsTokens(t *testing.T) {
	tokens := make(chan contracts.Token, 4)
	m := NewModel([]string{"A"}, tokens, nil)

	m, cmd := update(t, m, TokenMsg{Source: "A", Text: "Start "})
	require.NotNil(t, cmd)
	m, _ = update(t, m, TokenMsg{Source: "B", Text: "Q "})
	m, _ = update(t, m, TokenMsg{Source: "A", Text: "N3c v64 "})

	assert.Equal(t, []string{"A", "B"}, m.order)
	assert.Equal(t, 2, m.sources["A"].count)

	view := m.View()
	assert.Contains(t, view, "2 sources")
	assert.Contains(t, view, "Start N3c v64 ")
	assert.Contains(t, view, "Q ")
}

func TestModelKeepsTail(t *testing.T) {
	m := NewModel(nil, nil, nil)
	for i := 0; i < tailSize+10; i++ {
		m, _ = update(t, m, TokenMsg{Source: "A", Text: "Q "})
	}
	assert.Len(t, m.sources["A"].tokens, tailSize)
	assert.Equal(t, tailSize+10, m.sources["A"].count)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 12})
	line := strings.Split(m.View(), "\n")[3]
	assert.Equal(t, "  Q Q Q Q Q ", line)
}

func TestModelQuitsOnError(t *testing.T) {
	m := NewModel(nil, nil, nil)
	m, cmd := update(t, m, ErrMsg{Err: errors.New("write token: broken pipe")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.EqualError(t, m.Err(), "write token: broken pipe")
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel(nil, nil, nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestListenForTokensClosed(t *testing.T) {
	tokens := make(chan contracts.Token)
	close(tokens)
	assert.Equal(t, closedMsg{}, ListenForTokens(tokens)())
}
