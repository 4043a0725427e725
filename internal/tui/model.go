// Package tui renders the token stream as a live per-source view.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/midimon/sdk/contracts"
)

// tailSize is how many recent tokens are kept per source.
const tailSize = 64

type sourceView struct {
	tokens []string
	count  int
}

// Model is the bubbletea model of the live view. It keeps the recent tokens of every source.
type Model struct {
	tokens  <-chan contracts.Token
	errs    <-chan error
	order   []string
	sources map[string]*sourceView
	width   int
	err     error

	header lipgloss.Style
	name   lipgloss.Style
	dim    lipgloss.Style
}

// TokenMsg delivers one token from the monitor tap.
type TokenMsg contracts.Token

// ErrMsg carries the I/O error reported by the monitor.
type ErrMsg struct{ Err error }

type closedMsg struct{}

// NewModel creates a view over the given sources. Sources that first appear in the token stream
// are added as they arrive.
func NewModel(sources []string, tokens <-chan contracts.Token, errs <-chan error) Model {
	m := Model{
		tokens:  tokens,
		errs:    errs,
		sources: make(map[string]*sourceView, len(sources)),
		width:   80,
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		dim:     lipgloss.NewStyle().Faint(true),
	}
	for _, s := range sources {
		m.source(s)
	}
	return m
}

func (m *Model) source(name string) *sourceView {
	v, ok := m.sources[name]
	if !ok {
		v = &sourceView{}
		m.sources[name] = v
		m.order = append(m.order, name)
	}
	return v
}

// ListenForTokens waits for the next token. Update re-arms it after every TokenMsg.
func ListenForTokens(tokens <-chan contracts.Token) tea.Cmd {
	return func() tea.Msg {
		tok, ok := <-tokens
		if !ok {
			return closedMsg{}
		}
		return TokenMsg(tok)
	}
}

// ListenForErrors waits for the first monitor error.
func ListenForErrors(errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		return ErrMsg{Err: <-errs}
	}
}

// Init starts listening for tokens and errors.
func (m Model) Init() tea.Cmd {
	return tea.Batch(ListenForTokens(m.tokens), ListenForErrors(m.errs))
}

// Update records tokens and window size, and quits on q, enter, esc, ctrl+c or an error.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "enter", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case TokenMsg:
		v := m.source(msg.Source)
		v.count++
		v.tokens = append(v.tokens, msg.Text)
		if len(v.tokens) > tailSize {
			v.tokens = v.tokens[len(v.tokens)-tailSize:]
		}
		return m, ListenForTokens(m.tokens)

	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit

	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

// Err returns the I/O error that ended the view, if any.
func (m Model) Err() error {
	return m.err
}

// View renders one block per source with the tail of its token stream.
func (m Model) View() string {
	var out strings.Builder
	out.WriteString(m.header.Render(fmt.Sprintf("midimon  %d sources", len(m.order))))
	out.WriteString("\n\n")

	for _, name := range m.order {
		v := m.sources[name]
		out.WriteString(m.name.Render(name))
		out.WriteString(m.dim.Render(fmt.Sprintf("  %d tokens", v.count)))
		out.WriteString("\n  ")
		out.WriteString(tail(strings.Join(v.tokens, ""), m.width-2))
		out.WriteString("\n")
	}

	if m.err != nil {
		out.WriteString("\n" + m.err.Error() + "\n")
	}
	out.WriteString("\n")
	out.WriteString(m.dim.Render("q/enter:quit"))
	return out.String()
}

// tail keeps the last width bytes of s; tokens are ASCII.
func tail(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	return s[len(s)-width:]
}
