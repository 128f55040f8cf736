package compose

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInline_TypingThenSubmit(t *testing.T) {
	m := NewInline()

	for _, r := range "Need hands" {
		m, _ = m.Update(keyRunes(string(r)))
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd == nil {
		t.Fatalf("expected submit to produce a done message")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg, got %T", cmd())
	}
	if msg.Err != nil || msg.Content != "Need hands" {
		t.Fatalf("expected typed content, got %q (err %v)", msg.Content, msg.Err)
	}
}

func TestInline_EscCancels(t *testing.T) {
	m := NewInline()

	m, _ = m.Update(keyRunes("x"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected cancel to produce a done message")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok || msg.Content != "" || msg.Err != nil {
		t.Fatalf("expected empty cancel message, got %#v", cmd())
	}
}

func TestInline_CharLimitHolds(t *testing.T) {
	m := NewInline()
	if m.textarea.CharLimit != 2000 {
		t.Fatalf("expected 2000 char limit, got %d", m.textarea.CharLimit)
	}
}
