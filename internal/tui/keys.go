package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/kingrea/peerreview/internal/session"
)

type keyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Resume     key.Binding
	Up         key.Binding
	Down       key.Binding
	Lower      key.Binding
	Raise      key.Binding
	Score      key.Binding
	Comment    key.Binding
	Submit     key.Binding
	Back       key.Binding
	DoneEdit   key.Binding
	Retry      key.Binding
	Revise     key.Binding
	NextReview key.Binding
	Exit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start grading")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		Resume:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to grading")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous")),
		Down:       key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next")),
		Lower:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "lower")),
		Raise:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "raise")),
		Score:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "score")),
		Comment:    key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter", "comment")),
		Submit:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "submit")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "edit names")),
		DoneEdit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "save comment")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Revise:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit scores")),
		NextReview: key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "review next presenter")),
		Exit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// helpFor lists the bindings worth showing in the footer for the current screen.
// scored reports whether the ledger holds scores that leaving would discard.
func (k keyMap) helpFor(phase session.Phase, editing, failed, scored bool) []key.Binding {
	switch phase {
	case session.PhaseLogin:
		if scored {
			return []key.Binding{k.NextField, k.Confirm, k.Resume, k.Quit}
		}
		return []key.Binding{k.NextField, k.Confirm, k.Cancel}
	case session.PhaseGrading:
		if editing {
			return []key.Binding{k.DoneEdit}
		}
		return []key.Binding{k.Up, k.Down, k.Score, k.Lower, k.Raise, k.Comment, k.Submit, k.Back}
	case session.PhaseResult:
		if failed {
			return []key.Binding{k.Retry, k.Revise, k.NextReview, k.Exit}
		}
		return []key.Binding{k.NextReview, k.Exit}
	default:
		return []key.Binding{k.Quit}
	}
}
