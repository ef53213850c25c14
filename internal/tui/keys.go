package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"

	"github.com/tujuhre12/vscroll/internal/tui/list"
)

type KeyMap struct {
	Quit,
	Help,
	Jump,
	Submit,
	Cancel,
	First,
	Last,
	NextStrategy,
	Smart,
	Native,
	Blur,
	Flash,
	Theme key.Binding

	List list.KeyMap
}

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
		Jump: key.NewBinding(
			key.WithKeys("/", ":"),
			key.WithHelp("/", "jump to"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G/end", "last"),
		),
		NextStrategy: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next strategy"),
		),
		Smart: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "smart"),
		),
		Native: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "native"),
		),
		Blur: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "blur"),
		),
		Flash: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "flash"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		List: list.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.First, k.Last, k.NextStrategy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Submit, k.Cancel, k.First, k.Last},
		{k.Smart, k.Native, k.Blur, k.Flash, k.NextStrategy},
		k.List.KeyBindings(),
		{k.Theme, k.Help, k.Quit},
	}
}

// strategyBindings returns the numbered strategy keys in menu order.
func (k KeyMap) strategyBindings() []key.Binding {
	return []key.Binding{k.Smart, k.Native, k.Blur, k.Flash}
}
