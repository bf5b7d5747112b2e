package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the viewer.
type keyMap struct {
	// Global
	Quit key.Binding
	Help key.Binding

	// Filtering
	Search      key.Binding
	CycleFilter key.Binding
	FilterAll   key.Binding
	FilterError key.Binding
	FilterWarn  key.Binding
	FilterInfo  key.Binding

	// Window
	LoadMore key.Binding
	ClearNew key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Files
	Recent  key.Binding
	Confirm key.Binding
	Escape  key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings. Scrolling keys are
// handled by the viewport.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle level filter"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "All levels"),
		),
		FilterError: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Errors"),
		),
		FilterWarn: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Warnings"),
		),
		FilterInfo: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Info"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Load more"),
		),
		ClearNew: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Clear new marks"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Recent: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Recent files"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
	}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.CycleFilter, k.FilterAll, k.FilterError, k.FilterWarn, k.FilterInfo},
		{k.Up, k.Down, k.Top, k.Bottom, k.LoadMore, k.ClearNew},
		{k.Recent, k.Help, k.Quit},
	}
}
