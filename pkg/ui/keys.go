package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Scrub      key.Binding
	ScrubBack  key.Binding
	Commit     key.Binding
	CommitBack key.Binding
	Mode       key.Binding
	Heatmap    key.Binding
	Quadrant   key.Binding
	Ranking    key.Binding
	Segment    key.Binding
	NextSector key.Binding
	PrevSector key.Binding
	Surface    key.Binding
	Notes      key.Binding
	Copy       key.Binding
	Export     key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scrub, k.Mode, k.Segment, k.NextSector, k.Surface, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrubBack, k.Scrub, k.CommitBack, k.Commit},
		{k.Mode, k.Heatmap, k.Quadrant, k.Ranking, k.Segment},
		{k.PrevSector, k.NextSector, k.Surface, k.Notes},
		{k.Copy, k.Export, k.Reload, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Scrub: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "scrub year"),
	),
	ScrubBack: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "scrub back"),
	),
	Commit: key.NewBinding(
		key.WithKeys("shift+right", "L", "."),
		key.WithHelp("L/.", "next year"),
	),
	CommitBack: key.NewBinding(
		key.WithKeys("shift+left", "H", ","),
		key.WithHelp("H/,", "prev year"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "chart mode"),
	),
	Heatmap: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "heatmap"),
	),
	Quadrant: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "growth/profit"),
	),
	Ranking: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "ranking"),
	),
	Segment: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "segment"),
	),
	NextSector: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next sector"),
	),
	PrevSector: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev sector"),
	),
	Surface: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "surface"),
	),
	Notes: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notes"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy detail"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
