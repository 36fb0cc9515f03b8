package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/sectorlens/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the dashboard styles.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Up      lipgloss.AdaptiveColor
	Down    lipgloss.AdaptiveColor

	// Tier colors follow the chart palette.
	Developing lipgloss.AdaptiveColor
	Core       lipgloss.AdaptiveColor
	Watchlist  lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Title    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
	Card     lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Tooltip  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:  lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Up:      lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Down:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		Developing: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Core:       lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Watchlist:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Title = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.Header = r.NewStyle().Bold(true).Foreground(t.Subtext)
	t.Selected = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.Card = t.Panel.Width(24)
	t.Label = r.NewStyle().Foreground(t.Muted)
	t.Value = r.NewStyle().Bold(true)
	t.Tooltip = r.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	t.Status = r.NewStyle().Foreground(t.Subtext)
	t.Error = r.NewStyle().Foreground(t.Down)

	return t
}

// TierStyle colors a tier label.
func (t Theme) TierStyle(tier model.Tier) lipgloss.Style {
	switch tier {
	case model.TierDeveloping:
		return t.Renderer.NewStyle().Foreground(t.Developing)
	case model.TierCore:
		return t.Renderer.NewStyle().Foreground(t.Core)
	case model.TierWatchlist:
		return t.Renderer.NewStyle().Foreground(t.Watchlist)
	default:
		return t.Renderer.NewStyle().Foreground(t.Subtext)
	}
}

// Trend colors a KPI trend line.
func (t Theme) Trend(down bool) lipgloss.Style {
	if down {
		return t.Renderer.NewStyle().Foreground(t.Down)
	}
	return t.Renderer.NewStyle().Foreground(t.Up)
}
