package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/sectorlens/pkg/analysis"
	"github.com/vanderheijden86/sectorlens/pkg/chart"
	"github.com/vanderheijden86/sectorlens/pkg/dashboard"
	"github.com/vanderheijden86/sectorlens/pkg/interact"
	"github.com/vanderheijden86/sectorlens/pkg/model"
	"github.com/vanderheijden86/sectorlens/pkg/state"
)

const sliderWidth = 30

// View renders the dashboard.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing…"
	}
	snap := m.orch.Snapshot()
	ds := m.orch.Dataset()

	sections := []string{
		m.fit(m.renderHeader(ds, snap.View), headerRows),
		m.fit(m.renderKPI(snap.Panels.KPI), kpiRows),
		m.fit(m.renderBody(snap), bodyRows),
		m.renderChart(snap),
		m.fit(m.renderFooter(), footerRows),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// fit pins a section to exactly rows lines so screen geometry stays fixed.
func (m Model) fit(s string, rows int) string {
	return m.theme.Renderer.NewStyle().
		Width(m.width).MaxWidth(m.width).
		Height(rows).MaxHeight(rows).
		Render(s)
}

func (m Model) renderHeader(ds *model.Dataset, v state.View) string {
	t := m.theme
	year := ds.YearLabel(v.YearIndex)
	if year == "" {
		year = analysis.Placeholder
	}
	if ds.IsForecast(v.YearIndex) {
		year += " forecast"
	}
	title := t.Title.Render("Sector Lens")
	line := fmt.Sprintf("%s  %s %s  %s %s  %s %s",
		title,
		t.Label.Render("Year"), t.Value.Render(year),
		t.Label.Render("Segment"), t.Value.Render(v.Segment.Label()),
		t.Label.Render("Chart"), t.Value.Render(v.Mode.Label()))
	return line + "\n" + m.renderSlider(ds, v)
}

// renderSlider draws the year slider with its fill proportional to progress.
func (m Model) renderSlider(ds *model.Dataset, v state.View) string {
	n := ds.YearCount()
	filled := int(math.Round(v.Progress(n) * sliderWidth))
	bar := m.theme.Selected.Render(strings.Repeat("━", filled)) +
		m.theme.Label.Render(strings.Repeat("─", sliderWidth-filled))
	first, last := ds.YearLabel(0), ds.YearLabel(n-1)
	return fmt.Sprintf("%s %s %s", first, bar, last)
}

func (m Model) renderKPI(k analysis.KPI) string {
	t := m.theme
	cards := k.Cards()
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		body := t.Label.Render(c.Label) + "\n" +
			t.Value.Render(c.Value) + "\n" +
			t.Trend(c.Down).Render(c.Trend)
		out = append(out, t.Card.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) renderBody(snap dashboard.Snapshot) string {
	left := m.renderTable(snap.Panels.Table)
	if m.showNotes {
		left = m.renderNotes(snap.Panels)
	}
	right := m.renderDetail(snap)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Renderer.NewStyle().Width(tableWidth).Render(left),
		right)
}

func (m Model) renderTable(rows []analysis.Row) string {
	t := m.theme
	if len(rows) == 0 {
		return t.Label.Render("No sectors in this segment.")
	}
	var sb strings.Builder
	sb.WriteString(t.Header.Render(fmt.Sprintf("%-3s %-22s %-10s %5s %7s %5s %5s %6s",
		"#", "Sector", "Tier", "Score", "Growth", "Risk", "Debt", "Export")))
	limit := bodyRows - 2
	for i, r := range rows {
		if i >= limit {
			sb.WriteString("\n" + t.Label.Render(fmt.Sprintf("… %d more", len(rows)-limit)))
			break
		}
		c := r.Cells()
		name := runewidth.FillRight(chart.ShortName(c[1], 22), 22)
		tier := t.TierStyle(r.Tier).Render(runewidth.FillRight(c[2], 10))
		line := fmt.Sprintf("%-3s %s %s %5s %7s %5s %5s %6s", c[0], name, tier, c[3], c[4], c[5], c[6], c[7])
		if r.Selected {
			line = t.Selected.Render("▸") + line
		} else {
			line = " " + line
		}
		sb.WriteString("\n" + line)
	}
	return sb.String()
}

// renderNotes shows the driver tags and metric cards as markdown.
func (m Model) renderNotes(p dashboard.Panels) string {
	var md strings.Builder
	md.WriteString("## Drivers\n\n")
	if len(p.Drivers) == 0 {
		md.WriteString(analysis.Placeholder + "\n")
	}
	for _, d := range p.Drivers {
		md.WriteString("- " + d + "\n")
	}
	md.WriteString("\n## Metrics\n\n")
	for _, c := range p.Metrics {
		fmt.Fprintf(&md, "**%s**: %s\n\n", c.Title, c.Detail)
	}
	if m.md != nil {
		if out, err := m.md.Render(md.String()); err == nil {
			return strings.TrimSpace(out)
		}
	}
	return md.String()
}

func (m Model) renderDetail(snap dashboard.Snapshot) string {
	t := m.theme
	d := snap.Panels.Detail
	if d.ID == "" {
		return t.Label.Render(analysis.Placeholder)
	}
	var sb strings.Builder
	sb.WriteString(t.Title.Render(d.Name) + "  " + t.Label.Render(d.Tag) + "\n")
	sb.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		t.Label.Render("Score"), t.Value.Render(d.Score),
		t.Label.Render("Risk"), t.Value.Render(d.Risk),
		t.Label.Render("Debt"), t.Value.Render(d.Debt)))
	sb.WriteString(t.Status.Render(d.GrowthChip+"  "+d.RiskChip) + "\n")

	spark := Canvas{Cols: sparkCols, Rows: sparkRows}
	for i, s := range d.Sparks {
		if i >= len(snap.Sparks) {
			break
		}
		label := t.Label.Render(runewidth.FillRight(s.Title, 11))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, m.canvas(spark, snap.Sparks[i])) + "\n")
	}
	return sb.String()
}

func (m Model) renderChart(snap dashboard.Snapshot) string {
	t := m.theme
	canvas, _, _ := m.chartArea()
	title := t.Header.Render(m.paneTitle(snap.View))
	if !canvas.Valid() {
		return title
	}
	body := m.canvas(canvas, m.paneFrame())
	if tip := m.renderTooltip(m.tooltip); tip != "" {
		title += "  " + tip
	}
	return title + "\n" + body
}

func (m Model) paneTitle(v state.View) string {
	switch m.pane {
	case PaneScatter:
		return "Growth vs. risk"
	case PaneBars:
		return "Score ranking"
	default:
		if v.Mode == state.ModeRanking {
			return chart.RankingTitle
		}
		return v.Mode.Label()
	}
}

// renderTooltip shows the matrix hover tooltip inline. The chart title row
// stands in for the pointer-relative position.
func (m Model) renderTooltip(tip interact.Tooltip) string {
	if !tip.Visible {
		return ""
	}
	return m.theme.Tooltip.UnsetBorderStyle().Render(tip.Title + ": " + tip.Body)
}

func (m Model) renderFooter() string {
	t := m.theme
	status := ""
	if m.status != "" {
		if m.statusErr {
			status = t.Error.Render(m.status)
		} else {
			status = t.Status.Render(m.status)
		}
	}
	return status + "\n" + m.help.View(keys)
}

// canvas renders a frame into c, reusing the last rendering of the same
// frame. Frames are immutable once painted.
func (m Model) canvas(c Canvas, f *chart.Frame) string {
	if f == nil || !c.Valid() {
		return ""
	}
	k := cacheKey{frame: f, cols: c.Cols, rows: c.Rows}
	if s, ok := m.cache[k]; ok {
		return s
	}
	s := c.Render(m.theme.Renderer, f)
	if len(m.cache) > 64 {
		clear(m.cache)
	}
	m.cache[k] = s
	return s
}
