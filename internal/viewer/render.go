package viewer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/piston"
	"github.com/verte-zerg/camkin/internal/report"
)

func renderOverview(t *model.LitvinTables, width int) string {
	d := t.Diagnostics
	converged := "yes"
	if d.UsedMaxIter {
		converged = "no"
	}
	cards := []string{
		metricCard("Iterations", fmt.Sprintf("%d/%d", d.IterCount, t.Params.MaxIter)),
		metricCard("Converged", converged),
		metricCard("Arc residual", fmt.Sprintf("%.3g mm", d.ArcLengthResidualMax)),
		metricCard("Clearance min", fmt.Sprintf("%.3f mm", d.ClearanceMin)),
		metricCard("Jerk max", fmt.Sprintf("%.3g", d.JerkMax)),
		metricCard("Sliding max", fmt.Sprintf("%.3g", d.SlidingVelMax)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{summary, ""}
	if n := len(d.ClearanceViolations); n > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("%d clearance violation(s); suggested C inflation %.3f mm", n, d.SuggestedCenterDistanceInflation)))
	}
	if d.UndercutFlag {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("undercut risk: curvature radius %.3g mm", d.CurvatureRadiusMin)))
	}
	lines = append(lines, "Notes")
	for _, note := range d.Notes {
		lines = append(lines, truncateLine("- "+note, width))
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderCurves(t *model.LitvinTables, width int) string {
	c := t.Curves
	outer := make([]float64, len(c.RRing))
	for i, r := range c.RRing {
		outer[i] = r + t.Params.RingThicknessVisual
	}
	radii := plot("Pitch radii (mm)", width, true, []report.Series{
		{Name: "r_cam", Values: c.RCam},
		{Name: "r_ring", Values: c.RRing},
		{Name: "ring outer", Values: outer},
	})
	phi := plot("Ring angle phi(theta) (deg)", width, true, []report.Series{
		{Name: "phi", Values: c.PhiOfThetaDeg},
	})
	return radii + "\n\n" + phi
}

func renderMotion(t *model.LitvinTables, width int) string {
	pr, err := piston.Generate(t.Params)
	if err != nil {
		return fmt.Sprintf("Failed to generate piston law: %v", err)
	}
	law := plot("Piston law x/v/a", width, false, []report.Series{
		{Name: "x (mm)", Values: pr.X},
		{Name: "v (mm/rad)", Values: pr.V},
		{Name: "a (mm/rad²)", Values: pr.A},
	})
	tracked := plot("Target vs planet 0 piston (mm)", width, true, []report.Series{
		{Name: "target x", Values: pr.X},
		{Name: "piston s", Values: t.Planets[0].PistonS},
	})
	return law + "\n\n" + tracked
}

func plot(title string, width int, shared bool, series []report.Series) string {
	var buf bytes.Buffer
	opts := report.PlotOptions{
		Width:  report.PlotWidthFor(width),
		Height: plotHeight,
		Shared: shared,
		Color:  true,
	}
	if err := report.PlotSeries(&buf, title, series, opts); err != nil {
		return fmt.Sprintf("Failed to render %s: %v", title, err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newPlanetTable() table.Model {
	t := table.New(
		table.WithColumns(planetColumns()),
		table.WithHeight(1),
	)
	t.SetStyles(planetTableStyles())
	return t
}

func planetColumns() []table.Column {
	return []table.Column{
		{Title: "α (deg)", Width: 8},
		{Title: "φ (deg)", Width: 8},
		{Title: "ψ (deg)", Width: 8},
		{Title: "Journal x", Width: 10},
		{Title: "Journal y", Width: 10},
		{Title: "Piston s", Width: 10},
	}
}

// planetRows lists planet 0 per grid sample.
func planetRows(t *model.LitvinTables) []table.Row {
	if t == nil || len(t.Planets) == 0 {
		return nil
	}
	p := t.Planets[0]
	rows := make([]table.Row, len(t.AlphaDeg))
	for i, alpha := range t.AlphaDeg {
		rows[i] = table.Row{
			fmt.Sprintf("%.2f", alpha),
			fmt.Sprintf("%.2f", t.Curves.PhiOfThetaDeg[i]),
			fmt.Sprintf("%.2f", p.SpinPsiDeg[i]),
			fmt.Sprintf("%.3f", p.JournalX[i]),
			fmt.Sprintf("%.3f", p.JournalY[i]),
			fmt.Sprintf("%.3f", p.PistonS[i]),
		}
	}
	return rows
}

func planetTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
