package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/salescope/salescope/internal/market"
)

// barPercent computes one bar's share of the track. The collection maximum
// fills the track, any other nonzero value gets at least 4% so it never
// renders as visually empty, and a zero maximum collapses every bar to 0.
func barPercent(value, max float64) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	pct := int(math.Round(value / max * 100))
	if pct < 4 {
		pct = 4
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// RenderBarChart draws one horizontal bar per row, sized against the
// collection's largest median sale price. An empty collection renders
// nothing.
func RenderBarChart(rows []market.AggregateRow, trackW, labelW int) string {
	if len(rows) == 0 {
		return ""
	}
	if trackW < 4 {
		trackW = 4
	}

	maxVal := float64(0)
	for _, r := range rows {
		if r.MedianValue > maxVal {
			maxVal = r.MedianValue
		}
	}

	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		label := ansi.Truncate(r.Label, labelW, "…")
		barLen := barPercent(r.MedianValue, maxVal) * trackW / 100
		// Narrow tracks truncate the percent floor to zero cells; a nonzero
		// value still gets one.
		if barLen < 1 && r.MedianValue > 0 {
			barLen = 1
		}
		color := barPalette[i%len(barPalette)]

		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
		track := trackStyle.Render(strings.Repeat("░", trackW-barLen))
		value := lipgloss.NewStyle().Foreground(color).Bold(true).Render(FormatMoney(r.MedianValue))

		lines = append(lines, fmt.Sprintf("  %s %s%s  %s",
			labelStyle.Width(labelW).Render(label), bar, track, value))
	}

	return strings.Join(lines, "\n")
}
