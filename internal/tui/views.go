package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/salescope/salescope/internal/market"
)

const (
	chartLabelWidth = 18
	chartTopN       = 10
	tableHeight     = 10
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) View() string {
	if m.width == 0 {
		return "Starting…"
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderCards(),
		"",
		m.renderChart(),
		"",
		m.salesTable.View(),
		"",
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	brand := headerBrandStyle.Render("Salescope")
	title := headerStyle.Render(" · " + m.scope.Title())

	tabs := make([]string, 0, len(market.ValidTimeWindows))
	for _, tw := range market.ValidTimeWindows {
		style := tabInactiveStyle
		if tw == m.window {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(tw.Short()))
	}
	windowTabs := strings.Join(tabs, dimStyle.Render(" · "))

	status := ""
	if m.loading {
		status = " " + sectionHeaderStyle.Render(spinnerFrames[(m.frame/3)%len(spinnerFrames)]+" loading")
	}

	left := brand + title
	right := windowTabs + status
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderCards() string {
	medianTitle := "Median Price"
	topValueTitle := "Top by Value"
	topVolumeTitle := "Most Active"
	if !m.scope.AllBoroughs() {
		topValueTitle = "Priciest Area"
		topVolumeTitle = "Busiest Area"
	}

	cards := []string{
		renderCard("Transactions", FormatCount(m.slots[slotTotal].Display()), m.window.Label()),
		renderCard(medianTitle, FormatMoney(m.slots[slotMedian].Display()), "across "+m.scope.Title()),
		renderCard(topValueTitle, FormatMoney(m.slots[slotTopValue].Display()), m.summary.TopByValue.Label),
		renderCard(topVolumeTitle, FormatCount(m.slots[slotTopVolume].Display()), m.summary.TopByVolume.Label),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value, sub string) string {
	content := cardTitleStyle.Render(title) + "\n" +
		cardValueStyle.Render(value) + "\n" +
		cardSubStyle.Render(sub)
	return cardStyle.Render(content)
}

// chartRows picks what the bar chart shows: every borough in response order
// city-wide, the ten priciest neighborhoods when drilled in.
func chartRows(scope market.Scope, rows []market.AggregateRow) []market.AggregateRow {
	if scope.AllBoroughs() {
		return rows
	}
	return market.TopNByValue(rows, chartTopN)
}

func (m Model) renderChart() string {
	rows := chartRows(m.scope, m.rows)
	if len(rows) == 0 {
		if m.loading {
			return dimStyle.Render("  Fetching sales data…")
		}
		return dimStyle.Render("  No sales recorded in this window")
	}

	trackW := m.width - chartLabelWidth - 18
	if trackW > 60 {
		trackW = 60
	}
	header := sectionHeaderStyle.Render("  Median Sale Price")
	return header + "\n" + RenderBarChart(rows, trackW, chartLabelWidth)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return errorStyle.Render("  " + m.status)
	}

	keys := [][2]string{
		{"1-4", "window"},
		{"w", "cycle"},
		{"↑/↓", "select"},
		{"enter", "drill in"},
		{"esc", "back"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k[0])+helpStyle.Render(" "+k[1]))
	}
	return "  " + strings.Join(parts, helpStyle.Render("  ·  "))
}

func newSalesTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(colorBlue).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSurface1).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(colorText).
		Background(colorSurface1).
		Bold(false)
	t.SetStyles(s)
	return t
}

// buildTableData shapes the table for the active scope: boroughs stay in
// response order, neighborhoods are re-sorted by median on every rebuild.
func buildTableData(scope market.Scope, rows []market.AggregateRow) ([]table.Column, []table.Row) {
	unit := "Borough"
	display := rows
	if !scope.AllBoroughs() {
		unit = "Neighborhood"
		display = market.SortByMedianDesc(rows)
	}

	columns := []table.Column{
		{Title: unit, Width: 24},
		{Title: "Median", Width: 12},
		{Title: "Average", Width: 12},
		{Title: "Transactions", Width: 12},
	}
	tableRows := make([]table.Row, 0, len(display))
	for _, r := range display {
		tableRows = append(tableRows, table.Row{
			r.Label,
			FormatMoney(r.MedianValue),
			FormatMoney(r.AverageValue),
			FormatCount(float64(r.Count)),
		})
	}
	return columns, tableRows
}

func (m *Model) rebuildTable() {
	columns, rows := buildTableData(m.scope, m.rows)
	m.salesTable.SetColumns(columns)
	m.salesTable.SetRows(rows)
	if m.salesTable.Cursor() >= len(rows) {
		m.salesTable.SetCursor(0)
	}
}

func (m *Model) resizeTable() {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	m.salesTable.SetWidth(w)
}
