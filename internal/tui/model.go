package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/salescope/salescope/internal/market"
)

// Fetcher is the data-service boundary the dashboard fetches through.
type Fetcher interface {
	RecentSales(ctx context.Context, months, pages int) ([]market.AggregateRow, error)
	NeighborhoodSales(ctx context.Context, borough string, months int) ([]market.AggregateRow, error)
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/animFPS, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// refreshTickMsg carries the epoch of the tick chain that scheduled it, so
// a chain superseded by a settings change cannot keep rescheduling itself.
type refreshTickMsg struct {
	epoch int
}

// salesMsg carries one fetch resolution tagged with the generation that
// issued it. Resolutions from superseded generations are dropped on arrival.
type salesMsg struct {
	gen  int
	rows []market.AggregateRow
	err  error
}

// ConfigMsg delivers externally reloaded settings while the dashboard runs.
type ConfigMsg struct {
	RefreshIntervalSeconds int
}

type slotID int

const (
	slotTotal slotID = iota
	slotMedian
	slotTopValue
	slotTopVolume
	slotCount
)

type Model struct {
	fetcher Fetcher
	pages   int

	window market.TimeWindow
	scope  market.Scope

	// fetchGen gates fetch resolutions: only the latest issued generation
	// may touch rows, summary, or the loading flag.
	fetchGen int
	loading  bool
	status   string

	rows    []market.AggregateRow
	summary market.KpiSummary

	slots [slotCount]slot

	salesTable table.Model
	frame      int

	refreshEvery time.Duration
	refreshEpoch int

	width  int
	height int
}

func NewModel(fetcher Fetcher, window market.TimeWindow, pages int, refreshEvery time.Duration) Model {
	m := Model{
		fetcher:      fetcher,
		pages:        pages,
		window:       window,
		scope:        market.AllBoroughs(),
		refreshEvery: refreshEvery,
		summary:      market.ComputeSummary(nil),
	}
	m.salesTable = newSalesTable()
	m.rebuildTable()

	// The initial fetch is generation 1, dispatched from Init.
	m.fetchGen = 1
	m.loading = true
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), m.fetchCmd(m.fetchGen), m.refreshTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame++
		for i := range m.slots {
			m.slots[i].Step()
		}
		return m, frameCmd()

	case salesMsg:
		return m.applyFetchResult(msg)

	case refreshTickMsg:
		// Ticks from a superseded chain reschedule nothing.
		if msg.epoch != m.refreshEpoch || m.refreshEvery <= 0 {
			return m, nil
		}
		next, cmd := m.setSelection(m.window, m.scope)
		return next, tea.Batch(cmd, next.refreshTick())

	case ConfigMsg:
		interval := time.Duration(msg.RefreshIntervalSeconds) * time.Second
		if interval == m.refreshEvery {
			return m, nil
		}
		// Any change replaces the tick chain; the old chain's pending tick
		// arrives with a stale epoch and dies.
		m.refreshEvery = interval
		m.refreshEpoch++
		return m, m.refreshTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// setSelection starts a fetch for a new (window, scope) pair. It marks every
// in-flight request stale by bumping the generation, and clears rows of the
// opposite granularity before anything new arrives.
func (m Model) setSelection(window market.TimeWindow, scope market.Scope) (Model, tea.Cmd) {
	scopeChanged := scope != m.scope
	m.window = window
	m.scope = scope
	m.fetchGen++
	m.loading = true
	m.status = ""

	if scopeChanged {
		m.rows = nil
		m.summary = market.ComputeSummary(nil)
		m.retargetSlots()
		m.rebuildTable()
	}
	return m, m.fetchCmd(m.fetchGen)
}

func (m Model) fetchCmd(gen int) tea.Cmd {
	fetcher, window, scope, pages := m.fetcher, m.window, m.scope, m.pages
	return func() tea.Msg {
		ctx := context.Background()
		var rows []market.AggregateRow
		var err error
		if scope.AllBoroughs() {
			rows, err = fetcher.RecentSales(ctx, window.Months(), pages)
		} else {
			rows, err = fetcher.NeighborhoodSales(ctx, scope.Borough, window.Months())
		}
		return salesMsg{gen: gen, rows: rows, err: err}
	}
}

func (m Model) applyFetchResult(msg salesMsg) (Model, tea.Cmd) {
	// A superseded resolution changes nothing, not even the loading flag:
	// the user has already navigated away from the selection it belongs to.
	if msg.gen != m.fetchGen {
		return m, nil
	}

	m.loading = false
	if msg.err != nil {
		// Keep last-known rows; surface the failure in the footer.
		m.status = msg.err.Error()
		return m, nil
	}

	m.status = ""
	m.rows = msg.rows
	m.summary = market.ComputeSummary(m.rows)
	m.retargetSlots()
	m.rebuildTable()
	return m, nil
}

func (m *Model) retargetSlots() {
	m.slots[slotTotal].SetTarget(float64(m.summary.TotalTransactions))
	m.slots[slotMedian].SetTarget(m.summary.MeanOfMedians)
	m.slots[slotTopValue].SetTarget(m.summary.TopByValue.Value)
	m.slots[slotTopVolume].SetTarget(m.summary.TopByVolume.Value)
}

func (m Model) refreshTick() tea.Cmd {
	if m.refreshEvery <= 0 {
		return nil
	}
	epoch := m.refreshEpoch
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg {
		return refreshTickMsg{epoch: epoch}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		// Final generation bump: any still-in-flight resolution lands
		// nowhere after teardown.
		m.fetchGen++
		return m, tea.Quit

	case "w", "tab":
		return m.setSelection(market.NextTimeWindow(m.window), m.scope)

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		return m.setSelection(market.ValidTimeWindows[idx], m.scope)

	case "enter":
		if m.scope.AllBoroughs() {
			if label := m.selectedLabel(); label != "" {
				return m.setSelection(m.window, market.BoroughScope(label))
			}
		}
		return m, nil

	case "esc":
		if !m.scope.AllBoroughs() {
			return m.setSelection(m.window, market.AllBoroughs())
		}
		return m, nil

	case "r":
		return m.setSelection(m.window, m.scope)

	case "up", "down", "j", "k", "pgup", "pgdown":
		var cmd tea.Cmd
		m.salesTable, cmd = m.salesTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) selectedLabel() string {
	if len(m.salesTable.Rows()) == 0 {
		return ""
	}
	row := m.salesTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
