package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salescope/salescope/internal/market"
)

type stubFetcher struct {
	boroughRows   []market.AggregateRow
	neighborhoods []market.AggregateRow
	err           error
	lastBorough   string
	lastMonths    int
	recentCalls   int
	neighborCalls int
}

func (s *stubFetcher) RecentSales(_ context.Context, months, _ int) ([]market.AggregateRow, error) {
	s.recentCalls++
	s.lastMonths = months
	return s.boroughRows, s.err
}

func (s *stubFetcher) NeighborhoodSales(_ context.Context, borough string, months int) ([]market.AggregateRow, error) {
	s.neighborCalls++
	s.lastBorough = borough
	s.lastMonths = months
	return s.neighborhoods, s.err
}

func boroughFixture() []market.AggregateRow {
	return []market.AggregateRow{
		{Label: "Manhattan", Count: 812, MedianValue: 1150000, AverageValue: 1720000},
		{Label: "Brooklyn", Count: 1430, MedianValue: 760000, AverageValue: 905000},
	}
}

func newTestModel(fetcher Fetcher) Model {
	return NewModel(fetcher, market.Window12mo, 5, 0)
}

func TestInitialStateIsLoading(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	if !m.loading {
		t.Error("loading = false before the first response")
	}
	if m.fetchGen != 1 {
		t.Errorf("fetchGen = %d, want 1", m.fetchGen)
	}
	if m.summary.TopByValue.Label != market.EmptyLabel {
		t.Errorf("placeholder leader = %q", m.summary.TopByValue.Label)
	}
}

func TestApplyFetchResult(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	next, _ := m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	if next.loading {
		t.Error("loading not cleared")
	}
	if next.summary.TotalTransactions != 2242 {
		t.Errorf("TotalTransactions = %d, want 2242", next.summary.TotalTransactions)
	}
	if next.slots[slotTotal].target != 2242 {
		t.Errorf("total slot target = %f, want 2242", next.slots[slotTotal].target)
	}
	if next.slots[slotTopValue].target != 1150000 {
		t.Errorf("top-value slot target = %f", next.slots[slotTopValue].target)
	}
}

// The last selection issued wins regardless of network completion order.
func TestStaleResponseSuppressed(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.setSelection(market.Window1mo, m.scope)  // gen 2
	m, _ = m.setSelection(market.Window3mo, m.scope)  // gen 3
	m, _ = m.setSelection(market.Window6mo, m.scope)  // gen 4

	// gen 3 resolves first and must be ignored wholesale.
	m, _ = m.applyFetchResult(salesMsg{gen: 3, rows: []market.AggregateRow{{Label: "stale", Count: 999}}})
	if !m.loading {
		t.Error("stale resolution cleared the loading flag")
	}
	if len(m.rows) != 0 {
		t.Error("stale rows were applied")
	}

	// The current generation lands normally afterwards.
	m, _ = m.applyFetchResult(salesMsg{gen: 4, rows: boroughFixture()})
	if m.loading {
		t.Error("current-generation resolution did not clear loading")
	}
	if len(m.rows) != 2 || m.rows[0].Label != "Manhattan" {
		t.Errorf("rows = %+v", m.rows)
	}

	// Even later, the long-delayed gen 2 must still be dropped.
	m, _ = m.applyFetchResult(salesMsg{gen: 2, rows: []market.AggregateRow{{Label: "ancient"}}})
	if m.rows[0].Label != "Manhattan" {
		t.Error("superseded resolution overwrote current rows")
	}
}

func TestFetchFailureKeepsLastRows(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	m, _ = m.setSelection(market.Window3mo, m.scope)
	m, _ = m.applyFetchResult(salesMsg{gen: m.fetchGen, err: errors.New("connection refused")})

	if m.loading {
		t.Error("loading stuck after failure")
	}
	if len(m.rows) != 2 {
		t.Error("failure overwrote last-known rows")
	}
	if m.status == "" {
		t.Error("failure not surfaced in status")
	}
}

func TestScopeSwitchClearsRowsImmediately(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	m, cmd := m.setSelection(m.window, market.BoroughScope("Brooklyn"))
	if cmd == nil {
		t.Fatal("no fetch dispatched")
	}
	if len(m.rows) != 0 {
		t.Error("opposite-granularity rows still displayed after scope switch")
	}
	if !m.loading {
		t.Error("loading = false after scope switch")
	}
	if m.summary.TopByValue.Label != market.EmptyLabel {
		t.Error("summary not reset with the rows")
	}
}

func TestWindowChangeKeepsRowsUntilResponse(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	m, _ = m.setSelection(market.Window1mo, m.scope)
	if len(m.rows) != 2 {
		t.Error("same-scope window change dropped rows early")
	}
}

func TestFetchCmdRoutesByScope(t *testing.T) {
	fetcher := &stubFetcher{
		boroughRows:   boroughFixture(),
		neighborhoods: []market.AggregateRow{{Label: "Park Slope", Count: 95, MedianValue: 1250000}},
	}
	m := newTestModel(fetcher)

	msg := m.fetchCmd(1)()
	sm, ok := msg.(salesMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if fetcher.recentCalls != 1 || sm.rows[0].Label != "Manhattan" {
		t.Errorf("all-boroughs fetch not routed: %+v", sm)
	}
	if fetcher.lastMonths != 12 {
		t.Errorf("months = %d, want 12", fetcher.lastMonths)
	}

	m, _ = m.setSelection(market.Window3mo, market.BoroughScope("Brooklyn"))
	msg = m.fetchCmd(m.fetchGen)()
	sm = msg.(salesMsg)
	if fetcher.neighborCalls != 1 || fetcher.lastBorough != "Brooklyn" {
		t.Error("borough scope not routed to the neighborhood endpoint")
	}
	if sm.rows[0].Label != "Park Slope" {
		t.Errorf("rows = %+v", sm.rows)
	}
}

func TestKeyDrillInAndBack(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if next.scope.AllBoroughs() {
		t.Fatal("enter did not drill into the selected borough")
	}
	if next.scope.Borough != "Manhattan" {
		t.Errorf("drilled into %q, want table selection Manhattan", next.scope.Borough)
	}

	back, _ := next.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if !back.scope.AllBoroughs() {
		t.Error("esc did not return to the all-boroughs scope")
	}
	if back.fetchGen != next.fetchGen+1 {
		t.Error("esc did not supersede the drill-in fetch")
	}
}

func TestKeyWindowSelection(t *testing.T) {
	m := newTestModel(&stubFetcher{})

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if next.window != market.Window3mo {
		t.Errorf("window = %v, want 3mo for key 2", next.window)
	}

	next, _ = next.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	if next.window != market.Window6mo {
		t.Errorf("window = %v, want cycle to 6mo", next.window)
	}
}

func TestQuitBumpsGeneration(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	before := m.fetchGen
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if next.fetchGen != before+1 {
		t.Error("teardown did not invalidate in-flight fetches")
	}
	if cmd == nil {
		t.Error("quit command missing")
	}
}

func TestConfigMsgEnablesRefresh(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	updated, cmd := m.Update(ConfigMsg{RefreshIntervalSeconds: 60})
	next := updated.(Model)
	if next.refreshEvery != 60*time.Second {
		t.Errorf("refreshEvery = %v", next.refreshEvery)
	}
	if cmd == nil {
		t.Error("enabling refresh did not schedule a tick")
	}

	// Re-tuning replaces the chain: new epoch, new tick.
	epoch := next.refreshEpoch
	updated, cmd = next.Update(ConfigMsg{RefreshIntervalSeconds: 30})
	next = updated.(Model)
	if next.refreshEvery != 30*time.Second {
		t.Errorf("refreshEvery = %v", next.refreshEvery)
	}
	if next.refreshEpoch != epoch+1 {
		t.Error("retune did not supersede the old tick chain")
	}
	if cmd == nil {
		t.Error("retune did not start a replacement tick chain")
	}

	// An unchanged interval is a no-op.
	updated, cmd = next.Update(ConfigMsg{RefreshIntervalSeconds: 30})
	next = updated.(Model)
	if next.refreshEpoch != epoch+1 {
		t.Error("unchanged interval superseded the chain")
	}
	if cmd != nil {
		t.Error("unchanged interval scheduled a tick")
	}
}

func TestRefreshTickFromSupersededChainDropped(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	updated, _ := m.Update(ConfigMsg{RefreshIntervalSeconds: 60})
	m = updated.(Model)
	staleEpoch := m.refreshEpoch

	// Disable, then re-enable before the old chain's pending tick fires.
	updated, _ = m.Update(ConfigMsg{RefreshIntervalSeconds: 0})
	m = updated.(Model)
	updated, _ = m.Update(ConfigMsg{RefreshIntervalSeconds: 30})
	m = updated.(Model)

	gen := m.fetchGen
	updated, cmd := m.Update(refreshTickMsg{epoch: staleEpoch})
	m = updated.(Model)
	if m.fetchGen != gen {
		t.Error("stale-chain tick issued a fetch")
	}
	if cmd != nil {
		t.Error("stale-chain tick rescheduled itself")
	}

	// The current chain still refreshes and reschedules.
	updated, cmd = m.Update(refreshTickMsg{epoch: m.refreshEpoch})
	m = updated.(Model)
	if m.fetchGen != gen+1 {
		t.Error("current-chain tick did not refresh the selection")
	}
	if cmd == nil {
		t.Error("current-chain tick did not reschedule")
	}
}

func TestFrameMsgAdvancesSlots(t *testing.T) {
	m := newTestModel(&stubFetcher{})
	m, _ = m.applyFetchResult(salesMsg{gen: 1, rows: boroughFixture()})

	updated, cmd := m.Update(frameMsg(time.Now()))
	next := updated.(Model)
	if cmd == nil {
		t.Error("frame tick chain stopped")
	}
	if next.slots[slotTotal].Display() <= 0 {
		t.Error("slot did not start moving toward its target")
	}
}
