package market

// AggregateRow is one geography unit's sales aggregate for a time window:
// a borough in the city-wide view, or a neighborhood when drilled into a
// single borough. Zero values stand in for figures the backend could not
// compute.
type AggregateRow struct {
	Label        string
	Count        int
	MedianValue  float64
	AverageValue float64
}

// Scope selects the geography granularity being viewed. An empty Borough
// means the city-wide per-borough view. Exactly one scope is active at a
// time; rows from the other granularity are never displayed alongside it.
type Scope struct {
	Borough string
}

func AllBoroughs() Scope { return Scope{} }

func BoroughScope(name string) Scope { return Scope{Borough: name} }

func (s Scope) AllBoroughs() bool { return s.Borough == "" }

func (s Scope) Title() string {
	if s.AllBoroughs() {
		return "All Boroughs"
	}
	return s.Borough
}

// EmptyLabel is the placeholder shown when there are no rows to lead.
const EmptyLabel = "—"

// Leader pairs a geography label with the metric it leads on. For
// TopByVolume the value is a transaction count.
type Leader struct {
	Label string
	Value float64
}

// KpiSummary is the derived headline view of one row collection. It is
// recomputed wholesale whenever the rows change, never mutated in place.
type KpiSummary struct {
	TotalTransactions int
	MeanOfMedians     float64
	TopByValue        Leader
	TopByVolume       Leader
}
