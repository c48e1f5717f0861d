package market

import (
	"sort"

	"github.com/samber/lo"
)

// ComputeSummary derives the headline KPIs from one response's rows. It is
// total over any row contents: an empty collection yields placeholder
// leaders and zero aggregates, and absent medians count as zero in both the
// sum and the denominator.
func ComputeSummary(rows []AggregateRow) KpiSummary {
	summary := KpiSummary{
		TopByValue:  Leader{Label: EmptyLabel},
		TopByVolume: Leader{Label: EmptyLabel},
	}
	if len(rows) == 0 {
		return summary
	}

	summary.TotalTransactions = lo.SumBy(rows, func(r AggregateRow) int { return r.Count })
	summary.MeanOfMedians = lo.SumBy(rows, func(r AggregateRow) float64 { return r.MedianValue }) / float64(len(rows))

	// Strict > keeps the first occurrence among equal maxima.
	best, busiest := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.MedianValue > best.MedianValue {
			best = r
		}
		if r.Count > busiest.Count {
			busiest = r
		}
	}
	summary.TopByValue = Leader{Label: best.Label, Value: best.MedianValue}
	summary.TopByVolume = Leader{Label: busiest.Label, Value: float64(busiest.Count)}
	return summary
}

// TopNByValue returns the n rows with the highest median sale price,
// highest first. Ties keep their response order.
func TopNByValue(rows []AggregateRow, n int) []AggregateRow {
	sorted := SortByMedianDesc(rows)
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortByMedianDesc returns a copy of rows sorted descending by median sale
// price, preserving response order among equal medians.
func SortByMedianDesc(rows []AggregateRow) []AggregateRow {
	out := make([]AggregateRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MedianValue > out[j].MedianValue
	})
	return out
}
