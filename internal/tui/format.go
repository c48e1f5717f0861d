package tui

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var englishPrinter = message.NewPrinter(language.English)

// FormatMoney renders a dollar amount rounded to whole dollars with
// thousands separators. Anything that is not a finite number renders "$0".
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	return "$" + englishPrinter.Sprintf("%d", int64(math.Round(v)))
}

// FormatCount renders a transaction count with thousands separators.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return englishPrinter.Sprintf("%d", int64(math.Round(v)))
}
