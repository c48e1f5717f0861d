package market

import "strconv"

// TimeWindow is the trailing number of months a sales query covers.
type TimeWindow int

const (
	Window1mo  TimeWindow = 1
	Window3mo  TimeWindow = 3
	Window6mo  TimeWindow = 6
	Window12mo TimeWindow = 12
)

var ValidTimeWindows = []TimeWindow{
	Window1mo,
	Window3mo,
	Window6mo,
	Window12mo,
}

// Months returns the window size in months.
func (tw TimeWindow) Months() int {
	for _, v := range ValidTimeWindows {
		if tw == v {
			return int(tw)
		}
	}
	return int(Window12mo)
}

func (tw TimeWindow) Label() string {
	switch tw {
	case Window1mo:
		return "1 Month"
	case Window3mo:
		return "3 Months"
	case Window6mo:
		return "6 Months"
	case Window12mo:
		return "12 Months"
	default:
		return "12 Months"
	}
}

// Short is the compact form used in the header tabs, e.g. "6mo".
func (tw TimeWindow) Short() string {
	return strconv.Itoa(tw.Months()) + "mo"
}

func ParseTimeWindow(months int) TimeWindow {
	for _, tw := range ValidTimeWindows {
		if int(tw) == months {
			return tw
		}
	}
	return Window12mo
}

// NextTimeWindow returns the next window in the cycle.
func NextTimeWindow(current TimeWindow) TimeWindow {
	for i, tw := range ValidTimeWindows {
		if tw == current {
			return ValidTimeWindows[(i+1)%len(ValidTimeWindows)]
		}
	}
	return ValidTimeWindows[0]
}
