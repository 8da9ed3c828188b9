package catalog

import "time"

// Period is a statistics window choice. Windows are fixed-day spans
// (7/30/365 days), not calendar weeks, months or years.
type Period struct {
	Label string
	Days  int
}

// Span returns the window length as a duration.
func (p Period) Span() time.Duration {
	return time.Duration(p.Days) * 24 * time.Hour
}

var periods = []Period{
	{Label: "За неделю", Days: 7},
	{Label: "За месяц", Days: 30},
	{Label: "За год", Days: 365},
}

// Periods returns the selectable statistics periods in menu order.
func Periods() []Period {
	return append([]Period(nil), periods...)
}

// PeriodLabels returns the period labels in menu order.
func PeriodLabels() []string {
	labels := make([]string, len(periods))
	for i, p := range periods {
		labels[i] = p.Label
	}
	return labels
}

// PeriodByLabel resolves a user-entered period label.
func PeriodByLabel(label string) (Period, bool) {
	for _, p := range periods {
		if p.Label == label {
			return p, true
		}
	}
	return Period{}, false
}
