package analytics

import (
	"strings"
	"time"
)

// Trend describes the first-vs-last movement of one numeric field within
// a group of records.
type Trend struct {
	Direction     string    `json:"trend"`
	ChangePercent float64   `json:"change_percent"`
	Values        []float64 `json:"values"`
}

const (
	// TrendIncreasing labels a strictly rising first-to-last comparison.
	TrendIncreasing = "increasing"
	// TrendDecreasing labels everything else, including an unchanged
	// value. Equal first and last classify as decreasing by contract.
	TrendDecreasing = "decreasing"
)

// ComputeTrend labels the direction and percent change of an ordered
// value series. Fewer than two values yields no trend (second return
// false). A zero first value pins the change percent at 0 to avoid a
// division fault; the direction still reflects the comparison. The
// emitted sample is truncated to sampleCap values to bound output size.
func ComputeTrend(values []float64, sampleCap int) (Trend, bool) {
	if len(values) < 2 {
		return Trend{}, false
	}

	first := values[0]
	last := values[len(values)-1]

	direction := TrendDecreasing
	if last > first {
		direction = TrendIncreasing
	}

	change := 0.0
	if first != 0 {
		change = (last - first) / first * 100
	}

	sample := values
	if sampleCap > 0 && len(sample) > sampleCap {
		sample = sample[:sampleCap]
	}

	return Trend{
		Direction:     direction,
		ChangePercent: change,
		Values:        sample,
	}, true
}

// NumericFieldNames discovers the fields across a record set that hold a
// number or a numeric-looking string, in first-encountered order, capped
// at fieldCap distinct names. The cap controls output size, not
// correctness; first-encountered order keeps it deterministic for a
// given input order.
func NumericFieldNames(records []Record, fieldCap int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		for _, f := range rec.Fields() {
			if seen[f.Name] {
				continue
			}
			if _, ok := f.Value.Float(); !ok {
				continue
			}
			seen[f.Name] = true
			names = append(names, f.Name)
			if fieldCap > 0 && len(names) >= fieldCap {
				return names
			}
		}
	}
	return names
}

// FieldTrends computes a trend per candidate numeric field across a
// group's records. Fields with fewer than two usable values are omitted.
func FieldTrends(records []Record, fieldCap, sampleCap int) map[string]Trend {
	trends := make(map[string]Trend)
	for _, field := range NumericFieldNames(records, fieldCap) {
		values := NumericSubset(CollectValues(records, field))
		if t, ok := ComputeTrend(values, sampleCap); ok {
			trends[field] = t
		}
	}
	return trends
}

// DateRange summarizes the span of date-like values found in a group.
type DateRange struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
}

// dateLayouts are tried in order when parsing date-like field values.
// REDCap exports are inconsistent about formats, so parsing is permissive
// and unparsable values are simply ignored.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ComputeDateRange scans every field whose name contains "date"
// (case-insensitive) across the records and returns the min/max span of
// the values that parse as dates. When nothing parses, the range is empty
// with a zero duration.
func ComputeDateRange(records []Record) DateRange {
	var dates []time.Time
	for _, rec := range records {
		for _, f := range rec.Fields() {
			if !strings.Contains(strings.ToLower(f.Name), "date") {
				continue
			}
			if f.Value.IsEmpty() {
				continue
			}
			if t, ok := parseDate(f.Value.Raw()); ok {
				dates = append(dates, t)
			}
		}
	}

	if len(dates) == 0 {
		return DateRange{}
	}

	minDate, maxDate := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	return DateRange{
		StartDate:    minDate.Format("2006-01-02"),
		EndDate:      maxDate.Format("2006-01-02"),
		DurationDays: int(maxDate.Sub(minDate).Hours() / 24),
	}
}
