package analytics

import (
	"sort"
	"strconv"
)

// FieldStats is the per-field statistic bundle used for categorical and
// mixed-type fields: a raw-value occurrence count plus an average over
// whatever subset of the values coerced to numbers.
type FieldStats struct {
	Count        int            `json:"count"`
	Average      float64        `json:"average"`
	Distribution map[string]int `json:"distribution"`
}

// FieldSummary pairs a field name with its stats. Slices of FieldSummary
// preserve allow-list order so that argmax selection stays deterministic.
type FieldSummary struct {
	Field string
	Stats FieldStats
}

// CollectValues gathers the present, non-empty values of a field across a
// record set, in record order.
func CollectValues(records []Record, field string) []Value {
	var values []Value
	for _, rec := range records {
		if v := rec.Get(field); !v.IsEmpty() {
			values = append(values, v)
		}
	}
	return values
}

// NumericSubset coerces values to floats, silently dropping anything that
// does not parse. The record corpus is expected to be dirty; skipping is
// the contract, not an error path.
func NumericSubset(values []Value) []float64 {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Float(); ok {
			nums = append(nums, f)
		}
	}
	return nums
}

// Distribution counts occurrences keyed by the raw (pre-coercion) value,
// so categorical fields like visit types are countable alongside numeric
// ones.
func Distribution(values []Value) map[string]int {
	dist := make(map[string]int, len(values))
	for _, v := range values {
		dist[v.Raw()]++
	}
	return dist
}

// IntDistribution buckets coerced numeric values by their integer part,
// used for score-style fields where 6.0 and 6 are the same bucket.
func IntDistribution(nums []float64) map[string]int {
	dist := make(map[string]int, len(nums))
	for _, f := range nums {
		dist[strconv.Itoa(int(f))]++
	}
	return dist
}

// Mean averages a numeric subset. An empty subset yields 0 — the
// documented sentinel for "no usable data", distinguishable from a real
// zero only via the accompanying count.
func Mean(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

// Median returns the middle value of a numeric subset (average of the two
// middles for even lengths). Empty subsets yield the 0 sentinel.
func Median(nums []float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// WithinRangePercent returns the share of values inside [lo, hi],
// inclusive, as a percentage. No valid values yields 0 rather than a
// division fault.
func WithinRangePercent(nums []float64, lo, hi float64) float64 {
	if len(nums) == 0 {
		return 0
	}
	within := 0
	for _, f := range nums {
		if f >= lo && f <= hi {
			within++
		}
	}
	return float64(within) / float64(len(nums)) * 100
}

// SummarizeField builds the statistic bundle for one field across a
// record set: raw count and distribution over every present value, with
// the average restricted to the coercible subset.
func SummarizeField(records []Record, field string) FieldStats {
	values := CollectValues(records, field)
	return FieldStats{
		Count:        len(values),
		Average:      Mean(NumericSubset(values)),
		Distribution: Distribution(values),
	}
}

// TotalCount sums the per-field counts of an ordered summary list.
func TotalCount(summaries []FieldSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.Stats.Count
	}
	return total
}

// MostCommonField returns the field with the highest count. Ties go to
// the field encountered first, which is deterministic because summaries
// preserve allow-list order. Empty input returns "".
func MostCommonField(summaries []FieldSummary) string {
	best := ""
	bestCount := -1
	for _, s := range summaries {
		if s.Stats.Count > bestCount {
			best = s.Field
			bestCount = s.Stats.Count
		}
	}
	return best
}
