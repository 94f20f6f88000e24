package core

import "sort"

type (
	// GroupTotal is one aggregated row: a group key and its summed total.
	GroupTotal struct {
		Key   string
		Total float64
	}

	// UsageCount is one aggregated usage row summing quantities used.
	UsageCount struct {
		Key      string
		Quantity int
	}
)

// TotalsByDepartment groups request records by department and sums totals.
// Rows come back in ascending department order so repeated runs over the
// same data render identically.
func TotalsByDepartment(records []RequestRecord) []GroupTotal {
	sums := map[string]float64{}
	for _, r := range records {
		sums[r.Department] += r.Total
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TopItems groups request records by item description, sums totals, and
// returns at most n rows sorted non-increasing by total. Ties keep the
// order in which descriptions first appeared in the input.
func TopItems(records []RequestRecord, n int) []GroupTotal {
	sums := map[string]float64{}
	first := map[string]int{}
	for i, r := range records {
		if _, seen := sums[r.Description]; !seen {
			first[r.Description] = i
		}
		sums[r.Description] += r.Total
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Total: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return first[out[i].Key] < first[out[j].Key]
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TotalsByMonth groups request records by "YYYY-MM" and sums totals,
// sorted chronologically for the trend chart.
func TotalsByMonth(records []RequestRecord) []GroupTotal {
	sums := map[string]float64{}
	for _, r := range records {
		sums[r.MonthKey()] += r.Total
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, GroupTotal{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// GrandTotal sums Total over the given records.
func GrandTotal(records []RequestRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Total
	}
	return sum
}

// UsageByDepartment groups usage records by department and sums the
// quantities used. Rows are sorted ascending by department.
func UsageByDepartment(records []UsageRecord) []UsageCount {
	sums := map[string]int{}
	for _, u := range records {
		sums[u.Department] += u.QuantityUsed
	}
	out := make([]UsageCount, 0, len(sums))
	for k, v := range sums {
		out = append(out, UsageCount{Key: k, Quantity: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
