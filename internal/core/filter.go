package core

// FilterAll is the wildcard accepted by both filter dimensions.
const FilterAll = "All"

// FilterRequests returns the subset matching department and month, in the
// input's relative order. Department compares by exact equality; month
// compares the record's "YYYY-MM" key. "All" matches everything on that
// dimension and the two predicates compose with AND. The input is never
// mutated.
func FilterRequests(records []RequestRecord, department, month string) []RequestRecord {
	out := make([]RequestRecord, 0, len(records))
	for _, r := range records {
		if matches(r.Department, department) && matches(r.MonthKey(), month) {
			out = append(out, r)
		}
	}
	return out
}

// FilterUsages is FilterRequests for the usage ledger.
func FilterUsages(records []UsageRecord, department, month string) []UsageRecord {
	out := make([]UsageRecord, 0, len(records))
	for _, u := range records {
		if matches(u.Department, department) && matches(u.MonthKey(), month) {
			out = append(out, u)
		}
	}
	return out
}

func matches(value, want string) bool {
	return want == FilterAll || want == "" || value == want
}
