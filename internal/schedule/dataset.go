package schedule

import (
	"sort"
	"strings"
)

// Dataset is an ordered sequence of records owned by one processing session.
// The aggregation helpers below return fresh slices; a caller's slice is
// never reordered in place.
type Dataset []Record

// Merge concatenates per-extractor record groups in invocation order without
// reordering.
func Merge(groups ...[]Record) Dataset {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	out := make(Dataset, 0, n)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Dedupe removes records that are exact duplicates across every field. The
// first occurrence wins and the order of the survivors is preserved.
func (d Dataset) Dedupe() Dataset {
	seen := make(map[Record]struct{}, len(d))
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortByETD returns a copy stably sorted ascending by the ETD string.
// Lexicographic MM-DD order matches calendar order only within a single
// year; year-spanning datasets are unsupported.
func (d Dataset) SortByETD() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ETD < out[j].ETD })
	return out
}

// MonthRange bounds ETD months on either side. A zero bound is unset. When
// both bounds are set and Start > End the range wraps around the year end
// (e.g. 12-2 keeps December through February).
type MonthRange struct {
	Start int
	End   int
}

// Unset reports whether neither bound is set.
func (mr MonthRange) Unset() bool { return mr.Start == 0 && mr.End == 0 }

// Contains reports whether month (1-12) falls inside the range. Months
// outside 1-12 are never contained.
func (mr MonthRange) Contains(month int) bool {
	if month < 1 || month > 12 {
		return false
	}
	switch {
	case mr.Unset():
		return true
	case mr.Start == 0:
		return month <= mr.End
	case mr.End == 0:
		return month >= mr.Start
	case mr.Start <= mr.End:
		return month >= mr.Start && month <= mr.End
	default:
		// Wraparound reading for Start > End.
		return month >= mr.Start || month <= mr.End
	}
}

// FilterMonths returns the records whose ETD month satisfies mr. With both
// bounds unset the dataset is returned unchanged; otherwise records without a
// parseable month are dropped.
func (d Dataset) FilterMonths(mr MonthRange) Dataset {
	if mr.Unset() {
		return d
	}
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if mr.Contains(r.Month()) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCarriers keeps records from the named carriers. An empty list keeps
// everything; names are matched case-insensitively.
func (d Dataset) FilterCarriers(names []string) Dataset {
	return d.filter(names, func(r Record) string { return string(r.Carrier) })
}

// FilterServices keeps records on the named service loops. An empty list
// keeps everything; names are matched case-insensitively.
func (d Dataset) FilterServices(names []string) Dataset {
	return d.filter(names, func(r Record) string { return r.Service })
}

func (d Dataset) filter(names []string, key func(Record) string) Dataset {
	if len(names) == 0 {
		return d
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.ToUpper(strings.TrimSpace(n))] = struct{}{}
	}
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if _, ok := want[strings.ToUpper(key(r))]; ok {
			out = append(out, r)
		}
	}
	return out
}
