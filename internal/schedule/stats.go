package schedule

import "sort"

// Stats summarises a dataset for the preview output and the workbook summary
// sheet: total record count, per-carrier / per-service / per-port breakdowns,
// and the ETD range.
type Stats struct {
	Total       int
	ByCarrier   map[Carrier]int
	ByService   map[string]int
	ByTSPort    map[string]int
	EarliestETD string
	LatestETD   string
}

// Stats computes summary statistics. Empty service and T/S port values are
// excluded from their breakdowns.
func (d Dataset) Stats() Stats {
	s := Stats{
		Total:     len(d),
		ByCarrier: make(map[Carrier]int),
		ByService: make(map[string]int),
		ByTSPort:  make(map[string]int),
	}
	for _, r := range d {
		s.ByCarrier[r.Carrier]++
		if r.Service != "" {
			s.ByService[r.Service]++
		}
		if r.TSPort != "" {
			s.ByTSPort[r.TSPort]++
		}
		if s.EarliestETD == "" || r.ETD < s.EarliestETD {
			s.EarliestETD = r.ETD
		}
		if r.ETD > s.LatestETD {
			s.LatestETD = r.ETD
		}
	}
	return s
}

// CarriersByCount returns the carriers present in the stats ordered by
// descending count, ties broken by name, so summary output is deterministic.
func (s Stats) CarriersByCount() []Carrier {
	out := make([]Carrier, 0, len(s.ByCarrier))
	for c := range s.ByCarrier {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if s.ByCarrier[out[i]] != s.ByCarrier[out[j]] {
			return s.ByCarrier[out[i]] > s.ByCarrier[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
