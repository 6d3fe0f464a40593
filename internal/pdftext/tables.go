package pdftext

import (
	"math"
	"sort"
)

// bandSlack absorbs the jitter between cell positions of different rows
// when x-intervals are merged into column bands.
const bandSlack = 2.0

type band struct{ x0, x1 float64 }

// gridify aligns a block's rows into column bands. A block qualifies as a
// table when at least two rows share at least two bands; every row is then
// padded to the full band count so callers can index columns uniformly.
func gridify(block []row) ([][]string, bool) {
	if len(block) < 2 {
		return nil, false
	}
	bands := deriveBands(block)
	if len(bands) < 2 {
		return nil, false
	}

	table := make([][]string, 0, len(block))
	for _, r := range block {
		cells := make([]string, len(bands))
		for _, s := range r.spans {
			i := locateBand(bands, s.mid())
			if cells[i] == "" {
				cells[i] = s.text
			} else {
				cells[i] += " " + s.text
			}
		}
		table = append(table, cells)
	}
	return table, true
}

// deriveBands projects the x-intervals of all spans onto the horizontal
// axis and merges the overlaps. Rows with a single span are left out:
// captions and section titles stretch across the whole block and would
// otherwise collapse every column into one.
func deriveBands(block []row) []band {
	var iv []band
	for _, r := range block {
		if len(r.spans) < 2 {
			continue
		}
		for _, s := range r.spans {
			iv = append(iv, band{s.x0, s.x1})
		}
	}
	if len(iv) == 0 {
		return nil
	}

	sort.Slice(iv, func(i, j int) bool { return iv[i].x0 < iv[j].x0 })
	merged := iv[:1]
	for _, b := range iv[1:] {
		last := &merged[len(merged)-1]
		if b.x0 <= last.x1+bandSlack {
			if b.x1 > last.x1 {
				last.x1 = b.x1
			}
		} else {
			merged = append(merged, b)
		}
	}
	return merged
}

func locateBand(bands []band, x float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, b := range bands {
		if x >= b.x0-bandSlack && x <= b.x1+bandSlack {
			return i
		}
		var d float64
		switch {
		case x < b.x0:
			d = b.x0 - x
		default:
			d = x - b.x1
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
