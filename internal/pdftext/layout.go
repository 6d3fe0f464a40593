package pdftext

import (
	"sort"
	"strings"
)

const (
	defaultFontSize = 10.0

	// rowTol clusters fragments onto a shared baseline.
	rowTol = 3.0
	// A horizontal gap below glueRatio font sizes continues the same word;
	// below wordRatio it stays inside the same cell with a space between.
	// Anything wider separates cells.
	glueRatio = 0.30
	wordRatio = 1.80
	// blockRatio times the dominant font size is the vertical gap that
	// splits two blocks, with minBlockGap as the floor.
	blockRatio  = 2.5
	minBlockGap = 18.0
)

// span is a run of fragments that belong to the same cell.
type span struct {
	x0, x1 float64
	text   string
}

func (s span) mid() float64 { return (s.x0 + s.x1) / 2 }

// row is one visual line of the page.
type row struct {
	y     float64
	spans []span
}

func (r row) line() string {
	parts := make([]string, 0, len(r.spans))
	for _, s := range r.spans {
		parts = append(parts, s.text)
	}
	return strings.Join(parts, " ")
}

// buildPage turns loose fragments into the page's lines and tables.
func buildPage(frags []fragment) Page {
	if len(frags) == 0 {
		return Page{}
	}

	rows := clusterRows(frags)
	gap := blockGap(frags)

	var page Page
	for _, r := range rows {
		page.Lines = append(page.Lines, r.line())
	}
	for _, block := range splitBlocks(rows, gap) {
		if table, ok := gridify(block); ok {
			page.Tables = append(page.Tables, table)
		}
	}
	return page
}

// clusterRows groups fragments by baseline, top of the page first, and
// merges each row's fragments into spans from left to right.
func clusterRows(frags []fragment) []row {
	sorted := make([]fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var rows []row
	var cur []fragment
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if r := mergeRow(cur); len(r.spans) > 0 {
			rows = append(rows, r)
		}
		cur = nil
	}
	for _, f := range sorted {
		if len(cur) > 0 && cur[0].y-f.y > rowTol {
			flush()
		}
		cur = append(cur, f)
	}
	flush()
	return rows
}

func mergeRow(frags []fragment) row {
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].x < frags[j].x })

	r := row{y: frags[0].y}
	push := func(s span) {
		s.text = strings.TrimSpace(s.text)
		if s.text != "" {
			r.spans = append(r.spans, s)
		}
	}

	cur := span{x0: frags[0].x, x1: frags[0].x + frags[0].w, text: frags[0].s}
	for _, f := range frags[1:] {
		size := f.size
		if size <= 0 {
			size = defaultFontSize
		}
		gap := f.x - cur.x1
		switch {
		case gap <= glueRatio*size:
			cur.text += f.s
		case gap <= wordRatio*size:
			cur.text += " " + f.s
		default:
			push(cur)
			cur = span{x0: f.x, text: f.s}
		}
		if end := f.x + f.w; end > cur.x1 {
			cur.x1 = end
		}
	}
	push(cur)
	return r
}

// blockGap derives the vertical distance that separates two blocks from
// the page's dominant font size.
func blockGap(frags []fragment) float64 {
	counts := map[float64]int{}
	for _, f := range frags {
		if f.size > 0 {
			counts[f.size]++
		}
	}
	dominant, best := defaultFontSize, 0
	for size, n := range counts {
		if n > best || (n == best && size < dominant) {
			dominant, best = size, n
		}
	}
	if gap := blockRatio * dominant; gap > minBlockGap {
		return gap
	}
	return minBlockGap
}

// splitBlocks cuts the top-to-bottom row sequence wherever the baseline
// distance exceeds gap.
func splitBlocks(rows []row, gap float64) [][]row {
	var blocks [][]row
	var cur []row
	for _, r := range rows {
		if len(cur) > 0 && cur[len(cur)-1].y-r.y > gap {
			blocks = append(blocks, cur)
			cur = nil
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}
