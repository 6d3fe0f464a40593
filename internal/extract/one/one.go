// Package one scans the free-text itinerary pages produced by the ONE
// booking portal. The text has no table structure: each sailing is
// anchored by a transit-time line like "11 DAY(S)", and the fields worth
// keeping appear on loosely positioned lines nearby.
package one

import (
	"regexp"
	"strings"

	"github.com/portcall/sailsched/internal/pdftext"
	"github.com/portcall/sailsched/internal/schedule"
	"github.com/portcall/sailsched/internal/textnorm"
)

// windowLines bounds how far below its anchor a sailing's fields may
// appear, anchor line included. Fields further away belong to whatever
// comes next on the page.
const windowLines = 20

// vesselLookahead is how many lines below the anchor the vessel/voyage
// pair may start when the portal omits the "Vessel / Voyage" label.
const vesselLookahead = 3

var (
	anchorRe = regexp.MustCompile(`^(\d+)\s+DAY\(S\)`)
	// Labelled variant: the line after the anchor holds exactly
	// "VESSEL NAME 123X".
	labelledPairRe = regexp.MustCompile(`^([A-Z\s]+?)(\s+\d+[A-Z]+)$`)
	// Unlabelled variant: the pair is embedded at the start of a longer
	// line, so the voyage must be followed by more text.
	embeddedPairRe = regexp.MustCompile(`^([A-Z][A-Z\s]+?)(\s+\d+[A-Z]+)\s`)
	isoDateRe      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	serviceHeadRe  = regexp.MustCompile(`Service.*?Origin.*?Destination`)
)

// Tokens that can never be a service code on the line under the service
// header.
var notService = map[string]bool{"CY": true, "Origin": true, "Destination": true}

const (
	originHead        = "Origin Destination"
	transshipmentMark = "TRANSSHIPMENT"
	maxServiceLen     = 5
)

// Extractor reads ONE itinerary text out of PDF payloads.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Carrier() schedule.Carrier { return schedule.ONE }

func (e *Extractor) Extract(data []byte) ([]schedule.Record, error) {
	doc, err := pdftext.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var out []schedule.Record
	for _, page := range doc.Pages {
		out = append(out, scanPage(page.Lines)...)
	}
	return out, nil
}

// entry accumulates one sailing while its window is open. Fields are
// first-wins: a value seen close to the anchor is never overwritten by
// text that happens to sit inside the window but belongs to the next
// sailing.
type entry struct {
	transit string
	vessel  string
	voyage  string
	service string
	etd     string
	eta     string
	tsPort  string
	left    int
}

func (c *entry) record() schedule.Record {
	return schedule.Record{
		Carrier:     schedule.ONE,
		Service:     c.service,
		Vessel:      c.vessel,
		Voyage:      c.voyage,
		ETD:         c.etd,
		ETA:         c.eta,
		TransitTime: c.transit,
		TSPort:      c.tsPort,
	}
}

// scanPage walks the page top to bottom. An anchor opens a collection
// window; the window closes on exhaustion, on the next anchor, or at the
// end of the page, and a complete entry is emitted at that point.
func scanPage(raw []string) []schedule.Record {
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = textnorm.Line(l)
	}

	var out []schedule.Record
	var cur *entry
	flush := func() {
		if cur == nil {
			return
		}
		if r := cur.record(); r.Complete() {
			out = append(out, r)
		}
		cur = nil
	}

	for i, line := range lines {
		if m := anchorRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &entry{transit: m[1], left: windowLines}
			cur.vessel, cur.voyage = vesselVoyage(lines, i)
		}
		if cur == nil {
			continue
		}
		if cur.left == 0 {
			flush()
			continue
		}
		cur.left--

		switch {
		case line == originHead:
			if cur.etd == "" && i+1 < len(lines) {
				cur.etd, cur.eta = datePair(lines[i+1])
			}
		case line == transshipmentMark:
			if cur.tsPort == "" {
				cur.tsPort = transshipmentMark
			}
		case serviceHeadRe.MatchString(line):
			if cur.service == "" && i+1 < len(lines) {
				cur.service = serviceToken(lines[i+1])
			}
		}
	}
	flush()
	return out
}

// vesselVoyage resolves the vessel and voyage for the anchor at lines[i].
// An anchor line carrying the "Vessel / Voyage" label points at the next
// line; otherwise the pair is searched for in the anchor's immediate
// neighborhood.
func vesselVoyage(lines []string, i int) (string, string) {
	if strings.Contains(lines[i], "Vessel / Voyage") && i+1 < len(lines) {
		if m := labelledPairRe.FindStringSubmatch(lines[i+1]); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	}
	for j := i; j < i+vesselLookahead && j < len(lines); j++ {
		if m := embeddedPairRe.FindStringSubmatch(lines[j]); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	}
	return "", ""
}

// datePair pulls ETD and ETA from the line under the "Origin Destination"
// header. The portal prints both legs on one line; fewer than two dates
// means the line belongs to something else.
func datePair(line string) (etd, eta string) {
	ms := isoDateRe.FindAllStringSubmatch(line, -1)
	if len(ms) < 2 {
		return "", ""
	}
	return ms[0][2] + "-" + ms[0][3], ms[1][2] + "-" + ms[1][3]
}

// serviceToken picks the service code from the line under the service
// header: the first short token that is not part of the header furniture.
func serviceToken(line string) string {
	for _, tok := range strings.Fields(line) {
		if !notService[tok] && len(tok) <= maxServiceLen {
			return tok
		}
	}
	return ""
}
