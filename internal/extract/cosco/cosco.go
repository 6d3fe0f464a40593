// Package cosco decodes the positional schedule tables found in COSCO
// sailing notices. Each sailing occupies a pair of physical rows: the
// first carries service, vessel, voyage, departure and transshipment
// details, the second carries the arrival date a few columns in.
package cosco

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/portcall/sailsched/internal/pdftext"
	"github.com/portcall/sailsched/internal/schedule"
	"github.com/portcall/sailsched/internal/textnorm"
)

// ColumnMap locates the schedule fields inside a decoded table. Indexes
// are zero-based columns; ETA lives on the second row of each pair.
type ColumnMap struct {
	Service int
	Vessel  int
	Voyage  int
	ETD     int
	TSPort  int
	Transit int
	ETARow2 int
	// MinColumns is the narrowest row that can open a row pair. Narrower
	// rows are stepped over one at a time until the pairing realigns.
	MinColumns int
}

// DefaultColumns matches the notice layout COSCO has been issuing since
// the 2024 format change.
var DefaultColumns = ColumnMap{
	Service:    1,
	Vessel:     2,
	Voyage:     3,
	ETD:        6,
	TSPort:     8,
	Transit:    12,
	ETARow2:    9,
	MinColumns: 10,
}

const (
	// DefaultService is the service loop the notices are filtered to.
	DefaultService = "HPX2"
	// DefaultYear anchors the ISO dates expected in the ETD/ETA columns.
	DefaultYear = 2026
)

// headerMark identifies the header row a table must contain before any
// row pairs are decoded.
const headerMark = "Service"

// Extractor reads COSCO positional tables out of PDF payloads.
type Extractor struct {
	service string
	cols    ColumnMap
	dateRe  *regexp.Regexp
}

// New returns an extractor filtered to the given service loop. Dates are
// only accepted when anchored to year, which keeps ringed planning notes
// for other seasons out of the result. Zero values fall back to the
// defaults.
func New(service string, year int) *Extractor {
	return NewWithColumns(service, year, DefaultColumns)
}

// NewWithColumns is New with a caller-supplied column map, for notices
// whose layout has drifted from the default. A zero map falls back to
// DefaultColumns.
func NewWithColumns(service string, year int, cols ColumnMap) *Extractor {
	if service == "" {
		service = DefaultService
	}
	if year == 0 {
		year = DefaultYear
	}
	if cols == (ColumnMap{}) {
		cols = DefaultColumns
	}
	return &Extractor{
		service: service,
		cols:    cols,
		// The hyphen spacing shows up when the date is split across text
		// fragments in the source file.
		dateRe: regexp.MustCompile(fmt.Sprintf(`%d-\s*(\d{2})-\s*(\d{2})`, year)),
	}
}

func (e *Extractor) Carrier() schedule.Carrier { return schedule.COSCO }

// Extract decodes every table on every page. Tables without a header row
// or with fewer than three rows are planning fragments and are skipped.
func (e *Extractor) Extract(data []byte) ([]schedule.Record, error) {
	doc, err := pdftext.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var out []schedule.Record
	for _, page := range doc.Pages {
		for _, table := range page.Tables {
			out = append(out, e.decodeTable(table)...)
		}
	}
	return out, nil
}

func (e *Extractor) decodeTable(table [][]string) []schedule.Record {
	if len(table) < 3 {
		return nil
	}
	header := -1
	for i, row := range table {
		if rowContains(row, headerMark) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil
	}

	var out []schedule.Record
	for i := header + 1; i < len(table); {
		row1 := table[i]
		if len(row1) < e.cols.MinColumns {
			i++
			continue
		}
		if cell(row1, e.cols.Service) != e.service {
			i += 2
			continue
		}

		rec := schedule.Record{
			Carrier:     schedule.COSCO,
			Service:     e.service,
			Vessel:      cell(row1, e.cols.Vessel),
			Voyage:      cell(row1, e.cols.Voyage),
			ETD:         e.monthDay(cell(row1, e.cols.ETD)),
			TSPort:      cell(row1, e.cols.TSPort),
			TransitTime: cell(row1, e.cols.Transit),
		}
		if i+1 < len(table) {
			rec.ETA = e.monthDay(cell(table[i+1], e.cols.ETARow2))
		}
		if rec.Complete() {
			out = append(out, rec)
		}
		i += 2
	}
	return out
}

func (e *Extractor) monthDay(s string) string {
	m := e.dateRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2]
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return textnorm.Clean(row[i])
}

func rowContains(row []string, mark string) bool {
	for _, c := range row {
		if strings.Contains(c, mark) {
			return true
		}
	}
	return false
}
