// Package sitc decodes the structured worksheets SITC distributes. The
// workbook shape is fixed: the service name sits in the top-left header
// cell, the transit time in a metadata cell on row four, and the sailings
// follow as plain rows of vessel, voyage, ETD and ETA.
package sitc

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/portcall/sailsched/internal/dates"
	"github.com/portcall/sailsched/internal/schedule"
	"github.com/portcall/sailsched/internal/textnorm"
)

// Layout locates the fixed cells and columns of the worksheet. Rows and
// columns are zero-based.
type Layout struct {
	HeaderRow, HeaderCol   int
	TransitRow, TransitCol int
	FirstDataRow           int
	Vessel, Voyage         int
	ETD, ETA               int
}

// DefaultLayout matches the workbook SITC has been sending: header in A1,
// transit note in D4, data from row 5 across columns A to D.
var DefaultLayout = Layout{
	TransitRow: 3, TransitCol: 3,
	FirstDataRow: 4,
	Vessel:       0, Voyage: 1, ETD: 2, ETA: 3,
}

var (
	// The service code is the first letters-digits token in the header,
	// e.g. "CBX2" in "CBX2 DIRECT SERVICE".
	serviceRe = regexp.MustCompile(`([A-Z]+\d+[A-Z]*)`)
	transitRe = regexp.MustCompile(`(?i)(\d+)\s*days?`)
)

// skipMark flags rows the carrier crossed out before sending.
const skipMark = "SKIP"

// Extractor reads SITC worksheets out of workbook payloads.
type Extractor struct {
	layout Layout
}

func New() *Extractor { return &Extractor{layout: DefaultLayout} }

// NewWithLayout is New with a caller-supplied cell layout, for workbooks
// that moved the header or data block. A zero layout falls back to
// DefaultLayout.
func NewWithLayout(l Layout) *Extractor {
	if l == (Layout{}) {
		l = DefaultLayout
	}
	return &Extractor{layout: l}
}

func (e *Extractor) Carrier() schedule.Carrier { return schedule.SITC }

// Extract opens the workbook and decodes the active sheet, or the first
// when no active sheet is recorded. Raw cell values are requested so date
// cells surface as day serials instead of whatever display format the
// sender left behind.
func (e *Extractor) Extract(data []byte) ([]schedule.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sitc: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("sitc: workbook has no sheets")
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sitc: read rows: %w", err)
	}
	return e.decodeRows(rows), nil
}

func (e *Extractor) decodeRows(rows [][]string) []schedule.Record {
	header := textnorm.Clean(cellAt(rows, e.layout.HeaderRow, e.layout.HeaderCol))

	var service string
	if m := serviceRe.FindStringSubmatch(header); m != nil {
		service = m[1]
	}
	var tsPort string
	if strings.Contains(strings.ToUpper(header), "DIRECT") {
		tsPort = "DIRECT"
	}
	var transit string
	if m := transitRe.FindStringSubmatch(cellAt(rows, e.layout.TransitRow, e.layout.TransitCol)); m != nil {
		transit = m[1]
	}

	var out []schedule.Record
	for r := e.layout.FirstDataRow; r < len(rows); r++ {
		row := rows[r]
		vessel := textnorm.Clean(at(row, e.layout.Vessel))
		voyage := textnorm.Clean(at(row, e.layout.Voyage))
		etaRaw := at(row, e.layout.ETA)

		if strings.Contains(strings.ToUpper(vessel), skipMark) ||
			strings.Contains(strings.ToUpper(etaRaw), skipMark) {
			continue
		}
		if vessel == "" || voyage == "" {
			continue
		}

		rec := schedule.Record{
			Carrier:     schedule.SITC,
			Service:     service,
			Vessel:      vessel,
			Voyage:      voyage,
			ETD:         dates.MonthDayCell(textnorm.Clean(at(row, e.layout.ETD))),
			ETA:         dates.MonthDayCell(textnorm.Clean(etaRaw)),
			TransitTime: transit,
			TSPort:      tsPort,
		}
		if rec.Complete() {
			out = append(out, rec)
		}
	}
	return out
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) {
		return ""
	}
	return at(rows[r], c)
}

func at(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
