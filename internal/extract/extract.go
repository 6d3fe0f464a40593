// Package extract routes uploaded schedule files to carrier-specific
// extractors and records the outcome of every attempt. Resolution is
// two-stage: an explicit carrier tag wins, then a carrier token in the
// file name, and only then the payload format decides which extractors
// are worth trying.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/portcall/sailsched/internal/extract/cosco"
	"github.com/portcall/sailsched/internal/extract/one"
	"github.com/portcall/sailsched/internal/extract/sitc"
	"github.com/portcall/sailsched/internal/schedule"
)

// File is one uploaded document. Tag is the caller-assigned carrier, empty
// when the carrier has to be inferred.
type File struct {
	Name string
	Data []byte
	Tag  string
}

// Extractor pulls schedule records out of one document format. Extractors
// report what they found; deciding whether an empty result is a failure is
// the caller's business.
type Extractor interface {
	Carrier() schedule.Carrier
	Extract(data []byte) ([]schedule.Record, error)
}

// Attempt is the recorded outcome of running one extractor over one file.
type Attempt struct {
	Carrier schedule.Carrier
	Records int
	Err     error
}

// Config carries the tunables the extractors need. Zero values mean the
// extractor defaults.
type Config struct {
	// Service filters positional-table rows to one service loop.
	Service string
	// Year anchors the ISO dates expected in positional tables.
	Year int
	// Columns overrides the positional-table column map.
	Columns cosco.ColumnMap
	// Layout overrides the worksheet cell layout.
	Layout sitc.Layout
}

// Format classifies a payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatWorkbook
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatWorkbook:
		return "workbook"
	default:
		return "unknown"
	}
}

var (
	magicPDF = []byte("%PDF")
	magicZIP = []byte("PK\x03\x04")
	// Legacy OLE2 workbooks carry the compound-file signature. They are
	// classified as workbooks and fail later with a readable error rather
	// than being silently skipped.
	magicOLE2 = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
)

// DetectFormat sniffs the payload magic first and falls back to the file
// extension for empty or truncated payloads.
func DetectFormat(name string, payload []byte) Format {
	switch {
	case bytes.HasPrefix(payload, magicPDF):
		return FormatPDF
	case bytes.HasPrefix(payload, magicZIP), bytes.HasPrefix(payload, magicOLE2):
		return FormatWorkbook
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".xlsx", ".xlsm", ".xls":
		return FormatWorkbook
	}
	return FormatUnknown
}

// ParseCarrier maps a user-supplied tag to a carrier.
func ParseCarrier(s string) (schedule.Carrier, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(schedule.COSCO):
		return schedule.COSCO, true
	case string(schedule.ONE):
		return schedule.ONE, true
	case string(schedule.SITC):
		return schedule.SITC, true
	}
	return "", false
}

// carrierFromName looks for a carrier token in the file name. SITC is
// checked before ONE because "one" matches as a plain substring far too
// easily; substring matching itself is kept because carriers really do
// name their files this way.
func carrierFromName(name string) (schedule.Carrier, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "sitc"):
		return schedule.SITC, true
	case strings.Contains(lower, "cosco"):
		return schedule.COSCO, true
	case strings.Contains(lower, "one"):
		return schedule.ONE, true
	}
	return "", false
}

// Resolve returns the extractors to try for f, most specific first. A
// tagged or name-matched file gets exactly one candidate; an untagged PDF
// is tried as a positional table first and as free text second; an
// untagged workbook only makes sense as a structured worksheet.
func Resolve(f File, cfg Config) []Extractor {
	carrier, ok := ParseCarrier(f.Tag)
	if !ok {
		carrier, ok = carrierFromName(f.Name)
	}
	if ok {
		return []Extractor{forCarrier(carrier, cfg)}
	}

	switch DetectFormat(f.Name, f.Data) {
	case FormatPDF:
		return []Extractor{forCarrier(schedule.COSCO, cfg), one.New()}
	case FormatWorkbook:
		return []Extractor{forCarrier(schedule.SITC, cfg)}
	}
	return nil
}

func forCarrier(c schedule.Carrier, cfg Config) Extractor {
	switch c {
	case schedule.COSCO:
		return cosco.NewWithColumns(cfg.Service, cfg.Year, cfg.Columns)
	case schedule.ONE:
		return one.New()
	default:
		return sitc.NewWithLayout(cfg.Layout)
	}
}

// Run tries the candidates in order and stops at the first one that
// produces records. Extraction failures are absorbed into the attempt
// history so one broken file never takes down a batch.
func Run(f File, candidates []Extractor) ([]schedule.Record, []Attempt) {
	attempts := make([]Attempt, 0, len(candidates))
	for _, ex := range candidates {
		recs, err := runOne(ex, f.Data)
		attempts = append(attempts, Attempt{Carrier: ex.Carrier(), Records: len(recs), Err: err})
		if err == nil && len(recs) > 0 {
			return recs, attempts
		}
	}
	return nil, attempts
}

func runOne(ex Extractor, data []byte) (recs []schedule.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("extractor %s panicked: %v", ex.Carrier(), r)
		}
	}()
	return ex.Extract(data)
}
