package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/portcall/sailsched/internal/extract/cosco"
	"github.com/portcall/sailsched/internal/extract/sitc"
	"github.com/portcall/sailsched/internal/schedule"
)

// Defaults for everything a flag can set. The file-config overlay compares
// against these to tell "left at default" apart from "set explicitly".
const (
	DefaultOutputPath = "schedule.xlsx"
	defaultWorkers    = 4
)

// Options is the resolved configuration of one pipeline run.
type Options struct {
	// OutputPath is where the workbook goes; CSVPath is optional.
	OutputPath string
	CSVPath    string
	// Timestamp stamps the workbook name with the render time.
	Timestamp bool
	// Summary adds the summary sheet to the workbook.
	Summary bool
	// Dedupe drops exact duplicate records after merging.
	Dedupe bool
	// Months keeps only sailings departing inside the range.
	Months schedule.MonthRange
	// Service and Year parameterize the positional-table extractor.
	Service string
	Year    int
	// Columns and Layout override extractor geometry, zero meaning the
	// extractor defaults. Only the config file sets these.
	Columns cosco.ColumnMap
	Layout  sitc.Layout
	// Workers caps how many files are processed concurrently.
	Workers int
	// Tags assigns a carrier to a file name ahead of auto-detection.
	Tags map[string]string
}

// DefaultOptions returns the options a bare invocation runs with.
func DefaultOptions() Options {
	return Options{
		OutputPath: DefaultOutputPath,
		Summary:    true,
		Dedupe:     true,
		Service:    cosco.DefaultService,
		Year:       cosco.DefaultYear,
		Workers:    defaultWorkers,
	}
}

// ValidateOptions performs minimal schema validation before a run.
func ValidateOptions(o Options) error {
	if strings.TrimSpace(o.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if strings.TrimSpace(o.Service) == "" {
		return errors.New("config: service code is required")
	}
	if o.Year < 2000 || o.Year > 2199 {
		return fmt.Errorf("config: year %d out of range", o.Year)
	}
	if o.Workers < 0 {
		return errors.New("config: negative worker count is not allowed")
	}
	for _, m := range []int{o.Months.Start, o.Months.End} {
		if m < 0 || m > 12 {
			return fmt.Errorf("config: month %d out of range", m)
		}
	}
	return nil
}

// ParseMonths reads a month range in the forms "2", "2-5" or "12-2"
// (wrapping over the year end). The empty string means no filtering.
func ParseMonths(s string) (schedule.MonthRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return schedule.MonthRange{}, nil
	}

	parse := func(part string) (int, error) {
		m, err := strconv.Atoi(part)
		if err != nil || m < 1 || m > 12 {
			return 0, fmt.Errorf("config: %q is not a month", part)
		}
		return m, nil
	}

	start, end, found := strings.Cut(s, "-")
	from, err := parse(start)
	if err != nil {
		return schedule.MonthRange{}, err
	}
	if !found {
		return schedule.MonthRange{Start: from, End: from}, nil
	}
	to, err := parse(end)
	if err != nil {
		return schedule.MonthRange{}, err
	}
	return schedule.MonthRange{Start: from, End: to}, nil
}
