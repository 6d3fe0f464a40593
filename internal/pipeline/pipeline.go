// Package pipeline drives a batch run end to end: load files, resolve and
// run extractors, aggregate the records and account for every outcome.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"

	"github.com/portcall/sailsched/internal/extract"
	"github.com/portcall/sailsched/internal/schedule"
)

// ErrNoSchedules reports that the whole batch produced zero records. It is
// the only extraction failure a caller is expected to show the user;
// everything under it is absorbed into the run report.
var ErrNoSchedules = errors.New("no schedules found in any input file")

// LoadFiles reads schedule documents from disk. Unlike extraction
// failures, an unreadable path is an invocation mistake and fails fast.
func LoadFiles(paths []string) ([]extract.File, error) {
	files := make([]extract.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, extract.File{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

type fileResult struct {
	report  FileReport
	records []schedule.Record
}

// Process runs the batch and returns the aggregated dataset together with
// the run report. Files are processed concurrently; results keep the
// input order regardless.
func Process(ctx context.Context, files []extract.File, opts Options) (schedule.Dataset, *Report, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, nil, err
	}
	report := newReport()
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	cfg := extract.Config{
		Service: opts.Service,
		Year:    opts.Year,
		Columns: opts.Columns,
		Layout:  opts.Layout,
	}
	workers := opts.Workers
	if workers == 0 {
		workers = defaultWorkers
	}

	results := iter.Mapper[extract.File, fileResult]{MaxGoroutines: workers}.
		Map(files, func(f *extract.File) fileResult {
			return processFile(*f, cfg, opts.Tags)
		})

	groups := make([][]schedule.Record, 0, len(results))
	for _, res := range results {
		report.Files = append(report.Files, res.report)
		report.Extracted += len(res.records)
		groups = append(groups, res.records)
	}

	ds := schedule.Merge(groups...)
	if opts.Dedupe {
		ds = ds.Dedupe()
	}
	ds = ds.FilterMonths(opts.Months)
	ds = ds.SortByETD()

	report.Total = len(ds)
	report.Finished = time.Now()

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}
	if len(ds) == 0 {
		log.Warn().Str("run", report.RunID).Int("files", len(files)).Msg("no schedules found")
		return nil, report, ErrNoSchedules
	}
	log.Info().
		Str("run", report.RunID).
		Int("files", len(files)).
		Int("extracted", report.Extracted).
		Int("records", report.Total).
		Msg("schedule aggregated")
	return ds, report, nil
}

// processFile resolves, runs and accounts for one file. Every failure
// stays inside the returned report.
func processFile(f extract.File, cfg extract.Config, tags map[string]string) fileResult {
	if f.Tag == "" {
		f.Tag = tags[f.Name]
	}
	fr := FileReport{Name: f.Name, Format: extract.DetectFormat(f.Name, f.Data).String()}

	candidates := extract.Resolve(f, cfg)
	if len(candidates) == 0 {
		log.Warn().Str("file", f.Name).Msg("unsupported file format, skipping")
		return fileResult{report: fr}
	}

	recs, attempts := extract.Run(f, candidates)
	for _, a := range attempts {
		entry := Attempt{Carrier: a.Carrier, Records: a.Records}
		if a.Err != nil {
			entry.Error = a.Err.Error()
			log.Warn().Err(a.Err).Str("file", f.Name).Str("carrier", string(a.Carrier)).Msg("extraction attempt failed")
		} else {
			log.Debug().Str("file", f.Name).Str("carrier", string(a.Carrier)).Int("records", a.Records).Msg("extraction attempt")
		}
		fr.Attempts = append(fr.Attempts, entry)
	}

	fr.Records = len(recs)
	if len(recs) > 0 {
		fr.Carrier = recs[0].Carrier
	}
	return fileResult{report: fr, records: recs}
}
