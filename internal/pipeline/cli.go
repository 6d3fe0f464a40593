package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/portcall/sailsched/internal/export"
	"github.com/portcall/sailsched/internal/extract"
	"github.com/portcall/sailsched/internal/schedule"
)

// RegisterCLI returns the pipeline commands for the binary.
func RegisterCLI() []*cli.Command {
	return []*cli.Command{convertCommand(), previewCommand()}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Extract schedules from carrier documents and write the styled workbook",
		ArgsUsage: "file [file...]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: DefaultOutputPath, Usage: "Workbook output path"},
			&cli.StringFlag{Name: "csv", Usage: "Also write the records as CSV to this path (- for stdout)"},
			&cli.BoolFlag{Name: "summary", Value: true, Usage: "Add the summary sheet to the workbook"},
			&cli.BoolFlag{Name: "timestamp", Usage: "Stamp the workbook name with the render time"},
		}, processingFlags()...),
		Action: convertAction,
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Extract schedules and print them as an aligned table",
		ArgsUsage: "file [file...]",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{Name: "carrier", Usage: "Show only these carriers (repeatable)"},
			&cli.StringSliceFlag{Name: "service-filter", Usage: "Show only these service loops (repeatable)"},
			&cli.StringFlag{Name: "csv", Usage: "Write the current view as CSV to this path (- for stdout)"},
		}, processingFlags()...),
		Action: previewAction,
	}
}

// processingFlags are shared by every command that runs the pipeline.
func processingFlags() []cli.Flag {
	defaults := DefaultOptions()
	return []cli.Flag{
		&cli.BoolFlag{Name: "dedupe", Value: true, Usage: "Drop exact duplicate records after merging"},
		&cli.StringFlag{Name: "months", Usage: "Keep only departures in this month range, e.g. 2 or 12-2"},
		&cli.StringFlag{Name: "service", Value: defaults.Service, Usage: "Service loop decoded from positional tables"},
		&cli.IntFlag{Name: "year", Value: defaults.Year, Usage: "Year anchoring positional-table dates"},
		&cli.IntFlag{Name: "workers", Value: defaults.Workers, Usage: "Concurrent file workers"},
		&cli.StringSliceFlag{Name: "tag", Usage: "Pin a file to a carrier as name=CARRIER (repeatable)"},
		&cli.StringFlag{Name: "config", Usage: "YAML or JSON options file"},
	}
}

func convertAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("config: at least one input file is required")
	}
	opts := DefaultOptions()
	opts.OutputPath = c.String("output")
	opts.CSVPath = c.String("csv")
	opts.Summary = c.Bool("summary")
	opts.Timestamp = c.Bool("timestamp")
	if err := fillOptions(c, &opts); err != nil {
		return err
	}

	files, err := LoadFiles(c.Args().Slice())
	if err != nil {
		return err
	}
	ds, report, err := Process(c.Context, files, opts)
	if err != nil {
		return err
	}

	out, err := export.Workbook(ds, opts.Summary)
	if err != nil {
		return err
	}
	name := export.OutputName(opts.OutputPath, opts.Timestamp, time.Now())
	if err := os.WriteFile(name, out, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	log.Info().Str("path", name).Int("records", report.Total).Msg("workbook written")

	if opts.CSVPath != "" {
		return writeCSV(ds, opts.CSVPath)
	}
	return nil
}

func previewAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("config: at least one input file is required")
	}
	opts := DefaultOptions()
	opts.CSVPath = c.String("csv")
	if err := fillOptions(c, &opts); err != nil {
		return err
	}

	files, err := LoadFiles(c.Args().Slice())
	if err != nil {
		return err
	}
	ds, report, err := Process(c.Context, files, opts)
	if err != nil {
		return err
	}

	view := ds.
		FilterCarriers(c.StringSlice("carrier")).
		FilterServices(c.StringSlice("service-filter"))
	printPreview(os.Stdout, view, report)

	if opts.CSVPath != "" {
		return writeCSV(view, opts.CSVPath)
	}
	return nil
}

// fillOptions reads the shared processing flags into opts and overlays the
// optional config file afterwards, so explicit flags stay in charge.
func fillOptions(c *cli.Context, opts *Options) error {
	opts.Dedupe = c.Bool("dedupe")
	opts.Service = c.String("service")
	opts.Year = c.Int("year")
	opts.Workers = c.Int("workers")

	months, err := ParseMonths(c.String("months"))
	if err != nil {
		return err
	}
	opts.Months = months

	tags, err := parseTags(c.StringSlice("tag"))
	if err != nil {
		return err
	}
	opts.Tags = tags

	if path := c.String("config"); path != "" {
		fo, err := LoadOptionsFile(path)
		if err != nil {
			return err
		}
		if err := ApplyFileOptions(opts, fo); err != nil {
			return err
		}
	}
	return nil
}

// parseTags reads repeated name=CARRIER pairs into the tag map.
func parseTags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, carrier, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("config: tag %q is not of the form name=CARRIER", pair)
		}
		parsed, ok := extract.ParseCarrier(carrier)
		if !ok {
			return nil, fmt.Errorf("config: unknown carrier %q in tag %q", carrier, pair)
		}
		tags[strings.TrimSpace(name)] = string(parsed)
	}
	return tags, nil
}

func writeCSV(ds schedule.Dataset, path string) error {
	raw, err := export.CSV(ds)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err := os.Stdout.Write(raw)
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	log.Info().Str("path", path).Msg("csv written")
	return nil
}

// printPreview renders the dataset as an aligned table, then the summary
// statistics and the per-file diagnostics underneath.
func printPreview(w io.Writer, ds schedule.Dataset, report *Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(schedule.Columns, "\t"))
	for _, r := range ds {
		fmt.Fprintln(tw, strings.Join(r.Fields(), "\t"))
	}
	tw.Flush()

	stats := ds.Stats()
	fmt.Fprintf(w, "\n%d records", stats.Total)
	if stats.Total > 0 {
		fmt.Fprintf(w, ", ETD %s to %s", stats.EarliestETD, stats.LatestETD)
	}
	fmt.Fprintln(w)
	for _, carrier := range stats.CarriersByCount() {
		fmt.Fprintf(w, "  %s: %d\n", carrier, stats.ByCarrier[carrier])
	}

	fmt.Fprintf(w, "\nfiles:\n")
	for _, fr := range report.Files {
		if fr.Carrier != "" {
			fmt.Fprintf(w, "  %s (%s, %s): %d records\n", fr.Name, fr.Format, fr.Carrier, fr.Records)
		} else {
			fmt.Fprintf(w, "  %s (%s): %d records\n", fr.Name, fr.Format, fr.Records)
		}
		for _, a := range fr.Attempts {
			if a.Error != "" {
				fmt.Fprintf(w, "    %s: %s\n", a.Carrier, a.Error)
			}
		}
	}
}
