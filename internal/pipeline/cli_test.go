package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/portcall/sailsched/internal/schedule"
)

func TestParseTags(t *testing.T) {
	tags, err := parseTags([]string{"weekly.pdf=one", "book.xlsx=SITC"})
	if err != nil {
		t.Fatalf("parseTags: %v", err)
	}
	if tags["weekly.pdf"] != "ONE" || tags["book.xlsx"] != "SITC" {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	if got, err := parseTags(nil); err != nil || got != nil {
		t.Fatalf("empty input must yield nil, got %+v / %v", got, err)
	}

	for _, bad := range []string{"weekly.pdf", "=ONE", "weekly.pdf=MAERSK"} {
		if _, err := parseTags([]string{bad}); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}

func TestPrintPreview(t *testing.T) {
	ds := schedule.Dataset{
		{Carrier: schedule.ONE, Service: "EC3", Vessel: "HAIAN VIEW", Voyage: "162S", ETD: "02-06", ETA: "02-17", TransitTime: "11"},
		{Carrier: schedule.COSCO, Service: "HPX2", Vessel: "MTT SENARI", Voyage: "029S", ETD: "02-15", ETA: "02-26", TransitTime: "11", TSPort: "Port kelang"},
	}
	report := &Report{
		Files: []FileReport{
			{Name: "one_feb.pdf", Format: "pdf", Carrier: schedule.ONE, Records: 1},
			{Name: "broken.pdf", Format: "pdf", Attempts: []Attempt{
				{Carrier: schedule.COSCO, Error: "pdftext: malformed document"},
			}},
		},
	}

	var buf bytes.Buffer
	printPreview(&buf, ds, report)
	out := buf.String()

	for _, want := range []string{
		"CARRIER",
		"HAIAN VIEW",
		"MTT SENARI",
		"2 records, ETD 02-06 to 02-15",
		"COSCO: 1",
		"ONE: 1",
		"one_feb.pdf (pdf, ONE): 1 records",
		"broken.pdf (pdf): 0 records",
		"COSCO: pdftext: malformed document",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "CARRIER") {
		t.Fatalf("header not first: %q", lines[0])
	}
}

func TestPrintPreviewEmptyView(t *testing.T) {
	var buf bytes.Buffer
	printPreview(&buf, nil, &Report{})
	if !strings.Contains(buf.String(), "0 records") {
		t.Fatalf("empty view must still report a count:\n%s", buf.String())
	}
}
