package one

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/portcall/sailsched/internal/schedule"
)

func TestScanPageLabelledItinerary(t *testing.T) {
	lines := []string{
		"Booking No. 1234567890",
		"Departure Arrival",
		"11 DAY(S) Transit Time Vessel / Voyage",
		"HAIAN VIEW 162S",
		"HAIPHONG, VIETNAM HO CHI MINH, VIETNAM",
		"Service Type Origin Destination CY CY",
		"EC3 CY CY",
		"Origin Destination",
		"2026-02-06 18:00 2026-02-17 10:00",
	}

	got := scanPage(lines)
	want := []schedule.Record{{
		Carrier:     schedule.ONE,
		Service:     "EC3",
		Vessel:      "HAIAN VIEW",
		Voyage:      "162S",
		ETD:         "02-06",
		ETA:         "02-17",
		TransitTime: "11",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scan mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestScanPageUnlabelledVessel(t *testing.T) {
	lines := []string{
		"8 DAY(S)",
		"ONE STORK 028E Yokohama - Haiphong",
		"TRANSSHIPMENT",
		"Origin Destination",
		"2026-02-09 2026-02-21",
	}

	got := scanPage(lines)
	want := []schedule.Record{{
		Carrier:     schedule.ONE,
		Vessel:      "ONE STORK",
		Voyage:      "028E",
		ETD:         "02-09",
		ETA:         "02-21",
		TransitTime: "8",
		TSPort:      "TRANSSHIPMENT",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scan mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestScanPageFirstDatesWin(t *testing.T) {
	lines := []string{
		"11 DAY(S) Transit Time Vessel / Voyage",
		"HAIAN VIEW 162S",
		"Origin Destination",
		"2026-02-06 2026-02-17",
		"Origin Destination",
		"2026-03-10 2026-03-21",
	}

	got := scanPage(lines)
	if len(got) != 1 || got[0].ETD != "02-06" || got[0].ETA != "02-17" {
		t.Fatalf("expected the dates nearest the anchor, got %+v", got)
	}
}

func TestScanPageAnchorClosesPreviousWindow(t *testing.T) {
	lines := []string{
		"11 DAY(S) Transit Time Vessel / Voyage",
		"HAIAN VIEW 162S",
		"Origin Destination",
		"2026-02-06 2026-02-17",
		"8 DAY(S) Transit Time Vessel / Voyage",
		"ONE STORK 028E",
		"TRANSSHIPMENT",
		"Origin Destination",
		"2026-02-09 2026-02-21",
	}

	got := scanPage(lines)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
	// The transshipment marker sits below the second anchor and must not
	// leak into the first sailing.
	if got[0].TSPort != "" || got[1].TSPort != "TRANSSHIPMENT" {
		t.Fatalf("transshipment attribution wrong: %+v", got)
	}
	if got[0].Vessel != "HAIAN VIEW" || got[1].Vessel != "ONE STORK" {
		t.Fatalf("vessels wrong: %+v", got)
	}
}

func TestScanPageWindowExpires(t *testing.T) {
	lines := []string{
		"11 DAY(S) Transit Time Vessel / Voyage",
		"HAIAN VIEW 162S",
	}
	for n := 0; n < 18; n++ {
		lines = append(lines, "NOTE 5")
	}
	lines = append(lines, "Origin Destination", "2026-02-06 2026-02-17")

	if got := scanPage(lines); got != nil {
		t.Fatalf("dates beyond the window must be ignored, got %+v", got)
	}
}

func TestScanPageNoVesselNoRecord(t *testing.T) {
	lines := []string{
		"9 DAY(S)",
		"Feeder service via Singapore",
		"Origin Destination",
		"2026-02-11 2026-02-19",
	}
	if got := scanPage(lines); got != nil {
		t.Fatalf("anchor without a vessel must not emit, got %+v", got)
	}
}

func TestServiceToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EC3 CY CY", "EC3"},
		{"CY Origin Destination EC3", "EC3"},
		{"Destination NORTHLOOP EC3", "EC3"},
		{"CY Origin Destination", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := serviceToken(tt.in); got != tt.want {
			t.Errorf("serviceToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDatePair(t *testing.T) {
	if etd, eta := datePair("2026-02-06 18:00 2026-02-17 10:00"); etd != "02-06" || eta != "02-17" {
		t.Fatalf("datePair = %q/%q", etd, eta)
	}
	if etd, eta := datePair("2026-02-06 only"); etd != "" || eta != "" {
		t.Fatalf("a single date must not split into ETD/ETA, got %q/%q", etd, eta)
	}
}

func TestExtractFromPDF(t *testing.T) {
	got, err := New().Extract(itineraryPDF(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
	if got[0].Vessel != "HAIAN VIEW" || got[0].ETD != "02-06" {
		t.Fatalf("first sailing wrong: %+v", got[0])
	}
	if got[1].Vessel != "ONE STORK" || got[1].TSPort != "TRANSSHIPMENT" {
		t.Fatalf("second sailing wrong: %+v", got[1])
	}
}

func itineraryPDF(t *testing.T) []byte {
	t.Helper()

	lines := []string{
		"11 DAY(S) Transit Time Vessel / Voyage",
		"HAIAN VIEW 162S",
		"Origin Destination",
		"2026-02-06 18:00 2026-02-17 10:00",
		"8 DAY(S) Transit Time Vessel / Voyage",
		"ONE STORK 028E",
		"TRANSSHIPMENT",
		"Origin Destination",
		"2026-02-09 06:00 2026-02-21 22:00",
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()
	for i, line := range lines {
		pdf.Text(15, 20+float64(i)*6, line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return buf.Bytes()
}
