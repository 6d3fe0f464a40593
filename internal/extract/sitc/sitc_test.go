package sitc

import (
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/portcall/sailsched/internal/schedule"
)

func TestDecodeRows(t *testing.T) {
	rows := [][]string{
		{"CBX2 DIRECT SERVICE"},
		{},
		{},
		{"", "", "", "11 days"},
		// Date cells arrive as day serials when read raw.
		{"SITC HUIMING", "2602S", "46071", "46082"},
		{"SITC KEELUNG", "2604S", "2026-03-04", "2026-03-15"},
		{"SKIP WEEK", "2603S", "46078", "46089"},
		{"SITC MOJI", "2605S", "46085", "SKIP"},
		{"", "2606S", "46092", "46103"},
		{"SITC NAGOYA", "", "46092", "46103"},
	}

	got := New().decodeRows(rows)
	want := []schedule.Record{
		{
			Carrier: schedule.SITC, Service: "CBX2",
			Vessel: "SITC HUIMING", Voyage: "2602S",
			ETD: "02-18", ETA: "03-01",
			TransitTime: "11", TSPort: "DIRECT",
		},
		{
			Carrier: schedule.SITC, Service: "CBX2",
			Vessel: "SITC KEELUNG", Voyage: "2604S",
			ETD: "03-04", ETA: "03-15",
			TransitTime: "11", TSPort: "DIRECT",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decode mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestDecodeRowsNonDirectService(t *testing.T) {
	rows := [][]string{
		{"VTX1 SERVICE VIA HONG KONG"},
		{},
		{},
		{"", "", "", "T/T 14 DAYS"},
		{"SITC LIAONING", "2610N", "46071", "46085"},
	}

	got := New().decodeRows(rows)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %+v", got)
	}
	if got[0].Service != "VTX1" || got[0].TSPort != "" || got[0].TransitTime != "14" {
		t.Fatalf("header metadata wrong: %+v", got[0])
	}
}

func TestDecodeRowsHeaderWithoutCode(t *testing.T) {
	rows := [][]string{
		{"HAIPHONG EXPRESS"},
		{},
		{},
		{},
		{"SITC HUIMING", "2602S", "46071", "46082"},
	}

	got := New().decodeRows(rows)
	if len(got) != 1 || got[0].Service != "" || got[0].TransitTime != "" {
		t.Fatalf("expected empty service and transit, got %+v", got)
	}
}

func TestDecodeRowsRequiresETD(t *testing.T) {
	rows := [][]string{
		{"CBX2 DIRECT SERVICE"},
		{},
		{},
		{"", "", "", "11 days"},
		{"SITC HUIMING", "2602S", "TBA", "46082"},
	}
	if got := New().decodeRows(rows); got != nil {
		t.Fatalf("a row without a usable ETD must not emit, got %+v", got)
	}
}

func TestDecodeRowsEmptyWorkbook(t *testing.T) {
	if got := New().decodeRows(nil); got != nil {
		t.Fatalf("expected no records, got %+v", got)
	}
}

func TestExtractFromWorkbook(t *testing.T) {
	got, err := New().Extract(worksheetXLSX(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []schedule.Record{
		{
			Carrier: schedule.SITC, Service: "CBX2",
			Vessel: "SITC HUIMING", Voyage: "2602S",
			ETD: "02-18", ETA: "03-01",
			TransitTime: "11", TSPort: "DIRECT",
		},
		{
			Carrier: schedule.SITC, Service: "CBX2",
			Vessel: "SITC KEELUNG", Voyage: "2604S",
			ETD: "03-04", ETA: "03-15",
			TransitTime: "11", TSPort: "DIRECT",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extract mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	if _, err := New().Extract([]byte("not a workbook")); err == nil {
		t.Fatalf("expected an error for non-workbook input")
	}
}

// worksheetXLSX builds a workbook in the distributed shape: header in A1,
// transit note in D4, sailings from row 5 with native date cells.
func worksheetXLSX(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	set := func(cell string, v interface{}) {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}

	set("A1", "CBX2 DIRECT SERVICE")
	set("D4", "11 days")

	set("A5", "SITC HUIMING")
	set("B5", "2602S")
	set("C5", time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC))
	set("D5", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	// A crossed-out sailing and a text-dated one.
	set("A6", "SKIP WEEK")
	set("B6", "2603S")
	set("C6", "2026-02-25")
	set("D6", "2026-03-08")

	set("A7", "SITC KEELUNG")
	set("B7", "2604S")
	set("C7", "2026-03-04")
	set("D7", "2026-03-15")

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return buf.Bytes()
}
