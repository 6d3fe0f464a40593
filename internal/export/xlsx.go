// Package export renders an aggregated schedule dataset for people:
// a styled workbook for distribution and delimited text for anyone who
// wants to keep processing.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/portcall/sailsched/internal/schedule"
)

const (
	scheduleSheet = "Schedule"
	summarySheet  = "Summary"

	headerFill = "4472C4"
)

// columnWidths mirrors the layout the ops team is used to reading.
var columnWidths = []float64{12, 10, 25, 10, 10, 10, 13, 15}

// Workbook renders the dataset as a styled spreadsheet: a frozen header
// row over one line per sailing, plus an optional summary sheet with the
// headline numbers.
func Workbook(ds schedule.Dataset, includeSummary bool) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetList()[0], scheduleSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := writeSchedule(f, ds); err != nil {
		return nil, fmt.Errorf("export: schedule sheet: %w", err)
	}
	if includeSummary {
		if err := writeSummary(f, ds.Stats()); err != nil {
			return nil, fmt.Errorf("export: summary sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	border := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		border = append(border, excelize.Border{Type: side, Style: 1, Color: "000000"})
	}
	return border
}

func writeSchedule(f *excelize.File, ds schedule.Dataset) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(schedule.Columns))
	for i, h := range schedule.Columns {
		header[i] = h
	}
	if err := f.SetSheetRow(scheduleSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(schedule.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(scheduleSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, rec := range ds {
		row := make([]interface{}, 0, len(schedule.Columns))
		for _, field := range rec.Fields() {
			row = append(row, field)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(scheduleSheet, cell, &row); err != nil {
			return err
		}
	}
	if len(ds) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(ds)+1)
		if err := f.SetCellStyle(scheduleSheet, "A2", last, dataStyle); err != nil {
			return err
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(scheduleSheet, col, col, w); err != nil {
			return err
		}
	}

	return f.SetPanes(scheduleSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writeSummary adds the headline numbers: total, per-carrier counts and
// the ETD range, in the order people quote them back to us.
func writeSummary(f *excelize.File, stats schedule.Stats) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Bold: true},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", "Schedule Summary"); err != nil {
		return err
	}
	if err := f.MergeCell(summarySheet, "A1", "D1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	if err := f.SetSheetRow(summarySheet, "A3", &[]interface{}{"Item", "Count"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A3", "B3", labelStyle); err != nil {
		return err
	}

	type line struct {
		item  string
		count interface{}
	}
	lines := []line{{"Total Schedules", stats.Total}}
	for _, carrier := range stats.CarriersByCount() {
		lines = append(lines, line{fmt.Sprintf("%s Schedules", carrier), stats.ByCarrier[carrier]})
	}
	if stats.EarliestETD != "" {
		lines = append(lines, line{"Earliest ETD", stats.EarliestETD})
	}
	if stats.LatestETD != "" {
		lines = append(lines, line{"Latest ETD", stats.LatestETD})
	}

	for i, l := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{l.item, l.count}); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A4", fmt.Sprintf("B%d", len(lines)+3), cellStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 15)
}

// OutputName stamps the workbook file name with the render time when
// asked, keeping repeated exports from overwriting each other.
func OutputName(base string, stamp bool, now time.Time) string {
	if !stamp {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + now.Format("20060102_150405") + ext
}
