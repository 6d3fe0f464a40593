package export

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/portcall/sailsched/internal/schedule"
)

// CSV renders the dataset as delimited text with the same header row as
// the workbook.
func CSV(ds schedule.Dataset) ([]byte, error) {
	records := []schedule.Record(ds)
	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return nil, fmt.Errorf("export: serialize csv: %w", err)
	}
	return out, nil
}
