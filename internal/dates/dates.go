// Package dates normalizes the date shapes found in carrier schedule
// documents into the pipeline's canonical "MM-DD" form. Source files mix
// three representations: ISO-like text (sometimes with stray spaces after
// the hyphens), native spreadsheet dates, and raw day serials counted from
// the 1899-12-30 spreadsheet epoch.
package dates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// serialEpoch is the day-zero of spreadsheet serial dates. Day 1 is
// 1899-12-31, so 2022-01-01 is serial 44562.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// isoRe tolerates whitespace after the hyphens ("2026- 02- 15") because
// PDF extraction occasionally splits dates that way.
var isoRe = regexp.MustCompile(`(\d{4})-\s*(\d{2})-\s*(\d{2})`)

// MonthDay normalizes a typed cell value to "MM-DD". Native dates keep
// their month and day, numeric values are treated as day serials, and
// strings are scanned for the first ISO-like date. Anything else, and any
// string without a recognizable date, yields "".
func MonthDay(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("01-02")
	case float64:
		return fromSerial(t)
	case float32:
		return fromSerial(float64(t))
	case int:
		return fromSerial(float64(t))
	case int64:
		return fromSerial(float64(t))
	case string:
		return fromISO(t)
	default:
		return fromISO(fmt.Sprint(v))
	}
}

// MonthDayCell normalizes a raw spreadsheet cell. Raw cell values arrive
// as strings even when the underlying cell holds a date, so a cell that
// is entirely numeric is read as a day serial after the ISO scan fails.
func MonthDayCell(raw string) string {
	if md := fromISO(raw); md != "" {
		return md
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return fromSerial(serial)
	}
	return ""
}

func fromISO(s string) string {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[2] + "-" + m[3]
}

func fromSerial(serial float64) string {
	if serial <= 0 || serial > 2958465 { // 9999-12-31
		return ""
	}
	d := serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
	return d.Format("01-02")
}
