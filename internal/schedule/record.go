// Package schedule defines the canonical sailing-schedule record emitted by
// every carrier extractor and the dataset operations shared by downstream
// consumers (preview, workbook export, month filtering).
package schedule

import "strconv"

// Carrier identifies the shipping line a record was extracted from. It is set
// once by the producing extractor and never rewritten downstream.
type Carrier string

const (
	COSCO Carrier = "COSCO"
	ONE   Carrier = "ONE"
	SITC  Carrier = "SITC"
)

// Columns lists the canonical column names, in export order. The CSV tags on
// Record and the worksheet header row both follow this set.
var Columns = []string{"CARRIER", "Service", "Vessel", "Voyage", "ETD", "ETA", "Transit Time", "T/S Port"}

// Record is the canonical unit of output, one sailing per record. ETD and ETA
// are MM-DD strings (ETA may be empty when the source omits it), TransitTime
// is a numeric string in days, and TSPort holds the transshipment port name
// (empty or DIRECT for a direct routing).
type Record struct {
	Carrier     Carrier `csv:"CARRIER"`
	Service     string  `csv:"Service"`
	Vessel      string  `csv:"Vessel"`
	Voyage      string  `csv:"Voyage"`
	ETD         string  `csv:"ETD"`
	ETA         string  `csv:"ETA"`
	TransitTime string  `csv:"Transit Time"`
	TSPort      string  `csv:"T/S Port"`
}

// Complete reports whether the record satisfies the construction invariant:
// vessel, voyage and ETD all non-empty. Extractors discard incomplete rows at
// the point of construction, so a Dataset never holds a record for which this
// is false.
func (r Record) Complete() bool {
	return r.Vessel != "" && r.Voyage != "" && r.ETD != ""
}

// Month returns the calendar month of the ETD (1-12), or 0 when the leading
// two characters do not parse as a month.
func (r Record) Month() int {
	if len(r.ETD) < 2 {
		return 0
	}
	m, err := strconv.Atoi(r.ETD[:2])
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return m
}

// Fields returns the record's values in Columns order.
func (r Record) Fields() []string {
	return []string{string(r.Carrier), r.Service, r.Vessel, r.Voyage, r.ETD, r.ETA, r.TransitTime, r.TSPort}
}
