package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/portcall/sailsched/internal/extract/cosco"
	"github.com/portcall/sailsched/internal/extract/sitc"
)

// FileOptions is the single-file configuration schema. Booleans that
// default to on are pointers so "absent" and "false" stay apart.
type FileOptions struct {
	Output    string            `yaml:"output" json:"output"`
	CSV       string            `yaml:"csv" json:"csv"`
	Timestamp bool              `yaml:"timestamp" json:"timestamp"`
	Summary   *bool             `yaml:"summary" json:"summary"`
	Dedupe    *bool             `yaml:"dedupe" json:"dedupe"`
	Months    string            `yaml:"months" json:"months"`
	Service   string            `yaml:"service" json:"service"`
	Year      int               `yaml:"year" json:"year"`
	Workers   int               `yaml:"workers" json:"workers"`
	Tags      map[string]string `yaml:"tags" json:"tags"`

	// CoscoColumns replaces the positional-table column map wholesale;
	// leaving the section out keeps the built-in map.
	CoscoColumns struct {
		Service    int `yaml:"service" json:"service"`
		Vessel     int `yaml:"vessel" json:"vessel"`
		Voyage     int `yaml:"voyage" json:"voyage"`
		ETD        int `yaml:"etd" json:"etd"`
		TSPort     int `yaml:"tsPort" json:"tsPort"`
		Transit    int `yaml:"transit" json:"transit"`
		ETARow2    int `yaml:"etaRow2" json:"etaRow2"`
		MinColumns int `yaml:"minColumns" json:"minColumns"`
	} `yaml:"coscoColumns" json:"coscoColumns"`

	// SitcLayout replaces the worksheet cell layout wholesale.
	SitcLayout struct {
		HeaderRow    int `yaml:"headerRow" json:"headerRow"`
		HeaderCol    int `yaml:"headerCol" json:"headerCol"`
		TransitRow   int `yaml:"transitRow" json:"transitRow"`
		TransitCol   int `yaml:"transitCol" json:"transitCol"`
		FirstDataRow int `yaml:"firstDataRow" json:"firstDataRow"`
		Vessel       int `yaml:"vessel" json:"vessel"`
		Voyage       int `yaml:"voyage" json:"voyage"`
		ETD          int `yaml:"etd" json:"etd"`
		ETA          int `yaml:"eta" json:"eta"`
	} `yaml:"sitcLayout" json:"sitcLayout"`
}

// LoadOptionsFile reads YAML or JSON into FileOptions.
func LoadOptionsFile(path string) (FileOptions, error) {
	var fo FileOptions
	b, err := os.ReadFile(path)
	if err != nil {
		return fo, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fo); err != nil {
			return fo, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fo); err != nil {
			return fo, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fo); err != nil {
			if jerr := json.Unmarshal(b, &fo); jerr != nil {
				return fo, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fo, nil
}

// ApplyFileOptions overlays values from FileOptions into o for any fields
// still at their defaults. Flags should already have been parsed; this
// lets file config supply defaults while preserving explicit flags.
func ApplyFileOptions(o *Options, fo FileOptions) error {
	if o == nil {
		return nil
	}

	if (o.OutputPath == "" || o.OutputPath == DefaultOutputPath) && fo.Output != "" {
		o.OutputPath = fo.Output
	}
	if o.CSVPath == "" && fo.CSV != "" {
		o.CSVPath = fo.CSV
	}
	if !o.Timestamp && fo.Timestamp {
		o.Timestamp = true
	}
	if fo.Summary != nil {
		o.Summary = *fo.Summary
	}
	if fo.Dedupe != nil {
		o.Dedupe = *fo.Dedupe
	}
	if o.Months.Unset() && fo.Months != "" {
		months, err := ParseMonths(fo.Months)
		if err != nil {
			return err
		}
		o.Months = months
	}
	if (o.Service == "" || o.Service == cosco.DefaultService) && fo.Service != "" {
		o.Service = fo.Service
	}
	if (o.Year == 0 || o.Year == cosco.DefaultYear) && fo.Year > 0 {
		o.Year = fo.Year
	}
	if (o.Workers == 0 || o.Workers == defaultWorkers) && fo.Workers > 0 {
		o.Workers = fo.Workers
	}
	if len(o.Tags) == 0 && len(fo.Tags) > 0 {
		o.Tags = make(map[string]string, len(fo.Tags))
		for name, carrier := range fo.Tags {
			o.Tags[name] = carrier
		}
	}
	if cols := (cosco.ColumnMap{
		Service:    fo.CoscoColumns.Service,
		Vessel:     fo.CoscoColumns.Vessel,
		Voyage:     fo.CoscoColumns.Voyage,
		ETD:        fo.CoscoColumns.ETD,
		TSPort:     fo.CoscoColumns.TSPort,
		Transit:    fo.CoscoColumns.Transit,
		ETARow2:    fo.CoscoColumns.ETARow2,
		MinColumns: fo.CoscoColumns.MinColumns,
	}); cols != (cosco.ColumnMap{}) && o.Columns == (cosco.ColumnMap{}) {
		o.Columns = cols
	}
	if l := (sitc.Layout{
		HeaderRow:    fo.SitcLayout.HeaderRow,
		HeaderCol:    fo.SitcLayout.HeaderCol,
		TransitRow:   fo.SitcLayout.TransitRow,
		TransitCol:   fo.SitcLayout.TransitCol,
		FirstDataRow: fo.SitcLayout.FirstDataRow,
		Vessel:       fo.SitcLayout.Vessel,
		Voyage:       fo.SitcLayout.Voyage,
		ETD:          fo.SitcLayout.ETD,
		ETA:          fo.SitcLayout.ETA,
	}); l != (sitc.Layout{}) && o.Layout == (sitc.Layout{}) {
		o.Layout = l
	}
	return nil
}
