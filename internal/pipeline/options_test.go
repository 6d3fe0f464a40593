package pipeline

import (
	"testing"

	"github.com/portcall/sailsched/internal/schedule"
)

func TestParseMonths(t *testing.T) {
	tests := []struct {
		in      string
		want    schedule.MonthRange
		wantErr bool
	}{
		{in: "", want: schedule.MonthRange{}},
		{in: "2", want: schedule.MonthRange{Start: 2, End: 2}},
		{in: "2-5", want: schedule.MonthRange{Start: 2, End: 5}},
		{in: "12-2", want: schedule.MonthRange{Start: 12, End: 2}},
		{in: " 3-4 ", want: schedule.MonthRange{Start: 3, End: 4}},
		{in: "0", wantErr: true},
		{in: "13", wantErr: true},
		{in: "2-13", wantErr: true},
		{in: "feb", wantErr: true},
		{in: "2-x", wantErr: true},
		{in: "-", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMonths(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMonths(%q): expected error, got %+v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMonths(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMonths(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestValidateOptions(t *testing.T) {
	if err := ValidateOptions(DefaultOptions()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"empty output", func(o *Options) { o.OutputPath = "  " }},
		{"empty service", func(o *Options) { o.Service = "" }},
		{"year too small", func(o *Options) { o.Year = 1999 }},
		{"negative workers", func(o *Options) { o.Workers = -1 }},
		{"month out of range", func(o *Options) { o.Months = schedule.MonthRange{Start: 13} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			if err := ValidateOptions(o); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
