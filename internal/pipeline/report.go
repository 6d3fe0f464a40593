package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/portcall/sailsched/internal/schedule"
)

// Attempt is one extractor outcome with the error flattened so the report
// marshals cleanly.
type Attempt struct {
	Carrier schedule.Carrier `json:"carrier"`
	Records int              `json:"records"`
	Error   string           `json:"error,omitempty"`
}

// FileReport records what happened to one input file.
type FileReport struct {
	Name     string           `json:"name"`
	Format   string           `json:"format"`
	Carrier  schedule.Carrier `json:"carrier,omitempty"`
	Records  int              `json:"records"`
	Attempts []Attempt        `json:"attempts,omitempty"`
}

// Report is the run diagnostic: which file yielded what, and how the
// aggregate came together. Extracted counts records before dedupe and
// filtering; Total counts what made it into the output.
type Report struct {
	RunID     string       `json:"runId"`
	Started   time.Time    `json:"started"`
	Finished  time.Time    `json:"finished"`
	Files     []FileReport `json:"files"`
	Extracted int          `json:"extracted"`
	Total     int          `json:"total"`
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString(), Started: time.Now()}
}
