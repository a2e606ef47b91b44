package model

import "time"

// RunStatus represents the current state of a stimulus build run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusSampling   RunStatus = "sampling"
	RunStatusValidating RunStatus = "validating"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// BuildParams captures the inputs that determine a build, enough to
// reproduce it byte-for-byte from the same snapshot.
type BuildParams struct {
	InputPath      string `json:"input_path"`
	OutputPath     string `json:"output_path"`
	Seed           int64  `json:"seed"`
	TargetPerCombo int    `json:"target_per_combo"`
	SalienceSplit  string `json:"salience_split"`
}

// BuildResult holds the final outcome of a build run.
type BuildResult struct {
	Items      int            `json:"items"`
	CellCounts map[string]int `json:"cell_counts"`
	Report     *Report        `json:"report"`
	Error      string         `json:"error,omitempty"`
}

// BuildRun represents a single recorded stimulus build.
type BuildRun struct {
	ID        string       `json:"id"`
	Params    BuildParams  `json:"params"`
	Status    RunStatus    `json:"status"`
	Result    *BuildResult `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
