package store

import (
	"context"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// RunFilter specifies criteria for listing build runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for stimulus build runs and the
// stimulus sets they produce.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.BuildParams) (*model.BuildRun, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, result *model.BuildResult) error
	GetRun(ctx context.Context, runID string) (*model.BuildRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.BuildRun, error)

	// Stimulus sets
	SaveStimulusSet(ctx context.Context, runID string, set *model.StimulusSet) error
	GetStimulusSet(ctx context.Context, runID string) (*model.StimulusSet, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
