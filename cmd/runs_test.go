package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	runs := []model.BuildRun{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Params:    model.BuildParams{Seed: 637},
			Status:    model.RunStatusComplete,
			Result:    &model.BuildResult{Items: 160},
			CreatedAt: now,
			UpdatedAt: now.Add(2 * time.Minute),
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Params:    model.BuildParams{Seed: 99},
			Status:    model.RunStatusSampling,
			CreatedAt: now.Add(-1 * time.Hour),
			UpdatedAt: now.Add(-30 * time.Minute),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "SEED")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "637")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "160")
	assert.Contains(t, output, "sampling")
	assert.Contains(t, output, "2026-03-02 10:30")
	assert.Contains(t, output, "abc12345")
}

func TestComputeRunStats(t *testing.T) {
	now := time.Now()
	runs := []model.BuildRun{
		{Status: model.RunStatusComplete, CreatedAt: now, UpdatedAt: now.Add(10 * time.Second)},
		{Status: model.RunStatusComplete, CreatedAt: now, UpdatedAt: now.Add(20 * time.Second)},
		{Status: model.RunStatusFailed, CreatedAt: now, UpdatedAt: now},
		{Status: model.RunStatusQueued, CreatedAt: now, UpdatedAt: now},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.InFlight)
	assert.InDelta(t, 15.0, s.AvgDurSecs, 0.01)
}

func TestComputeRunStats_Empty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.AvgDurSecs)
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
