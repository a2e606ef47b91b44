package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "stimuli.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 200_000, cfg.Clean.ChunkSize)
	assert.Equal(t, 4, cfg.Clean.Workers)
	assert.EqualValues(t, 637, cfg.Stimulus.Seed)
	assert.Equal(t, 20, cfg.Stimulus.TargetPerCombo)
	assert.Equal(t, "random", cfg.Stimulus.SalienceSplit)
	assert.Equal(t, 40, cfg.Stimulus.PerCell())
	assert.Equal(t, 160, cfg.QC.ExpectedItems)
	assert.Equal(t, 10, cfg.QC.MaxNameDups)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/stimuli
stimulus:
  seed: 99
  target_per_combo: 10
  salience_split: ordered
qc:
  expected_items: 80
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.EqualValues(t, 99, cfg.Stimulus.Seed)
	assert.Equal(t, 10, cfg.Stimulus.TargetPerCombo)
	assert.Equal(t, 20, cfg.Stimulus.PerCell())
	assert.Equal(t, "ordered", cfg.Stimulus.SalienceSplit)
	assert.Equal(t, 80, cfg.QC.ExpectedItems)
	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.QC.MaxNameDups)
}

func TestLoadRejectsBadSalienceSplit(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := "stimulus:\n  salience_split: alternating\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salience_split")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	require.Error(t, err)
}
