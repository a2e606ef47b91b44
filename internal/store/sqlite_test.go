package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testParams() model.BuildParams {
	return model.BuildParams{
		InputPath:      "flags.csv",
		OutputPath:     "stimuli.csv",
		Seed:           637,
		TargetPerCombo: 20,
		SalienceSplit:  "random",
	}
}

func TestSQLite_RunLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.EqualValues(t, 637, run.Params.Seed)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusSampling))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSampling, got.Status)
	assert.Nil(t, got.Result)

	result := &model.BuildResult{
		Items:      160,
		CellCounts: map[string]int{"badge=0 signal=0": 40},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, model.RunStatusComplete, result))

	got, err = st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 160, got.Result.Items)
	assert.Equal(t, 40, got.Result.CellCounts["badge=0 signal=0"])
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "missing-run", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	b, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusFailed))

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, a.ID, failed[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_ = b
}

func TestSQLite_StimulusSet_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	set := &model.StimulusSet{
		Seed:    637,
		BuiltAt: time.Now().UTC().Truncate(time.Second),
		Items: []model.StimulusItem{
			{ItemID: 1, Name: "Økologisk skyr", OrganicBadge: true, Salience: model.SalienceHigh, EcoSignal: true, EcoGrade: model.EcoGradeA, LangDA: true, GreenWords: true, Category: "dairy", SourceCode: "5700001", Position: 0},
			{ItemID: 2, Name: "Rugbrød", Salience: model.SalienceLow, EcoGrade: model.EcoGradeC, LangDA: true, Category: "bread", SourceCode: "5700002", Position: 1},
		},
	}
	require.NoError(t, st.SaveStimulusSet(ctx, run.ID, set))

	got, err := st.GetStimulusSet(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 637, got.Seed)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Økologisk skyr", got.Items[0].Name)
	assert.Equal(t, model.SalienceHigh, got.Items[0].Salience)
	assert.Equal(t, 1, got.Items[1].Position)
}

func TestSQLite_StimulusSet_SaveTwiceReplaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	first := &model.StimulusSet{
		Seed:    637,
		BuiltAt: time.Now().UTC(),
		Items:   []model.StimulusItem{{ItemID: 1, Name: "Havregryn", Salience: model.SalienceLow, EcoGrade: model.EcoGradeB}},
	}
	require.NoError(t, st.SaveStimulusSet(ctx, run.ID, first))

	second := &model.StimulusSet{
		Seed:    99,
		BuiltAt: time.Now().UTC(),
		Items: []model.StimulusItem{
			{ItemID: 1, Name: "Smør", Salience: model.SalienceHigh, EcoGrade: model.EcoGradeD},
			{ItemID: 2, Name: "Kartofler", Salience: model.SalienceLow, EcoGrade: model.EcoGradeA},
		},
	}
	require.NoError(t, st.SaveStimulusSet(ctx, run.ID, second))

	got, err := st.GetStimulusSet(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 99, got.Seed)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Smør", got.Items[0].Name)
}

func TestSQLite_StimulusSet_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetStimulusSet(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Nil(t, got)
}
