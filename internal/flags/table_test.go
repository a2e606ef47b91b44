package flags

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

func TestWriteFlags(t *testing.T) {
	records := []model.FlaggedRecord{
		{Code: "5700001", Name: "Økologisk skyr", Category: "dairy", LangDA: true, EcoGrade: model.EcoGradeA, EcoSignal: true, OrganicBadge: true, GreenWords: true},
		{Code: "5700002", Name: "Leverpostej", Category: "spreads", LangDA: true, EcoGrade: model.EcoGradeE},
	}

	path := filepath.Join(t.TempDir(), "flags.csv")
	require.NoError(t, WriteFlags(records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code,product_name,eco_score,eco_signal,organic_badge,lang_da,green_words,category", lines[0])
	assert.Equal(t, "5700001,Økologisk skyr,A,1,1,1,1,dairy", lines[1])
	assert.Equal(t, "5700002,Leverpostej,E,0,0,1,0,spreads", lines[2])
}

func TestSummarize(t *testing.T) {
	records := []model.FlaggedRecord{
		{EcoGrade: model.EcoGradeA, EcoSignal: true, LangDA: true, GreenWords: true},
		{EcoGrade: model.EcoGradeD, LangDA: true, OrganicBadge: true},
		{},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 2, s.WithGrade)
	assert.Equal(t, 1, s.EcoSignal)
	assert.Equal(t, 1, s.OrganicBadge)
	assert.Equal(t, 2, s.LangDA)
	assert.Equal(t, 1, s.GreenWords)
}
