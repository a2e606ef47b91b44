package stimulus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

func TestShuffleAndNumber_DenseIdentifiers(t *testing.T) {
	samples := sampleFixture(t, 10)
	drafts, err := AssignSalience(samples, rand.New(rand.NewSource(637)), SplitRandom)
	require.NoError(t, err)

	items := ShuffleAndNumber(drafts, rand.New(rand.NewSource(637)))
	require.Len(t, items, 40)

	for i, it := range items {
		assert.Equal(t, i+1, it.ItemID, "item_id must be dense and 1-based")
		assert.Equal(t, i, it.Position)
	}
}

func TestShuffleAndNumber_PreservesAttributes(t *testing.T) {
	drafts := []draft{
		{rec: model.FlaggedRecord{Code: "a", Name: "Skyr", LangDA: true, EcoGrade: model.EcoGradeA, EcoSignal: true, OrganicBadge: true, GreenWords: true, Category: "dairy"}, salience: model.SalienceHigh},
		{rec: model.FlaggedRecord{Code: "b", Name: "Rugbrød", LangDA: true, EcoGrade: model.EcoGradeC, Category: "bread"}, salience: model.SalienceLow},
	}

	items := ShuffleAndNumber(drafts, rand.New(rand.NewSource(1)))
	require.Len(t, items, 2)

	byCode := make(map[string]model.StimulusItem, 2)
	for _, it := range items {
		byCode[it.SourceCode] = it
	}

	skyr := byCode["a"]
	assert.Equal(t, "Skyr", skyr.Name)
	assert.True(t, skyr.OrganicBadge)
	assert.Equal(t, model.SalienceHigh, skyr.Salience)
	assert.True(t, skyr.EcoSignal)
	assert.Equal(t, model.EcoGradeA, skyr.EcoGrade)
	assert.True(t, skyr.LangDA)
	assert.True(t, skyr.GreenWords)
	assert.Equal(t, "dairy", skyr.Category)
}

func TestShuffleAndNumber_DoesNotMutateInput(t *testing.T) {
	samples := sampleFixture(t, 4)
	drafts, err := AssignSalience(samples, rand.New(rand.NewSource(2)), SplitRandom)
	require.NoError(t, err)

	before := make([]draft, len(drafts))
	copy(before, drafts)

	_ = ShuffleAndNumber(drafts, rand.New(rand.NewSource(3)))
	assert.Equal(t, before, drafts)
}
