package stimulus

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

func TestEligible_FiltersMissingGradeAndLanguage(t *testing.T) {
	records := makeCorpus(2)
	eligible := Eligible(records)

	assert.Len(t, eligible, 8)
	for _, r := range eligible {
		assert.True(t, r.LangDA)
		assert.True(t, r.EcoGrade.Valid())
	}
}

func TestPartitionCells_PreservesOrder(t *testing.T) {
	records := Eligible(makeCorpus(3))
	pools := PartitionCells(records)

	require.Len(t, pools, 4)
	for _, cell := range model.AllCells {
		pool := pools[cell]
		require.Len(t, pool, 3)
		for i := 1; i < len(pool); i++ {
			assert.Less(t, pool[i-1].Code, pool[i].Code, "pool order should follow input order")
		}
	}
}

func TestSampleCells_ExactCounts(t *testing.T) {
	eligible := Eligible(makeCorpus(60))
	rng := rand.New(rand.NewSource(637))

	samples, err := SampleCells(eligible, 40, rng)
	require.NoError(t, err)

	for _, cell := range model.AllCells {
		sample := samples[cell]
		require.Len(t, sample, 40)

		seen := make(map[string]bool, len(sample))
		for _, r := range sample {
			assert.Equal(t, cell, r.Cell())
			assert.False(t, seen[r.Code], "record %s sampled twice", r.Code)
			seen[r.Code] = true
		}
	}
}

func TestSampleCells_InsufficientCandidates(t *testing.T) {
	// Third cell one record short.
	records := makeCorpus(40)
	short := records[:0]
	removed := 0
	for _, r := range records {
		if removed == 0 && r.Cell() == (model.Cell{OrganicBadge: true, EcoSignal: false}) {
			removed++
			continue
		}
		short = append(short, r)
	}

	rng := rand.New(rand.NewSource(637))
	_, err := SampleCells(Eligible(short), 40, rng)
	require.Error(t, err)

	var insufficient *InsufficientCandidatesError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, model.Cell{OrganicBadge: true, EcoSignal: false}, insufficient.Cell)
	assert.Equal(t, 40, insufficient.Need)
	assert.Equal(t, 39, insufficient.Have)
	assert.Contains(t, err.Error(), "short 1")
}

func TestSampleCells_Deterministic(t *testing.T) {
	eligible := Eligible(makeCorpus(50))

	a, err := SampleCells(eligible, 40, rand.New(rand.NewSource(637)))
	require.NoError(t, err)
	b, err := SampleCells(eligible, 40, rand.New(rand.NewSource(637)))
	require.NoError(t, err)

	assert.Equal(t, a, b)

	c, err := SampleCells(eligible, 40, rand.New(rand.NewSource(638)))
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should draw different samples")
}
