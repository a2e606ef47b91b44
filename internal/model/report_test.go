package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Empty(t *testing.T) {
	r := &Report{}
	assert.True(t, r.OK())
	assert.NoError(t, r.Err())
}

func TestReport_WarningsDoNotFail(t *testing.T) {
	r := &Report{}
	r.Warn("only %d rows", 80)
	assert.True(t, r.OK())
	assert.NoError(t, r.Err())
	require.Len(t, r.Warnings, 1)
}

func TestReport_ErrEnumeratesEveryViolation(t *testing.T) {
	r := &Report{}
	r.Add(ViolationCellBalance, "combo short")
	r.Add(ViolationDuplicateIdentifier, "item_id 3 appears twice")

	assert.False(t, r.OK())
	err := r.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 violation(s)")
	assert.Contains(t, err.Error(), "[cell_balance] combo short")
	assert.Contains(t, err.Error(), "[duplicate_identifier] item_id 3 appears twice")
}
