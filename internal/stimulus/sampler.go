package stimulus

import (
	"math/rand"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Eligible returns the records allowed to enter sampling: Danish-language
// items with a proper A-E eco grade. Input order is preserved.
func Eligible(records []model.FlaggedRecord) []model.FlaggedRecord {
	out := make([]model.FlaggedRecord, 0, len(records))
	for _, r := range records {
		if r.Eligible() {
			out = append(out, r)
		}
	}
	return out
}

// PartitionCells groups eligible records by design cell, preserving input
// order within each cell.
func PartitionCells(records []model.FlaggedRecord) map[model.Cell][]model.FlaggedRecord {
	cells := make(map[model.Cell][]model.FlaggedRecord, len(model.AllCells))
	for _, r := range records {
		cells[r.Cell()] = append(cells[r.Cell()], r)
	}
	return cells
}

// SampleCells draws exactly perCell records per design cell, uniformly
// without replacement. Cells are visited in model.AllCells order so the
// random stream is consumed deterministically; any deficient cell aborts the
// build with an InsufficientCandidatesError.
func SampleCells(eligible []model.FlaggedRecord, perCell int, rng *rand.Rand) (map[model.Cell][]model.FlaggedRecord, error) {
	pools := PartitionCells(eligible)

	// Check all cells before consuming the random stream: a failed build
	// should not depend on how far sampling got.
	for _, cell := range model.AllCells {
		if have := len(pools[cell]); have < perCell {
			return nil, &InsufficientCandidatesError{Cell: cell, Need: perCell, Have: have}
		}
	}

	samples := make(map[model.Cell][]model.FlaggedRecord, len(model.AllCells))
	for _, cell := range model.AllCells {
		pool := pools[cell]
		picked := make([]model.FlaggedRecord, 0, perCell)
		for _, idx := range rng.Perm(len(pool))[:perCell] {
			picked = append(picked, pool[idx])
		}
		samples[cell] = picked
	}

	return samples, nil
}
