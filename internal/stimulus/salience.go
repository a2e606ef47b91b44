package stimulus

import (
	"math/rand"

	"github.com/rotisserie/eris"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Salience split policies. Random is the default: the split continues the
// seeded stream so the full build reproduces from one top-level seed.
// Ordered splits on sampling order without consuming the stream, kept for
// the case where the upstream policy turns out to be positional.
const (
	SplitRandom  = "random"
	SplitOrdered = "ordered"
)

// draft is a sampled record with its assigned salience, before shuffling and
// identifier assignment.
type draft struct {
	rec      model.FlaggedRecord
	salience model.Salience
}

// AssignSalience splits each cell's sample into equal low/high halves and
// returns the drafts flattened in model.AllCells order. Salience depends on
// nothing but cell membership; it is a display-only manipulation.
func AssignSalience(samples map[model.Cell][]model.FlaggedRecord, rng *rand.Rand, split string) ([]draft, error) {
	var drafts []draft

	for _, cell := range model.AllCells {
		sample := samples[cell]

		// Sampling guarantees even, equal cell sizes; a malformed cell here
		// means a bug upstream, not bad data.
		if len(sample)%2 != 0 {
			return nil, eris.Errorf("stimulus: cell %s sample size %d is odd, cannot split salience evenly", cell, len(sample))
		}

		order := make([]int, len(sample))
		for i := range order {
			order[i] = i
		}
		switch split {
		case SplitOrdered:
			// First half in sampling order becomes low.
		case SplitRandom:
			rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		default:
			return nil, eris.Errorf("stimulus: unknown salience split policy %q", split)
		}

		half := len(order) / 2
		assigned := make(map[int]model.Salience, len(order))
		for i, idx := range order {
			if i < half {
				assigned[idx] = model.SalienceLow
			} else {
				assigned[idx] = model.SalienceHigh
			}
		}

		// Flatten in sampling order so the later shuffle is the only stage
		// that determines presentation order.
		for i, rec := range sample {
			drafts = append(drafts, draft{rec: rec, salience: assigned[i]})
		}
	}

	return drafts, nil
}
