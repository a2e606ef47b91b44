package stimulus

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mthomasen/stimuli-cli/internal/config"
	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Builder runs the full stimulus-set construction: eligibility filter,
// balanced cell sampling, salience split, shuffle + identifier assignment,
// name overrides, and integrity validation. One seeded random source is
// threaded through the randomized stages in fixed order, so the same seed
// and the same upstream snapshot reproduce the set byte-for-byte.
type Builder struct {
	cfg       config.StimulusConfig
	overrides Overrides
}

// NewBuilder creates a Builder. A nil overrides map applies no name fixes.
func NewBuilder(cfg config.StimulusConfig, overrides Overrides) *Builder {
	return &Builder{cfg: cfg, overrides: overrides}
}

// Build constructs and validates the stimulus set from a flagged record
// snapshot. The returned report always carries the full diagnostic outcome;
// the error is non-nil when the set failed construction or any invariant,
// in which case the set must not be released.
func (b *Builder) Build(records []model.FlaggedRecord) (*model.StimulusSet, *model.Report, error) {
	log := zap.L().With(zap.Int64("seed", b.cfg.Seed))

	eligible := Eligible(records)
	log.Info("stimulus: eligibility filter",
		zap.Int("records", len(records)),
		zap.Int("eligible", len(eligible)),
	)
	pools := PartitionCells(eligible)
	for _, cell := range model.AllCells {
		log.Info("stimulus: cell pool",
			zap.String("cell", cell.String()),
			zap.Int("available", len(pools[cell])),
		)
	}

	rng := rand.New(rand.NewSource(b.cfg.Seed))

	samples, err := SampleCells(eligible, b.cfg.PerCell(), rng)
	if err != nil {
		return nil, nil, err
	}
	log.Info("stimulus: sampled cells", zap.Int("per_cell", b.cfg.PerCell()))

	drafts, err := AssignSalience(samples, rng, b.cfg.SalienceSplit)
	if err != nil {
		return nil, nil, err
	}

	items := ShuffleAndNumber(drafts, rng)
	log.Info("stimulus: shuffled and numbered", zap.Int("items", len(items)))

	if len(b.overrides) > 0 {
		applied, unmatched := b.overrides.Apply(items)
		log.Info("stimulus: name overrides applied", zap.Int("applied", applied))
		// Configuration drift: the map names items this build never produced.
		// Non-fatal, but worth fixing so the reproducibility note stays
		// accurate.
		for _, id := range unmatched {
			log.Warn("stimulus: override key matches no item", zap.Int("item_id", id))
		}
	}

	set := &model.StimulusSet{
		Items:   items,
		Seed:    b.cfg.Seed,
		BuiltAt: time.Now().UTC(),
	}

	report := Validate(items, b.cfg.TargetPerCombo)
	if !report.OK() {
		log.Error("stimulus: integrity validation failed", zap.Int("violations", len(report.Violations)))
		return set, report, report.Err()
	}

	log.Info("stimulus: integrity validation passed", zap.Int("items", len(items)))
	return set, report, nil
}

// CellCounts summarizes the three-factor balance of a finished set, keyed by
// combo string. Used for run records and the QC summary.
func CellCounts(items []model.StimulusItem) map[string]int {
	counts := make(map[string]int, 8)
	for _, it := range items {
		counts[it.Combo().String()]++
	}
	return counts
}
