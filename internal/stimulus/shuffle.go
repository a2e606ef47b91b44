package stimulus

import (
	"math/rand"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// ShuffleAndNumber produces the final presentation order and assigns dense
// 1-based item identifiers. Identifiers are positional: item_id encodes the
// post-shuffle presentation slot, which is what the name-override map and the
// presentation runner key on.
func ShuffleAndNumber(drafts []draft, rng *rand.Rand) []model.StimulusItem {
	shuffled := make([]draft, len(drafts))
	copy(shuffled, drafts)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	items := make([]model.StimulusItem, len(shuffled))
	for i, d := range shuffled {
		items[i] = model.StimulusItem{
			ItemID:       i + 1,
			Name:         d.rec.Name,
			OrganicBadge: d.rec.OrganicBadge,
			Salience:     d.salience,
			EcoSignal:    d.rec.EcoSignal,
			EcoGrade:     d.rec.EcoGrade,
			LangDA:       d.rec.LangDA,
			GreenWords:   d.rec.GreenWords,
			Category:     d.rec.Category,
			SourceCode:   d.rec.Code,
			Position:     i,
		}
	}
	return items
}
