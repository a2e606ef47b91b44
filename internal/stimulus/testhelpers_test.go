package stimulus

import (
	"fmt"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// makeCorpus builds a synthetic flagged snapshot with perCell eligible
// records in each design cell, plus a few ineligible rows to exercise the
// filter. Codes and names are unique per record.
func makeCorpus(perCell int) []model.FlaggedRecord {
	var out []model.FlaggedRecord
	for ci, cell := range model.AllCells {
		for i := 0; i < perCell; i++ {
			grade := model.EcoGradeC
			if cell.EcoSignal {
				grade = model.EcoGradeA
			}
			out = append(out, model.FlaggedRecord{
				Code:         fmt.Sprintf("c%d-%03d", ci, i),
				Name:         fmt.Sprintf("Vare %d-%03d", ci, i),
				Category:     "dairy",
				LangDA:       true,
				EcoGrade:     grade,
				EcoSignal:    cell.EcoSignal,
				OrganicBadge: cell.OrganicBadge,
				GreenWords:   cell.OrganicBadge,
			})
		}
	}

	// Ineligible rows: missing grade, non-Danish.
	out = append(out,
		model.FlaggedRecord{Code: "x-1", Name: "No grade", LangDA: true},
		model.FlaggedRecord{Code: "x-2", Name: "English item", EcoGrade: model.EcoGradeB, EcoSignal: true},
	)
	return out
}
