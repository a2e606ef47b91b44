package flags

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// flagColumns defines the flagged record table schema consumed by the
// stimulus builder.
var flagColumns = []string{
	"code",
	"product_name",
	"eco_score",
	"eco_signal",
	"organic_badge",
	"lang_da",
	"green_words",
	"category",
}

// WriteFlags writes flagged records as CSV.
func WriteFlags(records []model.FlaggedRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "flags: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(flagColumns); err != nil {
		return eris.Wrap(err, "flags: write header")
	}
	for _, r := range records {
		row := []string{
			r.Code,
			r.Name,
			string(r.EcoGrade),
			flag01(r.EcoSignal),
			flag01(r.OrganicBadge),
			flag01(r.LangDA),
			flag01(r.GreenWords),
			r.Category,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "flags: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "flags: flush file")
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Summary counts flag prevalence for logging after a flag-engineering run.
type Summary struct {
	Records      int `json:"records"`
	WithGrade    int `json:"with_grade"`
	EcoSignal    int `json:"eco_signal"`
	OrganicBadge int `json:"organic_badge"`
	LangDA       int `json:"lang_da"`
	GreenWords   int `json:"green_words"`
}

// Summarize computes flag prevalence over a record set.
func Summarize(records []model.FlaggedRecord) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		if r.EcoGrade.Valid() {
			s.WithGrade++
		}
		if r.EcoSignal {
			s.EcoSignal++
		}
		if r.OrganicBadge {
			s.OrganicBadge++
		}
		if r.LangDA {
			s.LangDA++
		}
		if r.GreenWords {
			s.GreenWords++
		}
	}
	return s
}
