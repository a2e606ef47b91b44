package stimulus

import (
	"github.com/mthomasen/stimuli-cli/internal/config"
	"github.com/mthomasen/stimuli-cli/internal/model"
)

// QCTable runs the full standalone quality-control pass over a persisted
// stimulus table: every structural invariant plus the table-level checks the
// builder cannot violate by construction but a hand-edited file can.
func QCTable(items []model.StimulusItem, cfg config.QCConfig) *model.Report {
	perCombo := cfg.ExpectedItems / 8
	report := Validate(items, perCombo)

	if len(items) != cfg.ExpectedItems {
		report.Warn("table has %d rows, expected %d", len(items), cfg.ExpectedItems)
	}

	checkNames(report, items, cfg.MaxNameDups)

	return report
}

// checkNames verifies display names are present and that duplication stays
// under the configured cap. The catalog reuses generic names ("Hvedemel")
// across products, so a small number of duplicates is expected and allowed.
func checkNames(report *model.Report, items []model.StimulusItem, maxDups int) {
	distinct := make(map[string]bool, len(items))
	named := 0
	for _, it := range items {
		if it.Name == "" {
			report.Add(model.ViolationSchema, "item %d has an empty product name", it.ItemID)
			continue
		}
		named++
		distinct[it.Name] = true
	}

	dupRows := named - len(distinct)
	switch {
	case dupRows > maxDups:
		report.Add(model.ViolationSchema, "%d duplicated product_name rows, max allowed %d", dupRows, maxDups)
	case dupRows > 0:
		report.Warn("%d duplicated product_name rows (allowed up to %d)", dupRows, maxDups)
	}
}
