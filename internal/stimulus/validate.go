package stimulus

import (
	"sort"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Validate independently re-derives every structural invariant from a
// finished stimulus set, without trusting the construction path that produced
// it. All checks run to completion so one pass yields the complete
// diagnostic report; only a clean report allows the set to be released.
func Validate(items []model.StimulusItem, perCombo int) *model.Report {
	report := &model.Report{}

	checkComboBalance(report, items, perCombo)
	checkIdentifiers(report, items)
	checkSources(report, items)
	checkEligibility(report, items)
	checkOrder(report, items)

	return report
}

// checkComboBalance verifies that each of the 8 three-factor combinations
// holds exactly perCombo items.
func checkComboBalance(report *model.Report, items []model.StimulusItem, perCombo int) {
	counts := make(map[model.Combo]int, 8)
	for _, it := range items {
		if it.Salience != model.SalienceLow && it.Salience != model.SalienceHigh {
			report.Add(model.ViolationConsistency, "item %d has invalid salience %q", it.ItemID, it.Salience)
			continue
		}
		counts[it.Combo()]++
	}

	for _, cell := range model.AllCells {
		for _, sal := range []model.Salience{model.SalienceLow, model.SalienceHigh} {
			combo := model.Combo{Cell: cell, Salience: sal}
			if n := counts[combo]; n != perCombo {
				report.Add(model.ViolationCellBalance, "combination %s has %d items, want %d", combo, n, perCombo)
			}
		}
	}
}

// checkIdentifiers verifies that item_id values are unique and form the
// dense range 1..n.
func checkIdentifiers(report *model.Report, items []model.StimulusItem) {
	seen := make(map[int]int, len(items))
	for _, it := range items {
		seen[it.ItemID]++
	}

	dupes := make([]int, 0)
	for id, n := range seen {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Ints(dupes)
	for _, id := range dupes {
		report.Add(model.ViolationDuplicateIdentifier, "item_id %d appears %d times", id, seen[id])
	}

	for id := 1; id <= len(items); id++ {
		if _, ok := seen[id]; !ok {
			report.Add(model.ViolationDuplicateIdentifier, "item_id range is not dense: %d missing from 1..%d", id, len(items))
		}
	}
}

// checkSources verifies that no upstream record was selected twice.
func checkSources(report *model.Report, items []model.StimulusItem) {
	bySource := make(map[string][]int, len(items))
	for _, it := range items {
		bySource[it.SourceCode] = append(bySource[it.SourceCode], it.ItemID)
	}

	codes := make([]string, 0, len(bySource))
	for code, ids := range bySource {
		if code != "" && len(ids) > 1 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	for _, code := range codes {
		ids := bySource[code]
		sort.Ints(ids)
		report.Add(model.ViolationDuplicateSource, "source record %s selected %d times (item_ids %v)", code, len(ids), ids)
	}
}

// checkEligibility verifies that every item still satisfies the sampling
// eligibility filter, and that the derived eco signal matches the grade.
func checkEligibility(report *model.Report, items []model.StimulusItem) {
	for _, it := range items {
		if !it.EcoGrade.Valid() {
			report.Add(model.ViolationEligibility, "item %d has missing or invalid eco grade %q", it.ItemID, it.EcoGrade)
		}
		if !it.LangDA {
			report.Add(model.ViolationEligibility, "item %d is not flagged as Danish-language", it.ItemID)
		}
		if it.EcoGrade.Valid() && it.EcoSignal != it.EcoGrade.Signal() {
			report.Add(model.ViolationConsistency, "item %d eco_signal=%v inconsistent with grade %s", it.ItemID, it.EcoSignal, it.EcoGrade)
		}
	}
}

// checkOrder verifies that presentation positions form a permutation of the
// full set: no slot omitted, no slot repeated.
func checkOrder(report *model.Report, items []model.StimulusItem) {
	seen := make(map[int]int, len(items))
	for _, it := range items {
		seen[it.Position]++
	}

	for pos := 0; pos < len(items); pos++ {
		switch n := seen[pos]; {
		case n == 0:
			report.Add(model.ViolationOrderCompleteness, "presentation position %d is missing", pos)
		case n > 1:
			report.Add(model.ViolationOrderCompleteness, "presentation position %d assigned %d times", pos, n)
		}
	}
	var outOfRange []int
	for pos := range seen {
		if pos < 0 || pos >= len(items) {
			outOfRange = append(outOfRange, pos)
		}
	}
	sort.Ints(outOfRange)
	for _, pos := range outOfRange {
		report.Add(model.ViolationOrderCompleteness, "presentation position %d is out of range 0..%d", pos, len(items)-1)
	}
}
