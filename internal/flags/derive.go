package flags

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// organicRe matches catalog label tags that amount to an organic badge on
// the packaging, across the label spellings seen in the Danish subset.
var organicRe = regexp.MustCompile(`(?i)(?:^|[,;:\s])(?:` +
	`en:organic|da:økologisk|da:okologisk|da:oekologisk|` +
	`organic|økologisk|okologisk|oekologisk|` +
	`bio|biologique|ecologico|ecológico|ökologisch|öko` +
	`)(?:$|[,;:\s])`)

// greenRe matches green wording in display names.
var greenRe = regexp.MustCompile(`(?i)(?:økologisk|økologi|organic|bio|plante|plant[-\s]?based|` +
	`vegansk|vegan|vegetar|bæredygtig|klima|eco|green|natural)`)

// langDARe matches a Danish entry in a languages tag list.
var langDARe = regexp.MustCompile(`(?:^|[,;:])da(?:$|[,;:])`)

var danishCharsRe = regexp.MustCompile(`[æøåÆØÅ]`)

// danishWords are common Danish food words used as an orthography heuristic
// when no explicit language metadata is present.
var danishWords = []string{
	"økologisk", "økologi", "økonomi", "danske", "dansk", "skyr", "rugbrød", "kartofler",
	"havre", "smør", "rød", "grød", "pålæg", "remoulade", "rug", "knækbrød",
}

// DeriveEcoGrade resolves the eco grade with the catalog's fallback chain:
// ecoscore grade, then environmental grade, then binning of the numeric
// score. "a-plus" counts as A; junk values are missing.
func DeriveEcoGrade(rec model.CleanRecord) model.EcoGrade {
	if g := normalizeGrade(rec.EcoGradeRaw); g != "" {
		return g
	}
	if g := normalizeGrade(rec.EnvGradeRaw); g != "" {
		return g
	}
	return gradeFromScore(rec.EcoScoreRaw)
}

// normalizeGrade maps a raw grade cell to A-E or missing.
func normalizeGrade(raw string) model.EcoGrade {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "nan", "unknown", "not-applicable":
		return ""
	case "a-plus":
		return model.EcoGradeA
	}
	g := model.EcoGrade(strings.ToUpper(s))
	if g.Valid() {
		return g
	}
	return ""
}

// gradeFromScore bins the numeric ecoscore into A-E.
func gradeFromScore(raw string) model.EcoGrade {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return ""
	}
	switch {
	case score > 79:
		return model.EcoGradeA
	case score > 59:
		return model.EcoGradeB
	case score > 39:
		return model.EcoGradeC
	case score > 19:
		return model.EcoGradeD
	default:
		return model.EcoGradeE
	}
}

// DeriveOrganicBadge reports whether the label tags carry an organic badge.
func DeriveOrganicBadge(labelsTags string) bool {
	return organicRe.MatchString(strings.ToLower(labelsTags))
}

// DeriveGreenWords reports whether the display name uses green wording.
func DeriveGreenWords(name string) bool {
	return greenRe.MatchString(name)
}

// LooksDanish reports whether a name reads as Danish: Danish letters or a
// common Danish food word.
func LooksDanish(name string) bool {
	s := strings.TrimSpace(name)
	if s == "" {
		return false
	}
	if danishCharsRe.MatchString(s) {
		return true
	}
	low := strings.ToLower(s)
	for _, w := range danishWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

// DeriveLangDA reports whether the record is a Danish-language item, from
// explicit language metadata first and name orthography as fallback.
func DeriveLangDA(rec model.CleanRecord) bool {
	if langDARe.MatchString(strings.ToLower(rec.LanguagesTags)) {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(rec.LC), "da") {
		return true
	}
	if strings.TrimSpace(rec.NameDA) != "" {
		return true
	}
	return LooksDanish(rec.NameDA) || LooksDanish(rec.Name)
}

var catPrefixRe = regexp.MustCompile(`^[a-z]{2}:`)

// DeriveCategory coalesces the category columns, falling back to the first
// categories tag with its language prefix stripped.
func DeriveCategory(rec model.CleanRecord) string {
	if c := strings.TrimSpace(rec.MainCategoryEn); c != "" {
		return c
	}
	if c := strings.TrimSpace(rec.MainCategory); c != "" {
		return c
	}
	first := strings.TrimSpace(strings.Split(rec.CategoriesTags, ",")[0])
	first = catPrefixRe.ReplaceAllString(first, "")
	if first == "" {
		return "unknown"
	}
	return first
}

// DisplayName prefers the Danish name when present.
func DisplayName(rec model.CleanRecord) string {
	if da := strings.TrimSpace(rec.NameDA); da != "" {
		return da
	}
	return strings.TrimSpace(rec.Name)
}

// Engineer derives the full flag set for each cleaned record. Records whose
// display name collapses to empty are dropped.
func Engineer(records []model.CleanRecord) []model.FlaggedRecord {
	out := make([]model.FlaggedRecord, 0, len(records))
	for _, rec := range records {
		name := DisplayName(rec)
		if name == "" {
			continue
		}

		grade := DeriveEcoGrade(rec)
		out = append(out, model.FlaggedRecord{
			Code:         rec.Code,
			Name:         name,
			Category:     DeriveCategory(rec),
			LangDA:       DeriveLangDA(rec),
			EcoGrade:     grade,
			EcoSignal:    grade.Signal(),
			OrganicBadge: DeriveOrganicBadge(rec.LabelsTags),
			GreenWords:   DeriveGreenWords(name),
		})
	}
	return out
}
