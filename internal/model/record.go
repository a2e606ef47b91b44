package model

import "fmt"

// EcoGrade is the OpenFoodFacts environmental grade, uppercase A-E.
// The zero value means the grade is missing.
type EcoGrade string

const (
	EcoGradeA EcoGrade = "A"
	EcoGradeB EcoGrade = "B"
	EcoGradeC EcoGrade = "C"
	EcoGradeD EcoGrade = "D"
	EcoGradeE EcoGrade = "E"
)

// Valid reports whether the grade is one of A-E.
func (g EcoGrade) Valid() bool {
	switch g {
	case EcoGradeA, EcoGradeB, EcoGradeC, EcoGradeD, EcoGradeE:
		return true
	}
	return false
}

// Signal reports whether the grade counts as an eco signal (top two grades).
func (g EcoGrade) Signal() bool {
	return g == EcoGradeA || g == EcoGradeB
}

// Salience is the display prominence assigned to a stimulus badge.
type Salience string

const (
	SalienceLow  Salience = "low"
	SalienceHigh Salience = "high"
)

// FlaggedRecord is one candidate product from the flag-engineering stage.
// Immutable input to the stimulus builder.
type FlaggedRecord struct {
	Code         string   `json:"code"`
	Name         string   `json:"product_name"`
	Category     string   `json:"category"`
	LangDA       bool     `json:"lang_da"`
	EcoGrade     EcoGrade `json:"eco_score"`
	EcoSignal    bool     `json:"eco_signal"`
	OrganicBadge bool     `json:"organic_badge"`
	GreenWords   bool     `json:"green_words"`
}

// Eligible reports whether the record may enter sampling: a Danish-language
// item with a proper A-E grade.
func (r FlaggedRecord) Eligible() bool {
	return r.LangDA && r.EcoGrade.Valid()
}

// Cell identifies the record's position in the two-factor sampling design.
func (r FlaggedRecord) Cell() Cell {
	return Cell{OrganicBadge: r.OrganicBadge, EcoSignal: r.EcoSignal}
}

// Cell is one combination of the two sampled design factors.
type Cell struct {
	OrganicBadge bool `json:"organic_badge"`
	EcoSignal    bool `json:"eco_signal"`
}

// AllCells lists the four design cells in the fixed order the builder visits
// them. The order is part of the reproducibility contract: the seeded random
// stream is consumed per cell in exactly this sequence.
var AllCells = []Cell{
	{OrganicBadge: false, EcoSignal: false},
	{OrganicBadge: false, EcoSignal: true},
	{OrganicBadge: true, EcoSignal: false},
	{OrganicBadge: true, EcoSignal: true},
}

func (c Cell) String() string {
	return fmt.Sprintf("(badge=%d, eco=%d)", b2i(c.OrganicBadge), b2i(c.EcoSignal))
}

// Combo is one combination of the full three-factor design.
type Combo struct {
	Cell
	Salience Salience `json:"salience"`
}

func (c Combo) String() string {
	return fmt.Sprintf("(badge=%d, salience=%s, eco=%d)", b2i(c.OrganicBadge), c.Salience, b2i(c.EcoSignal))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
