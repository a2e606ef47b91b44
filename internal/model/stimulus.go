package model

import "time"

// StimulusItem is one selected record plus its experiment-assigned
// attributes. Items are created once by the builder and never mutated; the
// persisted table is the single source of truth for the presentation runner.
type StimulusItem struct {
	ItemID       int      `json:"item_id"`
	Name         string   `json:"product_name"`
	OrganicBadge bool     `json:"organic_badge"`
	Salience     Salience `json:"salience"`
	EcoSignal    bool     `json:"eco_signal"`
	EcoGrade     EcoGrade `json:"eco_score"`
	LangDA       bool     `json:"lang_da"`
	GreenWords   bool     `json:"green_words"`
	Category     string   `json:"category"`

	// SourceCode is the upstream record identifier, kept for uniqueness
	// checks. Not part of the presentation table.
	SourceCode string `json:"source_code"`
	// Position is the 0-based presentation order index.
	Position int `json:"position"`
}

// Combo returns the item's three-factor design combination.
func (it StimulusItem) Combo() Combo {
	return Combo{
		Cell:     Cell{OrganicBadge: it.OrganicBadge, EcoSignal: it.EcoSignal},
		Salience: it.Salience,
	}
}

// StimulusSet is the finished ordered collection of stimulus items, built
// once per experiment version from one snapshot and one seed.
type StimulusSet struct {
	Items   []StimulusItem `json:"items"`
	Seed    int64          `json:"seed"`
	BuiltAt time.Time      `json:"built_at"`
}
