package stimulus

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// requiredFlagColumns are the columns the flagged record table must carry.
// The upstream flag-engineering stage owns this schema.
var requiredFlagColumns = []string{
	"product_name",
	"eco_score",
	"eco_signal",
	"organic_badge",
	"lang_da",
	"green_words",
	"category",
}

// LoadFlagged reads the flagged record table produced by the flag-engineering
// stage. The table is consumed read-only; rows are returned in file order so
// that the seeded sampling downstream is reproducible from the same snapshot.
func LoadFlagged(path string) ([]model.FlaggedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "stimulus: open flags table")
	}
	defer f.Close()

	// Tolerate a UTF-8 BOM in case the table round-tripped through Excel.
	reader := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "stimulus: read flags table")
	}
	if len(records) < 2 {
		return nil, eris.New("stimulus: flags table has no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredFlagColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("stimulus: flags table missing required columns: %s", strings.Join(missing, ", "))
	}

	_, hasCode := colIdx["code"]

	out := make([]model.FlaggedRecord, 0, len(records)-1)
	for i, row := range records[1:] {
		rec := model.FlaggedRecord{
			Name:     getCol(row, colIdx, "product_name"),
			Category: getCol(row, colIdx, "category"),
			EcoGrade: parseGrade(getCol(row, colIdx, "eco_score")),
		}

		// Tables without an explicit identifier fall back to the row number,
		// which is stable for a fixed snapshot.
		if hasCode {
			rec.Code = getCol(row, colIdx, "code")
		}
		if rec.Code == "" {
			rec.Code = fmt.Sprintf("row:%d", i+1)
		}

		for col, dst := range map[string]*bool{
			"eco_signal":    &rec.EcoSignal,
			"organic_badge": &rec.OrganicBadge,
			"lang_da":       &rec.LangDA,
			"green_words":   &rec.GreenWords,
		} {
			v, parseErr := parseBool01(getCol(row, colIdx, col))
			if parseErr != nil {
				return nil, eris.Wrapf(parseErr, "stimulus: row %d column %s", i+2, col)
			}
			*dst = v
		}

		out = append(out, rec)
	}

	return out, nil
}

// getCol safely retrieves a column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseBool01 parses the 0/1 flag encoding used across the tables.
func parseBool01(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "1", "true", "True":
		return true, nil
	case "0", "", "false", "False":
		return false, nil
	}
	return false, eris.Errorf("value %q is not a 0/1 flag", s)
}

// parseGrade normalizes an eco grade cell. Anything outside A-E is treated
// as missing; the eligibility filter drops those records before sampling.
func parseGrade(s string) model.EcoGrade {
	g := model.EcoGrade(strings.ToUpper(strings.TrimSpace(s)))
	if g.Valid() {
		return g
	}
	return ""
}
