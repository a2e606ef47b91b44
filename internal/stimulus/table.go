package stimulus

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// Columns defines the ordered stimulus table schema consumed by the
// presentation runner.
var Columns = []string{
	"item_id",
	"product_name",
	"organic_badge",
	"salience",
	"eco_signal",
	"eco_score",
	"lang_da",
	"green_words",
	"category",
}

// WriteTable writes the stimulus table as CSV in presentation order. The
// file starts with a UTF-8 BOM so Excel and the presentation runner read the
// Danish names correctly.
func WriteTable(items []model.StimulusItem, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "stimulus: create table")
	}
	defer f.Close()

	bom := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)

	if err := w.Write(Columns); err != nil {
		return eris.Wrap(err, "stimulus: write header")
	}
	for _, it := range items {
		if err := w.Write(itemRow(it)); err != nil {
			return eris.Wrapf(err, "stimulus: write item %d", it.ItemID)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "stimulus: flush table")
	}
	return eris.Wrap(bom.Close(), "stimulus: close table")
}

// WriteXLSX writes the stimulus table as a single-sheet workbook, for lab
// members reviewing the set by hand.
func WriteXLSX(items []model.StimulusItem, path string) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("stimulus_set")
	if err != nil {
		return eris.Wrap(err, "stimulus: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}
	for _, it := range items {
		row := sheet.AddRow()
		for _, cell := range itemRow(it) {
			row.AddCell().SetString(cell)
		}
	}

	return eris.Wrap(wb.Save(path), "stimulus: save xlsx")
}

// itemRow maps a StimulusItem to its CSV row.
func itemRow(it model.StimulusItem) []string {
	return []string{
		strconv.Itoa(it.ItemID),
		it.Name,
		flag01(it.OrganicBadge),
		string(it.Salience),
		flag01(it.EcoSignal),
		string(it.EcoGrade),
		flag01(it.LangDA),
		flag01(it.GreenWords),
		it.Category,
	}
}

func flag01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ReadTable reads a persisted stimulus table back into items, tolerating a
// UTF-8 BOM. Row order is presentation order; Position is re-derived from it.
func ReadTable(path string) ([]model.StimulusItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "stimulus: open table")
	}
	defer f.Close()

	reader := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "stimulus: read table")
	}
	if len(records) < 1 {
		return nil, eris.New("stimulus: table is empty")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("stimulus: table missing required columns: %s", strings.Join(missing, ", "))
	}

	items := make([]model.StimulusItem, 0, len(records)-1)
	for i, row := range records[1:] {
		id, convErr := strconv.Atoi(getCol(row, colIdx, "item_id"))
		if convErr != nil {
			return nil, eris.Wrapf(convErr, "stimulus: row %d item_id", i+2)
		}

		it := model.StimulusItem{
			ItemID:   id,
			Name:     getCol(row, colIdx, "product_name"),
			Salience: model.Salience(strings.ToLower(getCol(row, colIdx, "salience"))),
			EcoGrade: parseGrade(getCol(row, colIdx, "eco_score")),
			Category: getCol(row, colIdx, "category"),
			Position: i,
		}
		for col, dst := range map[string]*bool{
			"organic_badge": &it.OrganicBadge,
			"eco_signal":    &it.EcoSignal,
			"lang_da":       &it.LangDA,
			"green_words":   &it.GreenWords,
		} {
			v, parseErr := parseBool01(getCol(row, colIdx, col))
			if parseErr != nil {
				return nil, eris.Wrapf(parseErr, "stimulus: row %d column %s", i+2, col)
			}
			*dst = v
		}

		items = append(items, it)
	}

	return items, nil
}
