package catalog

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// cleanColumns defines the cleaned catalog CSV schema.
var cleanColumns = []string{
	"code",
	"product_name",
	"product_name_da",
	"brands",
	"categories_tags",
	"main_category",
	"main_category_en",
	"labels_tags",
	"languages_tags",
	"countries_tags",
	"lc",
	"ecoscore_grade",
	"environmental_score_grade",
	"ecoscore_score",
}

// WriteClean writes cleaned records as CSV.
func WriteClean(records []model.CleanRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "catalog: create clean file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(cleanColumns); err != nil {
		return eris.Wrap(err, "catalog: write header")
	}
	for _, r := range records {
		row := []string{
			r.Code,
			r.Name,
			r.NameDA,
			r.Brands,
			r.CategoriesTags,
			r.MainCategory,
			r.MainCategoryEn,
			r.LabelsTags,
			r.LanguagesTags,
			r.CountriesTags,
			r.LC,
			r.EcoGradeRaw,
			r.EnvGradeRaw,
			r.EcoScoreRaw,
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "catalog: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "catalog: flush clean file")
}

// ReadClean reads a cleaned catalog CSV back into records.
func ReadClean(path string) ([]model.CleanRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open clean file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read clean file")
	}
	if len(rows) < 2 {
		return nil, eris.New("catalog: clean file has no data rows")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		colIdx[strings.TrimSpace(col)] = i
	}

	get := func(row []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	records := make([]model.CleanRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, model.CleanRecord{
			Code:           get(row, "code"),
			Name:           get(row, "product_name"),
			NameDA:         get(row, "product_name_da"),
			Brands:         get(row, "brands"),
			CategoriesTags: get(row, "categories_tags"),
			MainCategory:   get(row, "main_category"),
			MainCategoryEn: get(row, "main_category_en"),
			LabelsTags:     get(row, "labels_tags"),
			LanguagesTags:  get(row, "languages_tags"),
			CountriesTags:  get(row, "countries_tags"),
			LC:             get(row, "lc"),
			EcoGradeRaw:    get(row, "ecoscore_grade"),
			EnvGradeRaw:    get(row, "environmental_score_grade"),
			EcoScoreRaw:    get(row, "ecoscore_score"),
		})
	}
	return records, nil
}
