package model

// CleanRecord is one row of the cleaned catalog: a Denmark-scoped product
// with normalized name and tag fields, still carrying the raw grade columns
// the flag-engineering stage derives from.
type CleanRecord struct {
	Code           string `json:"code"`
	Name           string `json:"product_name"`
	NameDA         string `json:"product_name_da"`
	Brands         string `json:"brands"`
	CategoriesTags string `json:"categories_tags"`
	MainCategory   string `json:"main_category"`
	MainCategoryEn string `json:"main_category_en"`
	LabelsTags     string `json:"labels_tags"`
	LanguagesTags  string `json:"languages_tags"`
	CountriesTags  string `json:"countries_tags"`
	LC             string `json:"lc"`
	EcoGradeRaw    string `json:"ecoscore_grade"`
	EnvGradeRaw    string `json:"environmental_score_grade"`
	EcoScoreRaw    string `json:"ecoscore_score"`
}
