package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mthomasen/stimuli-cli/internal/config"
	"github.com/mthomasen/stimuli-cli/internal/model"
)

// rawColumns are the catalog export columns the cleaner consumes. Missing
// columns are tolerated and read as empty.
var rawColumns = []string{
	"code",
	"product_name", "product_name_en", "product_name_da",
	"brands",
	"categories_tags",
	"main_category", "main_category_en",
	"labels_tags",
	"languages_tags",
	"countries_tags",
	"lc",
	"ecoscore_grade",
	"environmental_score_grade",
	"ecoscore_score",
}

// Stats summarizes a cleaning run.
type Stats struct {
	RawRows  int `json:"raw_rows"`
	KeptRows int `json:"kept_rows"`
	Chunks   int `json:"chunks"`
}

// CleanFile streams the raw catalog export (tab-separated, optionally
// gzipped), keeps Denmark-scoped rows with a usable display name, and writes
// the cleaned catalog CSV. Chunks are filtered concurrently but written in
// input order, so the output is deterministic for a fixed input.
func CleanFile(ctx context.Context, inPath, outPath string, cfg config.CleanConfig) (*Stats, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open raw export")
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(inPath, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, eris.Wrap(gzErr, "catalog: open gzip")
		}
		defer gz.Close()
		src = gz
	}

	reader := csv.NewReader(src)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read header")
	}
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 200_000
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	kept := make(map[int][]model.CleanRecord)

	stats := &Stats{}
	chunk := make([][]string, 0, chunkSize)
	chunkIdx := 0

	dispatch := func(idx int, rows [][]string) {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			records := cleanChunk(rows, colIdx)
			mu.Lock()
			kept[idx] = records
			mu.Unlock()
			return nil
		})
	}

	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Catalog exports carry the occasional malformed line; skip it
			// the way the upstream dump consumers do.
			if _, ok := readErr.(*csv.ParseError); ok {
				continue
			}
			return nil, eris.Wrap(readErr, "catalog: read row")
		}

		stats.RawRows++
		chunk = append(chunk, row)
		if len(chunk) >= chunkSize {
			dispatch(chunkIdx, chunk)
			chunkIdx++
			chunk = make([][]string, 0, chunkSize)
		}
	}
	if len(chunk) > 0 {
		dispatch(chunkIdx, chunk)
		chunkIdx++
	}
	stats.Chunks = chunkIdx

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "catalog: clean chunks")
	}

	var records []model.CleanRecord
	for i := 0; i < chunkIdx; i++ {
		records = append(records, kept[i]...)
	}
	stats.KeptRows = len(records)

	if err := WriteClean(records, outPath); err != nil {
		return nil, err
	}

	zap.L().Info("catalog: clean complete",
		zap.Int("raw_rows", stats.RawRows),
		zap.Int("kept_rows", stats.KeptRows),
		zap.Int("chunks", stats.Chunks),
	)
	return stats, nil
}

// cleanChunk filters and normalizes one chunk of raw rows.
func cleanChunk(rows [][]string, colIdx map[string]int) []model.CleanRecord {
	var out []model.CleanRecord
	for _, row := range rows {
		get := func(col string) string {
			idx, ok := colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		countries := asLower(get("countries_tags"))
		if !looksDenmark(countries) {
			continue
		}

		nameDA := normStr(get("product_name_da"))
		name := coalesce(normStr(get("product_name")), nameDA, normStr(get("product_name_en")))
		if name == "" {
			continue
		}

		mainCatEn := normStr(get("main_category_en"))
		if mainCatEn == "" {
			mainCatEn = normStr(get("main_category"))
		}

		out = append(out, model.CleanRecord{
			Code:           normStr(get("code")),
			Name:           name,
			NameDA:         nameDA,
			Brands:         normStr(get("brands")),
			CategoriesTags: asLower(get("categories_tags")),
			MainCategory:   normStr(get("main_category")),
			MainCategoryEn: mainCatEn,
			LabelsTags:     asLower(get("labels_tags")),
			LanguagesTags:  asLower(get("languages_tags")),
			CountriesTags:  countries,
			LC:             asLower(get("lc")),
			EcoGradeRaw:    normStr(get("ecoscore_grade")),
			EnvGradeRaw:    normStr(get("environmental_score_grade")),
			EcoScoreRaw:    normStr(get("ecoscore_score")),
		})
	}
	return out
}

// looksDenmark reports whether a countries tag list points at Denmark.
func looksDenmark(countries string) bool {
	for _, part := range strings.Split(countries, ",") {
		p := strings.TrimSpace(part)
		if p == "dk" || p == "en:denmark" || p == "da:denmark" || strings.Contains(p, "denmark") {
			return true
		}
	}
	return false
}

// normStr trims whitespace and drops the literal "nan" the upstream export
// writes for missing values.
func normStr(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

func asLower(s string) string {
	return strings.ToLower(normStr(s))
}

// coalesce returns the first non-empty value.
func coalesce(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
