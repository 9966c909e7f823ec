// Package dataset reads and writes the tabular artifacts of the pipeline:
// the raw source list, the interim enriched snapshot, and the final dataset.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/lead-sniper/enrich-cli/internal/model"
)

// DefaultLimit caps how many source records one run processes.
const DefaultLimit = 50

// RawOptions configures source file parsing.
type RawOptions struct {
	Limit    int    // max records to take from the top; 0 means DefaultLimit
	Encoding string // "", "utf-8", or "cp1251"
}

// rawRequiredColumns must all be present in the source header. The ranking
// column is checked separately because exports name it inconsistently.
var rawRequiredColumns = []string{
	"name", "legal_person", "inn", "category", "region",
	"description", "site", "contacts", "source",
}

// ratingColumns lists accepted names for the ranking/reference score column.
var ratingColumns = []string{"rating_ref", "РРАР_score"}

// ReadRaw parses the raw company list. The schema is fixed: a missing file or
// a missing required column is a hard error before any enrichment starts.
func ReadRaw(path string, opts RawOptions) ([]model.CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open raw file %s", path)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.EqualFold(opts.Encoding, "cp1251") {
		r = transform.NewReader(f, charmap.Windows1251.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read raw csv")
	}
	if len(records) < 2 {
		return nil, eris.New("dataset: raw csv has no data rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	for _, col := range rawRequiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: missing required column %q", col)
		}
	}

	ratingIdx := -1
	for _, col := range ratingColumns {
		if idx, ok := colIdx[col]; ok {
			ratingIdx = idx
			break
		}
	}
	if ratingIdx == -1 {
		return nil, eris.Errorf("dataset: missing ranking column (one of %s)", strings.Join(ratingColumns, ", "))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var companies []model.CompanyRecord
	for _, row := range records[1:] {
		if len(companies) >= limit {
			break
		}

		companies = append(companies, model.CompanyRecord{
			INN:         getCol(row, colIdx, "inn"),
			Name:        getCol(row, colIdx, "name"),
			LegalPerson: getCol(row, colIdx, "legal_person"),
			SegmentTag:  model.SegmentTagFor(getCol(row, colIdx, "category")),
			Region:      getCol(row, colIdx, "region"),
			Description: getCol(row, colIdx, "description"),
			Site:        getCol(row, colIdx, "site"),
			Contacts:    getCol(row, colIdx, "contacts"),
			Source:      getCol(row, colIdx, "source"),
			RatingRef:   rawCol(row, ratingIdx),
		})
	}

	if len(companies) == 0 {
		return nil, eris.New("dataset: no valid companies found in raw csv")
	}

	return companies, nil
}

// getCol safely retrieves a trimmed column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok {
		return ""
	}
	return rawCol(row, idx)
}

func rawCol(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
