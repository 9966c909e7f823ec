package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/lead-sniper/enrich-cli/internal/model"
)

// interimColumns is the round-trippable schema of the enriched snapshot.
var interimColumns = []string{
	"inn", "name", "legal_person", "segment_tag", "region", "description",
	"site", "contacts", "source", "rating_ref",
	"revenue_year", "revenue", "okved_main",
}

// WriteInterim persists the fully enriched record set before consolidation so
// a failed run keeps the enrichment work already paid for.
func WriteInterim(path string, records []model.CompanyRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create interim dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create interim file %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(interimColumns); err != nil {
		return eris.Wrap(err, "dataset: write interim header")
	}

	for _, rec := range records {
		row := []string{
			rec.INN, rec.Name, rec.LegalPerson, rec.SegmentTag, rec.Region,
			rec.Description, rec.Site, rec.Contacts, rec.Source, rec.RatingRef,
			intPtrString(rec.RevenueYear), int64PtrString(rec.Revenue),
			strPtrString(rec.OKVEDMain),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "dataset: write interim row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "dataset: flush interim")
}

// ReadInterim loads an enriched snapshot back, the manual resume path for a
// run that died between enrichment and consolidation.
func ReadInterim(path string) ([]model.CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open interim file %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read interim csv")
	}
	if len(rows) < 2 {
		return nil, eris.New("dataset: interim csv has no data rows")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		colIdx[col] = i
	}
	for _, col := range interimColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: interim csv missing column %q", col)
		}
	}

	records := make([]model.CompanyRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := model.CompanyRecord{
			INN:         getCol(row, colIdx, "inn"),
			Name:        getCol(row, colIdx, "name"),
			LegalPerson: getCol(row, colIdx, "legal_person"),
			SegmentTag:  getCol(row, colIdx, "segment_tag"),
			Region:      getCol(row, colIdx, "region"),
			Description: getCol(row, colIdx, "description"),
			Site:        getCol(row, colIdx, "site"),
			Contacts:    getCol(row, colIdx, "contacts"),
			Source:      getCol(row, colIdx, "source"),
			RatingRef:   getCol(row, colIdx, "rating_ref"),
		}

		if s := getCol(row, colIdx, "revenue_year"); s != "" {
			year, convErr := strconv.Atoi(s)
			if convErr != nil {
				return nil, eris.Wrapf(convErr, "dataset: parse revenue_year %q for inn %s", s, rec.INN)
			}
			rec.RevenueYear = &year
		}
		if s := getCol(row, colIdx, "revenue"); s != "" {
			revenue, convErr := strconv.ParseInt(s, 10, 64)
			if convErr != nil {
				return nil, eris.Wrapf(convErr, "dataset: parse revenue %q for inn %s", s, rec.INN)
			}
			rec.Revenue = &revenue
		}
		if s := getCol(row, colIdx, "okved_main"); s != "" {
			rec.OKVEDMain = &s
		}

		records = append(records, rec)
	}

	return records, nil
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64PtrString(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func strPtrString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
