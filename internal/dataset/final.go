package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lead-sniper/enrich-cli/internal/model"
)

// finalColumns is the fixed, ordered schema of the final dataset. Columns the
// pipeline never fills (employees) stay empty rather than being dropped, so
// downstream consumers get a stable layout.
var finalColumns = []string{
	"inn",
	"name",
	"revenue_year",
	"revenue",
	"segment_tag",
	"source",
	"okved_main",
	"employees",
	"site",
	"description",
	"region",
	"contacts",
	"phone",
	"email",
	"rating_ref",
}

// WriteFinal writes the consolidated dataset as CSV. Absent values become
// empty strings, never a null marker.
func WriteFinal(path string, rows []model.ConsolidatedRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create final dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create final file %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(finalColumns); err != nil {
		return eris.Wrap(err, "dataset: write final header")
	}

	for _, row := range rows {
		if err := w.Write(buildFinalRow(row)); err != nil {
			return eris.Wrap(err, "dataset: write final row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "dataset: flush final")
}

// WriteFinalXLSX writes the consolidated dataset as a single-sheet workbook
// with the same column order as the CSV artifact.
func WriteFinalXLSX(path string, rows []model.ConsolidatedRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create final dir for %s", path)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("companies")
	if err != nil {
		return eris.Wrap(err, "dataset: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range finalColumns {
		header.AddCell().Value = col
	}

	for _, row := range rows {
		xr := sheet.AddRow()
		for _, v := range buildFinalRow(row) {
			xr.AddCell().Value = v
		}
	}

	return eris.Wrapf(file.Save(path), "dataset: save xlsx %s", path)
}

// buildFinalRow projects a consolidated record onto finalColumns.
func buildFinalRow(r model.ConsolidatedRecord) []string {
	return []string{
		r.INN,                        // inn
		r.Name,                       // name
		intPtrString(r.RevenueYear),  // revenue_year
		int64PtrString(r.Revenue),    // revenue
		r.SegmentTag,                 // segment_tag
		r.Source,                     // source
		strPtrString(r.OKVEDMain),    // okved_main
		"",                           // employees
		r.Site,                       // site
		r.Description,                // description
		r.Region,                     // region
		r.Contacts,                   // contacts
		r.Phone,                      // phone
		r.Email,                      // email
		r.RatingRef,                  // rating_ref
	}
}
