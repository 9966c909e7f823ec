// Package consolidate merges enriched records into one canonical row per INN
// and applies the revenue floor.
package consolidate

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lead-sniper/enrich-cli/internal/contact"
	"github.com/lead-sniper/enrich-cli/internal/model"
)

// Consolidate groups records by INN and merges each group into one row.
// Records are ordered by revenue descending (absent revenue last) before
// grouping, so the highest-revenue record supplies every scalar field; the
// segment tag is the sorted union of all distinct tags in the group.
func Consolidate(records []model.CompanyRecord) []model.ConsolidatedRecord {
	sorted := make([]model.CompanyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Revenue, sorted[j].Revenue
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri > *rj
	})

	byINN := make(map[string]*model.ConsolidatedRecord)
	tags := make(map[string]map[string]struct{})
	var order []string

	for _, rec := range sorted {
		if _, ok := byINN[rec.INN]; !ok {
			byINN[rec.INN] = &model.ConsolidatedRecord{
				INN:         rec.INN,
				Name:        rec.Name,
				LegalPerson: rec.LegalPerson,
				Region:      rec.Region,
				Description: rec.Description,
				Site:        rec.Site,
				Contacts:    rec.Contacts,
				Source:      rec.Source,
				RatingRef:   rec.RatingRef,
				RevenueYear: rec.RevenueYear,
				Revenue:     rec.Revenue,
				OKVEDMain:   rec.OKVEDMain,
			}
			tags[rec.INN] = make(map[string]struct{})
			order = append(order, rec.INN)
		}
		if rec.SegmentTag != "" {
			tags[rec.INN][rec.SegmentTag] = struct{}{}
		}
	}

	out := make([]model.ConsolidatedRecord, 0, len(order))
	for _, inn := range order {
		row := byINN[inn]
		row.SegmentTag = joinTags(tags[inn])

		if email, ok := contact.ExtractEmail(row.Contacts); ok {
			row.Email = email
		}
		if phone, ok := contact.ExtractPhone(row.Contacts); ok {
			row.Phone = phone
		}

		out = append(out, *row)
	}

	zap.L().Info("consolidated records",
		zap.Int("input", len(records)),
		zap.Int("unique", len(out)),
	)

	return out
}

// Filter keeps rows whose revenue is known and at least minRevenue.
// Rows without a revenue figure are dropped silently; the floor is inclusive.
func Filter(rows []model.ConsolidatedRecord, minRevenue int64) []model.ConsolidatedRecord {
	kept := make([]model.ConsolidatedRecord, 0, len(rows))
	for _, row := range rows {
		if row.Revenue == nil || *row.Revenue < minRevenue {
			continue
		}
		kept = append(kept, row)
	}

	zap.L().Info("applied revenue floor",
		zap.Int64("min_revenue", minRevenue),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(rows)-len(kept)),
	)

	return kept
}

// joinTags returns the distinct tag values sorted and comma-joined.
func joinTags(set map[string]struct{}) string {
	values := make([]string, 0, len(set))
	for tag := range set {
		values = append(values, tag)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
