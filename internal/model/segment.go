package model

// SegmentTagUnknown is assigned to categories missing from the mapping table.
const SegmentTagUnknown = "UNKNOWN"

// segmentTags maps raw category labels from the source export to segment codes.
var segmentTags = map[string]string{
	"BTL агентства":              "BTL",
	"Агентства полного цикла":    "FULL_CYCLE",
	"Сувенирная продукция":       "SOUVENIR",
	"Event-management":           "EVENT",
	"Мерчандайзинг":              "MERCHANDISING",
	"Оформление мест продаж POS": "POS",
	"PR агентства":               "PR, COMM_GROUP",
}

// SegmentTagFor returns the segment code for a raw category label.
func SegmentTagFor(category string) string {
	if tag, ok := segmentTags[category]; ok {
		return tag
	}
	return SegmentTagUnknown
}
