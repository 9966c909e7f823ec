package model

// CompanyRecord is one row of the source company list, optionally carrying
// registry enrichment fields. The same INN may appear on multiple records
// before consolidation (the source lists companies once per category).
type CompanyRecord struct {
	INN         string `json:"inn"`
	Name        string `json:"name"`
	LegalPerson string `json:"legal_person"`
	SegmentTag  string `json:"segment_tag"`
	Region      string `json:"region"`
	Description string `json:"description"`
	Site        string `json:"site"`
	Contacts    string `json:"contacts"`
	Source      string `json:"source"`
	RatingRef   string `json:"rating_ref"`

	// Enrichment fields. RevenueYear and Revenue are set together or not at
	// all: the registry returns a (year, amount) pair or nothing.
	RevenueYear *int    `json:"revenue_year,omitempty"`
	Revenue     *int64  `json:"revenue,omitempty"` // minor currency units
	OKVEDMain   *string `json:"okved_main,omitempty"`
}

// ConsolidatedRecord is the canonical row for one INN after dedup and merge.
// Immutable once built; dropped entirely if it fails the revenue floor.
type ConsolidatedRecord struct {
	INN         string  `json:"inn"`
	Name        string  `json:"name"`
	LegalPerson string  `json:"legal_person"`
	SegmentTag  string  `json:"segment_tag"` // sorted union, comma-separated
	Region      string  `json:"region"`
	Description string  `json:"description"`
	Site        string  `json:"site"`
	Contacts    string  `json:"contacts"`
	Source      string  `json:"source"`
	RatingRef   string  `json:"rating_ref"`
	RevenueYear *int    `json:"revenue_year,omitempty"`
	Revenue     *int64  `json:"revenue,omitempty"`
	OKVEDMain   *string `json:"okved_main,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
}
