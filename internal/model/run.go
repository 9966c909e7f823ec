package model

import "time"

// RunStatus represents the current state of an enrichment run.
type RunStatus string

const (
	RunStatusQueued        RunStatus = "queued"
	RunStatusEnriching     RunStatus = "enriching"
	RunStatusConsolidating RunStatus = "consolidating"
	RunStatusComplete      RunStatus = "complete"
	RunStatusFailed        RunStatus = "failed"
)

// Run represents one pipeline pass over a source file.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"` // path of the raw input file
	Status    RunStatus `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunStats holds the final counters of a run.
type RunStats struct {
	Processed    int    `json:"processed"`     // records read from the source
	Enriched     int    `json:"enriched"`      // records with at least one registry field attached
	Consolidated int    `json:"consolidated"`  // unique INNs after dedup
	Kept         int    `json:"kept"`          // rows surviving the revenue floor
	Error        string `json:"error,omitempty"`
}
