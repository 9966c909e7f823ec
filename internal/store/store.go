// Package store persists run history and per-record enrichment snapshots.
package store

import (
	"context"

	"github.com/lead-sniper/enrich-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the enrichment pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Snapshots: one per enriched record, written as the run progresses.
	SaveSnapshot(ctx context.Context, runID string, rec model.CompanyRecord) error
	ListSnapshots(ctx context.Context, runID string) ([]model.CompanyRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
