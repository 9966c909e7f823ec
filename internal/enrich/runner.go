// Package enrich runs the per-record registry enrichment pass.
package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lead-sniper/enrich-cli/internal/model"
	"github.com/lead-sniper/enrich-cli/internal/store"
	"github.com/lead-sniper/enrich-cli/pkg/fns"
)

// Runner attaches registry data to company records one at a time, pacing
// calls with a shared limiter. Lookup failures never stop the pass: the
// record is left unenriched and the loop moves on.
type Runner struct {
	client  fns.Client
	limiter *rate.Limiter
	store   store.Store // optional; snapshots skipped when nil
}

// NewRunner creates a Runner. The limiter budgets one lookup pair per wait;
// pass rate.NewLimiter(rate.Inf, 0) in tests for wait-free runs.
func NewRunner(client fns.Client, limiter *rate.Limiter, st store.Store) *Runner {
	return &Runner{client: client, limiter: limiter, store: st}
}

// Run enriches every record in order and returns the enriched copy.
// The two lookups for a record plus its field attachment happen before the
// next record starts; the inter-record delay applies unconditionally.
func (r *Runner) Run(ctx context.Context, runID string, records []model.CompanyRecord) ([]model.CompanyRecord, error) {
	enriched := make([]model.CompanyRecord, 0, len(records))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return enriched, eris.Wrap(err, "enrich: cancelled")
		}

		zap.L().Info("enriching company",
			zap.Int("index", i+1),
			zap.Int("total", len(records)),
			zap.String("inn", rec.INN),
			zap.String("name", rec.Name),
		)

		report, err := r.client.Financials(ctx, rec.INN)
		switch {
		case err != nil:
			zap.L().Warn("enrich: financials lookup failed",
				zap.String("inn", rec.INN),
				zap.Error(err),
			)
		case report != nil:
			year := report.Year
			revenue := report.Revenue
			rec.RevenueYear = &year
			rec.Revenue = &revenue
		}

		code, err := r.client.PrimaryActivity(ctx, rec.INN)
		if err != nil {
			zap.L().Warn("enrich: activity lookup failed",
				zap.String("inn", rec.INN),
				zap.Error(err),
			)
		} else if code != "" {
			rec.OKVEDMain = &code
		}

		if r.store != nil {
			if err := r.store.SaveSnapshot(ctx, runID, rec); err != nil {
				zap.L().Warn("enrich: save snapshot failed",
					zap.String("inn", rec.INN),
					zap.Error(err),
				)
			}
		}

		enriched = append(enriched, rec)

		// Courtesy throttle toward the registry, applied regardless of
		// lookup success.
		if err := r.limiter.Wait(ctx); err != nil {
			return enriched, eris.Wrap(err, "enrich: throttle wait")
		}
	}

	return enriched, nil
}

// CountEnriched reports how many records carry at least one registry field.
func CountEnriched(records []model.CompanyRecord) int {
	n := 0
	for _, rec := range records {
		if rec.Revenue != nil || rec.OKVEDMain != nil {
			n++
		}
	}
	return n
}
