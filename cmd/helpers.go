package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/lead-sniper/enrich-cli/internal/store"
	"github.com/lead-sniper/enrich-cli/pkg/fns"
)

// initStore opens the configured run-history backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "init postgres store")
		}
		return st, nil
	case "sqlite", "":
		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, eris.Wrap(err, "init sqlite store")
		}
		return st, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newFNSClient builds the registry client from config.
func newFNSClient() (fns.Client, error) {
	if cfg.FNS.Key == "" {
		return nil, eris.New("ENRICH_FNS_KEY is not set")
	}

	opts := []fns.Option{
		fns.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.FNS.TimeoutSecs) * time.Second,
		}),
	}
	if cfg.FNS.BaseURL != "" {
		opts = append(opts, fns.WithBaseURL(cfg.FNS.BaseURL))
	}

	return fns.NewClient(cfg.FNS.Key, opts...), nil
}

// newThrottle returns the inter-record limiter for the enrichment loop.
func newThrottle() *rate.Limiter {
	delay := time.Duration(cfg.FNS.DelayMS) * time.Millisecond
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
