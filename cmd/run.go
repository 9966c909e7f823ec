package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-sniper/enrich-cli/internal/consolidate"
	"github.com/lead-sniper/enrich-cli/internal/dataset"
	"github.com/lead-sniper/enrich-cli/internal/enrich"
	"github.com/lead-sniper/enrich-cli/internal/model"
)

var (
	runRaw      string
	runInterim  string
	runFinal    string
	runLimit    int
	runFormat   string
	runEncoding string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: enrich, consolidate, filter, export",
	Long: `Reads the raw company list, enriches the first N records against the
FNS registry, writes the interim enriched CSV, then consolidates duplicates by
INN, extracts contacts, applies the revenue floor, and writes the final dataset.

Examples:
  # Full pass with defaults from config.yaml
  enrich-cli run

  # Explicit paths, XLSX output
  enrich-cli run --raw companies.csv --final out/companies.xlsx --format xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rawPath := pathOr(runRaw, cfg.Paths.Raw)
		interimPath := pathOr(runInterim, cfg.Paths.Interim)
		finalPath := pathOr(runFinal, cfg.Paths.Final)

		records, err := dataset.ReadRaw(rawPath, dataset.RawOptions{
			Limit:    limitOr(runLimit, cfg.Pipeline.MaxCompanies),
			Encoding: encodingOr(runEncoding, cfg.Pipeline.Encoding),
		})
		if err != nil {
			return eris.Wrap(err, "run: read raw")
		}
		zap.L().Info("loaded raw companies", zap.Int("count", len(records)), zap.String("path", rawPath))

		client, err := newFNSClient()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, rawPath)
		if err != nil {
			return eris.Wrap(err, "run: create run")
		}
		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusEnriching); err != nil {
			return err
		}

		runner := enrich.NewRunner(client, newThrottle(), st)
		enriched, err := runner.Run(ctx, run.ID, records)
		if err != nil {
			_ = st.CompleteRun(ctx, run.ID, &model.RunStats{
				Processed: len(enriched),
				Error:     err.Error(),
			})
			return eris.Wrap(err, "run: enrich")
		}

		if err := dataset.WriteInterim(interimPath, enriched); err != nil {
			return eris.Wrap(err, "run: write interim")
		}
		zap.L().Info("interim snapshot written", zap.String("path", interimPath))

		if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusConsolidating); err != nil {
			return err
		}

		merged := consolidate.Consolidate(enriched)
		kept := consolidate.Filter(merged, cfg.Pipeline.MinRevenue)

		if err := writeFinal(finalPath, runFormat, kept); err != nil {
			return err
		}

		stats := &model.RunStats{
			Processed:    len(records),
			Enriched:     enrich.CountEnriched(enriched),
			Consolidated: len(merged),
			Kept:         len(kept),
		}
		if err := st.CompleteRun(ctx, run.ID, stats); err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.Int("processed", stats.Processed),
			zap.Int("enriched", stats.Enriched),
			zap.Int("consolidated", stats.Consolidated),
			zap.Int("kept", stats.Kept),
			zap.String("final", finalPath),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runRaw, "raw", "", "path to the raw company CSV (default from config)")
	runCmd.Flags().StringVar(&runInterim, "interim", "", "path for the interim enriched CSV (default from config)")
	runCmd.Flags().StringVar(&runFinal, "final", "", "path for the final dataset (default from config)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "max companies to process (default from config)")
	runCmd.Flags().StringVar(&runFormat, "format", "csv", "final output format: csv or xlsx")
	runCmd.Flags().StringVar(&runEncoding, "encoding", "", "raw file encoding: utf-8 (default) or cp1251")
	rootCmd.AddCommand(runCmd)
}

// writeFinal writes the final dataset in the requested format.
func writeFinal(path, format string, rows []model.ConsolidatedRecord) error {
	switch format {
	case "xlsx":
		if err := dataset.WriteFinalXLSX(path, rows); err != nil {
			return eris.Wrap(err, "write final xlsx")
		}
	case "csv", "":
		if err := dataset.WriteFinal(path, rows); err != nil {
			return eris.Wrap(err, "write final csv")
		}
	default:
		return eris.Errorf("unknown output format %q", format)
	}
	zap.L().Info("final dataset written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}

func pathOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func limitOr(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}

func encodingOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
