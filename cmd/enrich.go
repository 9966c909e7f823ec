package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-sniper/enrich-cli/internal/dataset"
	"github.com/lead-sniper/enrich-cli/internal/enrich"
	"github.com/lead-sniper/enrich-cli/internal/model"
)

var (
	enrichRaw      string
	enrichInterim  string
	enrichLimit    int
	enrichEncoding string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run only the enrichment stage and write the interim CSV",
	Long: `Reads the raw company list, performs the registry lookups, and stops
after writing the interim enriched CSV. Pair with "consolidate --interim" to
finish a run later or to re-consolidate without re-paying the API calls.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rawPath := pathOr(enrichRaw, cfg.Paths.Raw)
		interimPath := pathOr(enrichInterim, cfg.Paths.Interim)

		records, err := dataset.ReadRaw(rawPath, dataset.RawOptions{
			Limit:    limitOr(enrichLimit, cfg.Pipeline.MaxCompanies),
			Encoding: encodingOr(enrichEncoding, cfg.Pipeline.Encoding),
		})
		if err != nil {
			return eris.Wrap(err, "enrich: read raw")
		}

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
			return eris.Wrap(err, "enrich: create run")
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
			return eris.Wrap(err, "enrich: run")
		}

		if err := dataset.WriteInterim(interimPath, enriched); err != nil {
			return eris.Wrap(err, "enrich: write interim")
		}

		if err := st.CompleteRun(ctx, run.ID, &model.RunStats{
			Processed: len(records),
			Enriched:  enrich.CountEnriched(enriched),
		}); err != nil {
			return err
		}

		zap.L().Info("enrichment complete",
			zap.String("run_id", run.ID),
			zap.Int("processed", len(records)),
			zap.String("interim", interimPath),
		)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichRaw, "raw", "", "path to the raw company CSV (default from config)")
	enrichCmd.Flags().StringVar(&enrichInterim, "interim", "", "path for the interim enriched CSV (default from config)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "max companies to process (default from config)")
	enrichCmd.Flags().StringVar(&enrichEncoding, "encoding", "", "raw file encoding: utf-8 (default) or cp1251")
	rootCmd.AddCommand(enrichCmd)
}
