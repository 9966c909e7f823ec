package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lead-sniper/enrich-cli/internal/consolidate"
	"github.com/lead-sniper/enrich-cli/internal/dataset"
)

var (
	consolidateInterim string
	consolidateFinal   string
	consolidateFormat  string
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate an interim enriched CSV into the final dataset",
	Long: `Resumes from an interim enriched CSV: deduplicates by INN, merges
segment tags, extracts contacts, applies the revenue floor, and writes the
final dataset. No registry calls are made.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		interimPath := pathOr(consolidateInterim, cfg.Paths.Interim)
		finalPath := pathOr(consolidateFinal, cfg.Paths.Final)

		records, err := dataset.ReadInterim(interimPath)
		if err != nil {
			return eris.Wrap(err, "consolidate: read interim")
		}
		zap.L().Info("loaded interim records", zap.Int("count", len(records)), zap.String("path", interimPath))

		merged := consolidate.Consolidate(records)
		kept := consolidate.Filter(merged, cfg.Pipeline.MinRevenue)

		return writeFinal(finalPath, consolidateFormat, kept)
	},
}

func init() {
	consolidateCmd.Flags().StringVar(&consolidateInterim, "interim", "", "path to the interim enriched CSV (default from config)")
	consolidateCmd.Flags().StringVar(&consolidateFinal, "final", "", "path for the final dataset (default from config)")
	consolidateCmd.Flags().StringVar(&consolidateFormat, "format", "csv", "final output format: csv or xlsx")
	rootCmd.AddCommand(consolidateCmd)
}
