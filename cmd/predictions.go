package cmd

import (
	"os"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/outwriter"
	"github.com/huangsam/hubtrend/internal/store"
	"github.com/spf13/cobra"
)

// predictionsCmd groups the trend prediction commands.
var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Record and list trend predictions",
	Long: `Trend predictions are scored outside of hubtrend from the exported
features file. The scores are brought back with the import subcommand.

Subcommands:
  import - Record the predictions of a Parquet file
  list   - List recorded predictions

Examples:
  hubtrend store export --output-file hub
  python score.py hub.features.parquet predictions.parquet
  hubtrend predictions import predictions.parquet`,
}

// predictionsImportCmd records the predictions of a Parquet file.
var predictionsImportCmd = &cobra.Command{
	Use:   "import <file.parquet>",
	Short: "Record the predictions of a Parquet file",
	Long: `Read a Parquet file with the columns model_id, probability,
prediction_date and optionally growth_yesterday and downloads_yesterday.

Rows whose probability falls outside [0, 1] or whose model identifier is
empty are rejected and reported, the remaining rows are still recorded.

Examples:
  hubtrend predictions import predictions.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if _, err := store.ImportPredictions(os.Stdout, args[0]); err != nil {
			contract.LogFatal("Failed to import predictions", err)
		}
	},
}

// predictionsListCmd lists recorded predictions.
var predictionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded predictions by date and model",
	Long: `List every recorded prediction ordered by prediction date and model.

Examples:
  hubtrend predictions list
  hubtrend predictions list --output json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		predictions, err := store.Manager.GetModelStore().ListPredictions()
		if err != nil {
			contract.LogFatal("Failed to list predictions", err)
		}
		if err := outwriter.NewOutWriter().WritePredictions(predictions, cfg); err != nil {
			contract.LogFatal("Failed to write predictions", err)
		}
	},
}
