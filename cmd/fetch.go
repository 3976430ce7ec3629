package cmd

import (
	"time"

	"github.com/huangsam/hubtrend/core"
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/outwriter"
	"github.com/huangsam/hubtrend/internal/store"
	"github.com/huangsam/hubtrend/schema"
	"github.com/spf13/cobra"
)

// fetchCmd runs the full global top-N pipeline.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the top models of the hub and record them",
	Long: `Fetch the top models of the hub by downloads, likes, 7-day likes and
creation date, merge them into one deduplicated set and record them.

Each phase is fetched in order. A failed phase is reported and skipped,
the remaining phases still run. Models seen in several phases keep their
first position and the values of their latest occurrence.

Every run writes an audit record with fetched, inserted, updated and
error counts. Unless --snapshot=false is given, one snapshot per model
and day is stored for trend prediction.

Examples:
  # Fetch and record with the default SQLite store
  hubtrend fetch

  # Fetch without persisting anything and print JSON
  hubtrend fetch --store-backend none --output json

  # Record into PostgreSQL
  hubtrend fetch --store-backend postgresql --store-db-connect "host=localhost dbname=hub"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client, err := newFetcher()
		if err != nil {
			contract.LogFatal("Failed to create hub client", err)
		}
		result := core.RunETL(rootCtx, client, core.DefaultPhases, core.ETLOptions{SkipMissingID: cfg.SkipMissingID})
		runIngest(result, time.Now())
	},
}

// targetedCmd fetches the models of one task and library pair.
var targetedCmd = &cobra.Command{
	Use:   "targeted <task> <library>",
	Short: "Fetch the models of one task and library pair and record them",
	Long: `Fetch the most downloaded models that match a pipeline task and a
library, then record them like the fetch command does.

Examples:
  # Text generation models built with transformers
  hubtrend targeted text-generation transformers

  # Only the first 50 sentence-similarity models of sentence-transformers
  hubtrend targeted sentence-similarity sentence-transformers --targeted-limit 50`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client, err := newFetcher()
		if err != nil {
			contract.LogFatal("Failed to create hub client", err)
		}
		result := core.RunTargeted(rootCtx, client, cfg.Task, cfg.Library, cfg.TargetedLimit, core.ETLOptions{SkipMissingID: cfg.SkipMissingID})
		runIngest(result, time.Now())
	},
}

// runIngest persists an ETL result and prints its summary.
func runIngest(result schema.ETLResult, start time.Time) {
	summary, err := core.Ingest(rootCtx, result, store.Manager.GetRunStore(), store.Manager.GetModelStore(), core.IngestOptions{
		Snapshot: cfg.Snapshot,
		TopN:     cfg.ResultLimit,
	})
	if err != nil {
		contract.LogFatal("Failed to ingest models", err)
	}
	if err := outwriter.NewOutWriter().WriteSummary(summary, cfg, time.Since(start)); err != nil {
		contract.LogFatal("Failed to write summary", err)
	}
}
