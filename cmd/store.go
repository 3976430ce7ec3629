package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/outwriter"
	"github.com/huangsam/hubtrend/internal/store"
	"github.com/huangsam/hubtrend/schema"
	"github.com/spf13/cobra"
)

// storeCmd focused on recorded hub data management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by the fetch commands. This avoids client
// validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage recorded models, snapshots and run audits",
	Long: `Manage the data recorded by the fetch commands.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show store statistics
  runs   - List the run audit log
  export - Export data to Parquet for analytics
  clear  - Remove all recorded data

Examples:
  # Check store status
  hubtrend store status

  # Export for analysis in pandas/DuckDB
  hubtrend store export --output-file hub`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, the number of runs, models, snapshots and
predictions recorded, the last run and the estimated database size.

Examples:
  hubtrend store status
  hubtrend store status --store-backend mysql --store-db-connect "user:pass@tcp(localhost:3306)/hub"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := store.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(os.Stdout, status)
	},
}

// storeRunsCmd lists the run audit log.
var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs, newest first",
	Long: `List the audit record of every pipeline run with its counters and
final message. Runs without an end time are still running or were killed.

Examples:
  hubtrend store runs
  hubtrend store runs --output csv --output-file runs.csv`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := store.Manager.GetRunStore().ListRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(runs, cfg); err != nil {
			contract.LogFatal("Failed to write runs", err)
		}
	},
}

// storeExportCmd exports recorded data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded data to Parquet for BI tools and analytics",
	Long: `Export all recorded data to Parquet files sharing one prefix:

  <prefix>.models.parquet    - current state of every model
  <prefix>.snapshots.parquet - daily snapshots
  <prefix>.runs.parquet      - run audit log
  <prefix>.features.parquet  - per-day growth features for prediction

Requires: --output-file parameter (used as the prefix)

Examples:
  hubtrend store export --output-file hub
  duckdb -c "SELECT * FROM read_parquet('hub.features.parquet') LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeClearCmd clears the recorded data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded hub data",
	Long: `Delete all recorded models, tags, snapshots, predictions and runs.

For SQLite the database file is removed. For MySQL and PostgreSQL the
tables are dropped and recreated on the next run.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  hubtrend store export --output-file backup
  hubtrend store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearStore(cfg.StoreBackend, sqliteFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store data cleared successfully.")
	},
}

// storeConfigWrapper loads the store configuration without opening the store,
// so clearing never races an open SQLite handle.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// sqliteFilePath returns the database file of the SQLite backend.
func sqliteFilePath() string {
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return contract.GetDBFilePath()
}
