// Package cmd defines the command-line interface for hubtrend.
package cmd

import (
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(targetedCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeRunsCmd)

	// Add the predictions subcommands to the parent predictions command
	predictionsCmd.AddCommand(predictionsImportCmd)
	predictionsCmd.AddCommand(predictionsListCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-url", hubclient.DefaultBaseURL, "Base URL of the model hub")
	rootCmd.PersistentFlags().String("timeout", hubclient.DefaultTimeout.String(), "Per-request timeout (e.g. 30s, 2m)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of top models to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string (sqlite file path, or DSN for mysql/postgresql)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// fetchCmd and targetedCmd share flag names, so their flags are bound
	// to Viper in sharedSetupWrapper for the command that actually runs.
	fetchCmd.Flags().Bool("skip-missing-id", false, "Drop records without a model identifier instead of merging them")
	fetchCmd.Flags().Bool("snapshot", true, "Write a daily snapshot for every ingested model")

	targetedCmd.Flags().Int("targeted-limit", contract.DefaultTargetedLimit, "Maximum number of models to request")
	targetedCmd.Flags().Bool("skip-missing-id", false, "Drop records without a model identifier instead of merging them")
	targetedCmd.Flags().Bool("snapshot", true, "Write a daily snapshot for every ingested model")
}
