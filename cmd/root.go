package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/internal/logger"
	"github.com/huangsam/hubtrend/internal/store"
	"github.com/huangsam/hubtrend/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute cancels it on interrupt.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "hubtrend",
	Short:              "Collect Hugging Face model hub metadata and track trending models.",
	Long:               `Hubtrend pulls the top models of the Hugging Face hub by several metrics, merges them into one deduplicated set and records them with daily snapshots for trend prediction.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("HUBTREND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	bindToken(viper.GetViper(), ".env")

	// Set defaults in Viper
	viper.SetDefault("base-url", hubclient.DefaultBaseURL)
	viper.SetDefault("timeout", hubclient.DefaultTimeout.String())
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("targeted-limit", contract.DefaultTargetedLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
	viper.SetDefault("color", "yes")
	viper.SetDefault("snapshot", true)
}

// bindToken wires the hub token into v. HUBTREND_TOKEN wins over HF_TOKEN,
// and both win over an HF_TOKEN found in the dotenv files.
func bindToken(v *viper.Viper, dotenv ...string) {
	_ = v.BindEnv("token", "HUBTREND_TOKEN", "HF_TOKEN")
	if tok := dotEnvToken(dotenv...); tok != "" {
		v.SetDefault("token", tok)
	}
}

// dotEnvToken returns HF_TOKEN from the first readable dotenv file that sets it.
func dotEnvToken(paths ...string) string {
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		if tok := vars["HF_TOKEN"]; tok != "" {
			return tok
		}
	}
	return ""
}

// setConfigFile points viper at --config or the default .hubtrend.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".hubtrend") // Name of config file (without extension)
	viper.SetConfigType("yaml")      // We'll use YAML format
	viper.AddConfigPath(".")         // Look in the current directory
	viper.AddConfigPath("$HOME")     // Look in the home directory
}

// loadConfigFile reads the config file when present.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.TaskStr, input.LibraryStr = "", ""
	if len(args) >= 1 {
		input.TaskStr = args[0]
	}
	if len(args) >= 2 {
		input.LibraryStr = args[1]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if err := applyAmbient(); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := store.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return sharedSetup(rootCtx, cmd, args)
}

// storeSetup loads the minimal configuration needed for store operations.
// Store commands skip the client and output validation of sharedSetup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("store-backend")
	if backendStr == "" {
		backendStr = string(schema.SQLiteBackend)
	}
	backend := schema.DatabaseBackend(strings.ToLower(backendStr))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	cfg.LogLevel = viper.GetString("log-level")
	cfg.LogFormat = viper.GetString("log-format")
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		cfg.Output = schema.TextOut
	}
	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	return applyAmbient()
}

// storeSetupWrapper wraps storeSetup and opens the stores for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := storeSetup(); err != nil {
		return err
	}
	if err := store.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// applyAmbient configures logging and colors from the validated config.
func applyAmbient() error {
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	color.NoColor = !cfg.UseColors
	return nil
}

// newFetcher builds the hub client from the validated config.
func newFetcher() (*hubclient.Client, error) {
	clientCfg := cfg.ClientConfig()
	clientCfg.Logger = logger.Get()
	return hubclient.New(clientCfg)
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx
	return rootCmd.ExecuteContext(ctx)
}
