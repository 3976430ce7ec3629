package contract

import (
	"testing"
	"time"

	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, for tests to tweak.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        10,
		Output:       "text",
		StoreBackend: "sqlite",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "limit zero", mutate: func(in *ConfigRawInput) { in.Limit = 0 }, expectError: true},
		{name: "limit too high", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "yaml" }, expectError: true},
		{name: "parquet is export only", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "mysql missing dsn", mutate: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{name: "mysql with dsn", mutate: func(in *ConfigRawInput) {
			in.StoreBackend = "mysql"
			in.StoreDBConnect = "user:pass@tcp(localhost:3306)/hub"
		}},
		{name: "postgres bad dsn", mutate: func(in *ConfigRawInput) {
			in.StoreBackend = "postgresql"
			in.StoreDBConnect = "user=x"
		}, expectError: true},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "soon" }, expectError: true},
		{name: "negative timeout", mutate: func(in *ConfigRawInput) { in.Timeout = "-5s" }, expectError: true},
		{name: "relative base url", mutate: func(in *ConfigRawInput) { in.BaseURL = "/api/models" }, expectError: true},
		{name: "bad log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "trace" }, expectError: true},
		{name: "bad log format", mutate: func(in *ConfigRawInput) { in.LogFormat = "xml" }, expectError: true},
		{name: "targeted limit too high", mutate: func(in *ConfigRawInput) { in.TargetedLimit = MaxTargetedLimit + 1 }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.StoreBackend = ""
	input.TaskStr = " text-generation "
	input.LibraryStr = "transformers"

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, hubclient.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, hubclient.DefaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultTargetedLimit, cfg.TargetedLimit)
	assert.Equal(t, "text-generation", cfg.Task)
	assert.Equal(t, "transformers", cfg.Library)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.BaseURL = "http://localhost:8080/api/models"
	input.Token = " hf_abc "
	input.Timeout = "3s"
	input.Output = "JSON"
	input.LogLevel = "DEBUG"
	input.LogFormat = "json"
	input.SkipMissingID = true
	input.Snapshot = true
	input.TargetedLimit = 50

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "http://localhost:8080/api/models", cfg.BaseURL)
	assert.Equal(t, "hf_abc", cfg.Token)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.SkipMissingID)
	assert.True(t, cfg.Snapshot)
	assert.Equal(t, 50, cfg.TargetedLimit)

	client := cfg.ClientConfig()
	assert.Equal(t, cfg.BaseURL, client.BaseURL)
	assert.Equal(t, cfg.Token, client.Token)
	assert.Equal(t, cfg.Timeout, client.Timeout)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Task: "a", ResultLimit: 5}
	clone := cfg.Clone()
	clone.Task = "b"
	assert.Equal(t, "a", cfg.Task)
	assert.Equal(t, 5, clone.ResultLimit)
}
