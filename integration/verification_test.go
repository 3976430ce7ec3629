//go:build integration

// Package integration contains integration tests for hubtrend.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/hubtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points the binary at a fake hub and a fresh SQLite file.
func sqliteEnv(t *testing.T) []string {
	hub := newFakeHub(t)
	return []string{
		"HUBTREND_BASE_URL=" + hub.URL,
		"HUBTREND_STORE_BACKEND=sqlite",
		"HUBTREND_STORE_DB_CONNECT=" + filepath.Join(t.TempDir(), "hub.db"),
		"HUBTREND_COLOR=no",
	}
}

// TestFetchVerification checks the merged result of a full fetch against the fake hub listings.
func TestFetchVerification(t *testing.T) {
	env := sqliteEnv(t)
	summary := fetchJSON(t, env)

	require.Len(t, summary.Phases, 4)
	statuses := map[string]schema.PhaseStatus{}
	for _, p := range summary.Phases {
		statuses[p.Name] = p.Status
	}
	assert.Equal(t, schema.PhaseOK, statuses["top-downloads"])
	assert.Equal(t, schema.PhaseEmpty, statuses["trending-likes7d"])

	assert.Equal(t, 4, summary.Run.FetchedCount)
	assert.Equal(t, 4, summary.Run.InsertedCount)
	assert.Equal(t, 0, summary.Run.ErrorCount)
	require.NotNil(t, summary.Run.LogMessage)
	assert.Equal(t, schema.DefaultLogMessage, *summary.Run.LogMessage)

	// The later listing of org/b wins
	require.Len(t, summary.Top, 4)
	assert.Equal(t, "org/a", summary.Top[0].ModelID)
	assert.Equal(t, "org/b", summary.Top[1].ModelID)
	assert.Equal(t, int64(3100), summary.Top[1].Downloads)
	assert.Equal(t, int64(95), summary.Top[1].Likes)
}

// TestTargetedVerification checks that targeted runs only record the matching models.
func TestTargetedVerification(t *testing.T) {
	env := sqliteEnv(t)
	out, err := runHubtrend(t, env, "targeted", "text-generation", "transformers", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "org/a")
	assert.NotContains(t, out, "org/b")

	runs := runsJSON(t, env)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].InsertedCount)
}

// TestExportVerification checks that export writes every Parquet dataset.
func TestExportVerification(t *testing.T) {
	env := sqliteEnv(t)
	fetchJSON(t, env)

	prefix := filepath.Join(t.TempDir(), "hub")
	out, err := runHubtrend(t, env, "store", "export", "--output-file", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	for _, name := range []string{"models", "snapshots", "runs", "features"} {
		info, err := os.Stat(prefix + "." + name + ".parquet")
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}
