//go:build basic || database || integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/hubtrend/schema"
	"github.com/stretchr/testify/require"
)

var (
	// sharedHubtrendPath holds the path to a shared hubtrend binary built once for all tests.
	sharedHubtrendPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getHubtrendBinary returns the path to the hubtrend binary, building it once if needed.
func getHubtrendBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "hubtrend-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		hubtrendPath := filepath.Join(tempDir, "hubtrend")
		buildCmd := exec.Command("go", "build", "-o", hubtrendPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build hubtrend: %v", err))
		}

		sharedHubtrendPath = hubtrendPath
	})

	return sharedHubtrendPath
}

// hubModel builds one listing entry the way the hub returns it.
func hubModel(id string, downloads, likes int, task string) map[string]any {
	return map[string]any{
		"id":           id,
		"downloads":    downloads,
		"likes":        likes,
		"pipeline_tag": task,
		"library_name": "transformers",
		"tags":         []string{task, "transformers"},
		"createdAt":    "2024-01-01T00:00:00.000Z",
		"lastModified": "2024-05-01T12:00:00.000Z",
	}
}

// fakeHubListings maps each sort metric to its listing. Four unique models
// are served across the phases; "org/b" appears twice with newer values last.
var fakeHubListings = map[string][]map[string]any{
	"downloads": {
		hubModel("org/a", 5000, 10, "text-generation"),
		hubModel("org/b", 3000, 90, "fill-mask"),
	},
	"likes": {
		hubModel("org/b", 3100, 95, "fill-mask"),
		hubModel("org/c", 100, 60, "text-generation"),
	},
	"likes7d":   {},
	"createdAt": {hubModel("org/d", 1, 0, "image-classification")},
}

// newFakeHub serves the model listing endpoint from fakeHubListings.
// Targeted requests return the downloads listing filtered by pipeline tag.
func newFakeHub(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var listing []map[string]any
		if task := q.Get("pipeline_tag"); task != "" {
			for _, m := range fakeHubListings["downloads"] {
				if m["pipeline_tag"] == task {
					listing = append(listing, m)
				}
			}
		} else {
			listing = fakeHubListings[q.Get("sort")]
		}
		if listing == nil {
			listing = []map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listing)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// runHubtrend runs the binary with extra environment variables and returns its stdout.
func runHubtrend(t *testing.T, env []string, args ...string) (string, error) {
	cmd := exec.Command(getHubtrendBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// fetchJSON runs the full fetch with JSON output and decodes its summary.
func fetchJSON(t *testing.T, env []string) schema.IngestSummary {
	out, err := runHubtrend(t, env, "fetch", "--output", "json")
	require.NoError(t, err)
	var summary schema.IngestSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	return summary
}

// runsJSON lists the run audit log with JSON output.
func runsJSON(t *testing.T, env []string) []schema.PipelineRun {
	out, err := runHubtrend(t, env, "store", "runs", "--output", "json")
	require.NoError(t, err)
	var runs []schema.PipelineRun
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	return runs
}
