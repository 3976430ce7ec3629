// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/schema"
)

// HubFetcher defines the two request shapes against the model listing endpoint.
// This allows the ETL orchestration to be tested without a live hub.
type HubFetcher interface {
	// GlobalTop fetches the top models by a metric in descending order.
	GlobalTop(ctx context.Context, limit int, metric schema.SortMetric) hubclient.Result

	// Targeted fetches models matching a task and library pair.
	Targeted(ctx context.Context, task, library string, limit int) hubclient.Result
}

// StoreManager defines the interface for managing the hub data stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
	GetModelStore() ModelStore
}

// RunStore defines the interface for the pipeline run audit log.
type RunStore interface {
	// BeginRun inserts a run that has started but not finished
	BeginRun(run schema.PipelineRun) error

	// EndRun writes the final counters, end time and message of a run
	EndRun(run schema.PipelineRun) error

	// GetRun returns a single run by its identifier
	GetRun(runID string) (schema.PipelineRun, error)

	// ListRuns returns all runs, newest first
	ListRuns() ([]schema.PipelineRun, error)

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// ModelStore defines the interface for model, tag, snapshot and prediction storage.
type ModelStore interface {
	// UpsertModel writes the current state of a model and replaces its tags.
	// It reports whether the model was newly inserted.
	UpsertModel(model schema.ModelRecord, tags []schema.ModelTag) (bool, error)

	// GetModel returns a single model by its identifier
	GetModel(modelID string) (schema.ModelRecord, error)

	// ListModels returns all models ordered by identifier
	ListModels() ([]schema.ModelRecord, error)

	// ListTags returns the tags of a model
	ListTags(modelID string) ([]schema.ModelTag, error)

	// SaveSnapshot writes the snapshot of a model for its day, replacing an earlier one
	SaveSnapshot(snapshot schema.ModelSnapshot) error

	// ListSnapshots returns all snapshots ordered by model and date
	ListSnapshots() ([]schema.ModelSnapshot, error)

	// RecordPrediction stores one scored prediction
	RecordPrediction(prediction schema.TrendPrediction) error

	// ListPredictions returns all predictions ordered by date and model
	ListPredictions() ([]schema.TrendPrediction, error)

	// Close closes the underlying connection
	Close() error
}
