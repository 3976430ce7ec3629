// Package schema has the records, raw payloads and constants for all parts of hubtrend.
package schema

import "time"

// ModelRecord represents the current hub state of a single model.
// It maps to the models table and is overwritten on every fetch cycle.
type ModelRecord struct {
	ModelID      string     `json:"model_id" db:"model_id"`           // Unique hub identifier, e.g. "org/name"
	PipelineTag  *string    `json:"pipeline_tag" db:"pipeline_tag"`   // Task category, e.g. "text-generation"
	LibraryName  *string    `json:"library_name" db:"library_name"`   // Framework, e.g. "transformers"
	Author       *string    `json:"author" db:"author"`               // Organization or user account
	Downloads    int64      `json:"downloads" db:"downloads"`         // Rolling 30-day downloads
	Likes        int64      `json:"likes" db:"likes"`                 // All-time likes
	Private      bool       `json:"private" db:"private"`             // Private repository flag
	IsActive     bool       `json:"is_active" db:"is_active"`         // False when the hub reports the model disabled
	LastModified *time.Time `json:"last_modified" db:"last_modified"` // Last hub-side modification
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// ModelTag is one normalized tag of a model (many per model).
type ModelTag struct {
	ID      int64  `json:"id" db:"id"`
	ModelID string `json:"model_id" db:"model_id"`
	Tag     string `json:"tag" db:"tag"` // e.g. "autotrain_compatible", "license:mit"
}

// ModelSnapshot is a daily point-in-time copy of a model's metrics.
// Consecutive snapshots are used to compute velocity.
type ModelSnapshot struct {
	ID           int64     `json:"id" db:"id"`
	ModelID      string    `json:"model_id" db:"model_id"`
	SnapshotDate time.Time `json:"snapshot_date" db:"snapshot_date"` // UTC date, one row per model per day
	PipelineTag  *string   `json:"pipeline_tag" db:"pipeline_tag"`   // Denormalized from the model
	Downloads    int64     `json:"downloads" db:"downloads"`
	Likes        int64     `json:"likes" db:"likes"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// TrendPrediction is one scored output of the trend model for one model.
type TrendPrediction struct {
	ID                 int64     `json:"id" db:"id"`
	ModelID            string    `json:"model_id" db:"model_id"`
	Probability        float64   `json:"probability" db:"probability"` // Within [0, 1]
	PredictionDate     time.Time `json:"prediction_date" db:"prediction_date"`
	GrowthYesterday    float64   `json:"growth_yesterday" db:"growth_yesterday"`       // Growth percent, may be negative
	DownloadsYesterday int64     `json:"downloads_yesterday" db:"downloads_yesterday"` // Absolute delta, may be negative
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// PipelineRun is the audit record of one ETL execution.
type PipelineRun struct {
	RunID         string     `json:"run_id" db:"run_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	StartTime     time.Time  `json:"start_time" db:"start_time"`
	EndTime       *time.Time `json:"end_time" db:"end_time"` // Nil while running
	FetchedCount  int        `json:"fetched_count" db:"fetched_count"`
	InsertedCount int        `json:"inserted_count" db:"inserted_count"`
	UpdatedCount  int        `json:"updated_count" db:"updated_count"`
	ErrorCount    int        `json:"error_count" db:"error_count"`
	LogMessage    *string    `json:"log_message" db:"log_message"`
}

// ModelFeatureRow holds the momentum features of one model on one day.
type ModelFeatureRow struct {
	ModelID            string    `json:"model_id"`
	SnapshotDate       time.Time `json:"snapshot_date"`
	PipelineTag        *string   `json:"pipeline_tag"`
	Downloads          int64     `json:"downloads"`
	Likes              int64     `json:"likes"`
	DownloadsYesterday int64     `json:"downloads_yesterday"`
	GrowthYesterday    float64   `json:"growth_yesterday"`
}
