// Package parquet provides data structures and functions for exporting hub
// data to Parquet files and reading prediction files back, using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/hubtrend/schema"
	"github.com/parquet-go/parquet-go"
)

// Model represents the current state of one hub model.
// This struct maps to the models database table.
type Model struct {
	// ModelID is the hub identifier, usually org/name
	ModelID string `parquet:"model_id,snappy"`

	// PipelineTag is the task of the model (nullable)
	PipelineTag *string `parquet:"pipeline_tag,optional,snappy"`

	// LibraryName is the framework of the model (nullable)
	LibraryName *string `parquet:"library_name,optional,snappy"`

	// Author is the owning user or organization (nullable)
	Author *string `parquet:"author,optional,snappy"`

	Downloads int64 `parquet:"downloads,snappy"`
	Likes     int64 `parquet:"likes,snappy"`
	Private   bool  `parquet:"private,snappy"`
	IsActive  bool  `parquet:"is_active,snappy"`

	// LastModified is the last modification time reported by the hub (nullable)
	LastModified *time.Time `parquet:"last_modified,optional,snappy"`

	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// Snapshot represents the daily state of one model.
// This struct maps to the model_snapshots database table.
type Snapshot struct {
	ModelID      string    `parquet:"model_id,snappy"`
	SnapshotDate time.Time `parquet:"snapshot_date,snappy"`
	PipelineTag  *string   `parquet:"pipeline_tag,optional,snappy"`
	Downloads    int64     `parquet:"downloads,snappy"`
	Likes        int64     `parquet:"likes,snappy"`
	IsActive     bool      `parquet:"is_active,snappy"`
}

// Run represents one pipeline run audit entry.
// This struct maps to the pipeline_log database table.
type Run struct {
	RunID     string    `parquet:"run_id,snappy"`
	CreatedAt time.Time `parquet:"created_at,snappy"`
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil while the run is still in progress
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	FetchedCount  int32   `parquet:"fetched_count,snappy"`
	InsertedCount int32   `parquet:"inserted_count,snappy"`
	UpdatedCount  int32   `parquet:"updated_count,snappy"`
	ErrorCount    int32   `parquet:"error_count,snappy"`
	LogMessage    *string `parquet:"log_message,optional,snappy"`
}

// Feature is one training row of the downstream trend model: a model's
// state on a day next to its change since the previous day.
type Feature struct {
	ModelID            string    `parquet:"model_id,snappy"`
	SnapshotDate       time.Time `parquet:"snapshot_date,snappy"`
	PipelineTag        *string   `parquet:"pipeline_tag,optional,snappy"`
	Downloads          int64     `parquet:"downloads,snappy"`
	Likes              int64     `parquet:"likes,snappy"`
	DownloadsYesterday int64     `parquet:"downloads_yesterday,snappy"`
	GrowthYesterday    float64   `parquet:"growth_yesterday,snappy"`
}

// Prediction is one scored model produced by the downstream trend model.
// This struct maps to the daily_trends database table.
type Prediction struct {
	ModelID            string    `parquet:"model_id"`
	Probability        float64   `parquet:"probability"`
	PredictionDate     time.Time `parquet:"prediction_date"`
	GrowthYesterday    float64   `parquet:"growth_yesterday,optional"`
	DownloadsYesterday int64     `parquet:"downloads_yesterday,optional"`
}

// writeRows writes a slice of rows to a Parquet file whose schema is
// inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteModelsParquet writes models to a Parquet file.
func WriteModelsParquet(data []Model, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSnapshotsParquet writes snapshots to a Parquet file.
func WriteSnapshotsParquet(data []Snapshot, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunsParquet writes pipeline runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteFeaturesParquet writes feature rows to a Parquet file.
func WriteFeaturesParquet(data []Feature, outputPath string) error {
	return writeRows(data, outputPath)
}

// WritePredictionsParquet writes predictions to a Parquet file.
func WritePredictionsParquet(data []Prediction, outputPath string) error {
	return writeRows(data, outputPath)
}

// ReadPredictionsParquet reads all predictions of a Parquet file.
func ReadPredictionsParquet(path string) ([]Prediction, error) {
	rows, err := parquet.ReadFile[Prediction](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictions from %s: %w", path, err)
	}
	return rows, nil
}

// ConvertModelRecords converts schema.ModelRecord to Model for Parquet export.
func ConvertModelRecords(records []schema.ModelRecord) []Model {
	result := make([]Model, len(records))
	for i, record := range records {
		result[i] = Model{
			ModelID:      record.ModelID,
			PipelineTag:  record.PipelineTag,
			LibraryName:  record.LibraryName,
			Author:       record.Author,
			Downloads:    record.Downloads,
			Likes:        record.Likes,
			Private:      record.Private,
			IsActive:     record.IsActive,
			LastModified: record.LastModified,
			CreatedAt:    record.CreatedAt,
		}
	}
	return result
}

// ConvertSnapshotRecords converts schema.ModelSnapshot to Snapshot for Parquet export.
func ConvertSnapshotRecords(records []schema.ModelSnapshot) []Snapshot {
	result := make([]Snapshot, len(records))
	for i, record := range records {
		result[i] = Snapshot{
			ModelID:      record.ModelID,
			SnapshotDate: record.SnapshotDate,
			PipelineTag:  record.PipelineTag,
			Downloads:    record.Downloads,
			Likes:        record.Likes,
			IsActive:     record.IsActive,
		}
	}
	return result
}

// ConvertRunRecords converts schema.PipelineRun to Run for Parquet export.
func ConvertRunRecords(records []schema.PipelineRun) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		var durationMs *int64
		if record.EndTime != nil {
			ms := record.EndTime.Sub(record.StartTime).Milliseconds()
			durationMs = &ms
		}
		result[i] = Run{
			RunID:         record.RunID,
			CreatedAt:     record.CreatedAt,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: durationMs,
			FetchedCount:  int32(record.FetchedCount),
			InsertedCount: int32(record.InsertedCount),
			UpdatedCount:  int32(record.UpdatedCount),
			ErrorCount:    int32(record.ErrorCount),
			LogMessage:    record.LogMessage,
		}
	}
	return result
}

// ConvertFeatureRows converts schema.ModelFeatureRow to Feature for Parquet export.
func ConvertFeatureRows(records []schema.ModelFeatureRow) []Feature {
	result := make([]Feature, len(records))
	for i, record := range records {
		result[i] = Feature{
			ModelID:            record.ModelID,
			SnapshotDate:       record.SnapshotDate,
			PipelineTag:        record.PipelineTag,
			Downloads:          record.Downloads,
			Likes:              record.Likes,
			DownloadsYesterday: record.DownloadsYesterday,
			GrowthYesterday:    record.GrowthYesterday,
		}
	}
	return result
}

// ToTrendPrediction converts an imported row into a prediction record created at now.
func (p Prediction) ToTrendPrediction(now time.Time) schema.TrendPrediction {
	return schema.TrendPrediction{
		ModelID:            p.ModelID,
		Probability:        p.Probability,
		PredictionDate:     schema.TruncateDay(p.PredictionDate),
		GrowthYesterday:    p.GrowthYesterday,
		DownloadsYesterday: p.DownloadsYesterday,
		CreatedAt:          now.UTC(),
	}
}
