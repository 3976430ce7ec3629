// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints an ingest summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.IngestSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteSummaryResults(summary, cfg, duration)
}

// WriteRuns prints the run audit log using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.PipelineRun, cfg *contract.Config) error {
	return WriteRunResults(runs, cfg)
}

// WritePredictions prints recorded predictions using the configured output format.
func (ow *OutWriter) WritePredictions(predictions []schema.TrendPrediction, cfg *contract.Config) error {
	return WritePredictionResults(predictions, cfg)
}
