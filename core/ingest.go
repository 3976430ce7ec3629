package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/logger"
	"github.com/huangsam/hubtrend/schema"
	"go.uber.org/zap"
)

// Audit messages written when a run ends.
const (
	noModelsMessage    = "no models fetched"
	withErrorsFormat   = "completed with %d errors"
	interruptedMessage = "interrupted: %v"
)

// IngestOptions tunes an ingest pass.
type IngestOptions struct {
	Snapshot bool             // Also write a daily snapshot per model
	TopN     int              // Number of top models kept in the summary
	Now      func() time.Time // Clock override for tests
}

func (o IngestOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// Ingest parses every merged record into typed rows and persists them, wrapped
// in a PipelineRun audit record. Nil stores mean a dry run: records are still
// parsed and summarized. Per-record failures only increment the error count.
func Ingest(ctx context.Context, result schema.ETLResult, runs contract.RunStore, models contract.ModelStore, opts IngestOptions) (schema.IngestSummary, error) {
	run := schema.NewPipelineRun(uuid.NewString(), opts.now())
	run.FetchedCount = result.UniqueCount

	if runs != nil {
		if err := runs.BeginRun(run); err != nil {
			return schema.IngestSummary{}, fmt.Errorf("failed to begin run %s: %w", run.RunID, err)
		}
	}

	log := logger.Get().With(zap.String("run_id", run.RunID))
	parsed := make([]schema.ModelRecord, 0, len(result.Models))
	var interrupted error

	for _, raw := range result.Models {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}

		model, tags, err := schema.ParseModelRecord(raw, run.StartTime)
		if err != nil {
			run.ErrorCount++
			log.Warn("Skipping unparsable record", zap.Error(err))
			continue
		}
		parsed = append(parsed, model)

		if models == nil {
			continue
		}
		inserted, err := models.UpsertModel(model, tags)
		if err != nil {
			run.ErrorCount++
			log.Warn("Failed to upsert model", zap.String("model_id", model.ModelID), zap.Error(err))
			continue
		}
		if inserted {
			run.InsertedCount++
		} else {
			run.UpdatedCount++
		}

		if opts.Snapshot {
			if err := models.SaveSnapshot(schema.NewSnapshot(model, run.StartTime)); err != nil {
				run.ErrorCount++
				log.Warn("Failed to save snapshot", zap.String("model_id", model.ModelID), zap.Error(err))
			}
		}
	}

	if interrupted == nil {
		// Cancellation during fetching leaves no records to loop over.
		interrupted = ctx.Err()
	}
	run.Finish(opts.now(), runMessage(result, run, interrupted))
	log.Info("Ingest complete",
		zap.Int("fetched", run.FetchedCount),
		zap.Int("inserted", run.InsertedCount),
		zap.Int("updated", run.UpdatedCount),
		zap.Int("errors", run.ErrorCount))

	if runs != nil {
		if err := runs.EndRun(run); err != nil {
			return schema.IngestSummary{}, fmt.Errorf("failed to end run %s: %w", run.RunID, err)
		}
	}

	return schema.IngestSummary{
		Run:    run,
		Phases: result.Phases,
		Top:    topModels(parsed, opts.TopN),
	}, nil
}

// runMessage picks the final audit message of a run.
func runMessage(result schema.ETLResult, run schema.PipelineRun, interrupted error) string {
	switch {
	case interrupted != nil:
		return fmt.Sprintf(interruptedMessage, interrupted)
	case result.UniqueCount == 0:
		return noModelsMessage
	case run.ErrorCount > 0:
		return fmt.Sprintf(withErrorsFormat, run.ErrorCount)
	default:
		return schema.DefaultLogMessage
	}
}

// topModels returns the n most downloaded models, ties broken by identifier.
func topModels(models []schema.ModelRecord, n int) []schema.ModelRecord {
	sorted := make([]schema.ModelRecord, len(models))
	copy(sorted, models)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Downloads != sorted[j].Downloads {
			return sorted[i].Downloads > sorted[j].Downloads
		}
		return sorted[i].ModelID < sorted[j].ModelID
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
