package store

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/huangsam/hubtrend/core"
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/logger"
	"github.com/huangsam/hubtrend/internal/parquet"
	"github.com/huangsam/hubtrend/schema"
	"go.uber.org/zap"
)

// ExecuteExport exports the hub data of the global stores to Parquet files.
func ExecuteExport(w io.Writer, prefix string) error {
	return exportStores(w, Manager.GetRunStore(), Manager.GetModelStore(), prefix)
}

// exportStores writes <prefix>.models, .snapshots, .runs and .features Parquet files.
func exportStores(w io.Writer, runs contract.RunStore, models contract.ModelStore, prefix string) error {
	if prefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if runs == nil || models == nil {
		return errors.New("no store is configured")
	}

	status, err := runs.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 && status.TotalModels == 0 {
		return errors.New("no hub data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total models: %d\n", status.TotalModels)

	modelRecords, err := models.ListModels()
	if err != nil {
		return fmt.Errorf("failed to retrieve models: %w", err)
	}
	snapshotRecords, err := models.ListSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}
	runRecords, err := runs.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	features := buildAllFeatures(snapshotRecords)
	if latest := core.LatestSnapshotDay(snapshotRecords); !latest.IsZero() {
		_, _ = fmt.Fprintf(w, "Latest snapshot day: %s\n", latest.Format(time.DateOnly))
	}

	files := []struct {
		name  string
		count int
		write func(path string) error
	}{
		{"models", len(modelRecords), func(path string) error {
			return parquet.WriteModelsParquet(parquet.ConvertModelRecords(modelRecords), path)
		}},
		{"snapshots", len(snapshotRecords), func(path string) error {
			return parquet.WriteSnapshotsParquet(parquet.ConvertSnapshotRecords(snapshotRecords), path)
		}},
		{"runs", len(runRecords), func(path string) error {
			return parquet.WriteRunsParquet(parquet.ConvertRunRecords(runRecords), path)
		}},
		{"features", len(features), func(path string) error {
			return parquet.WriteFeaturesParquet(parquet.ConvertFeatureRows(features), path)
		}},
	}

	for _, f := range files {
		path := fmt.Sprintf("%s.%s.parquet", prefix, f.name)
		if err := f.write(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		_, _ = fmt.Fprintf(w, "Exported %d %s to: %s\n", f.count, f.name, path)
	}

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")
	return nil
}

// buildAllFeatures builds feature rows for every snapshot day, oldest day first.
func buildAllFeatures(snapshots []schema.ModelSnapshot) []schema.ModelFeatureRow {
	seen := make(map[time.Time]struct{})
	var days []time.Time
	for _, s := range snapshots {
		day := schema.TruncateDay(s.SnapshotDate)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var rows []schema.ModelFeatureRow
	for _, day := range days {
		rows = append(rows, core.BuildFeatures(snapshots, day)...)
	}
	return rows
}

// ImportResult counts the outcome of a prediction import.
type ImportResult struct {
	Read     int
	Recorded int
	Rejected int
}

// ImportPredictions records the predictions of a Parquet file in the global model store.
func ImportPredictions(w io.Writer, path string) (ImportResult, error) {
	result, err := importPredictions(Manager.GetModelStore(), path, time.Now())
	if err != nil {
		return result, err
	}
	_, _ = fmt.Fprintf(w, "Read %d predictions from %s\n", result.Read, path)
	_, _ = fmt.Fprintf(w, "Recorded: %d, rejected: %d\n", result.Recorded, result.Rejected)
	return result, nil
}

// importPredictions validates and records each row. Invalid rows are
// logged and counted, they do not stop the import.
func importPredictions(models contract.ModelStore, path string, now time.Time) (ImportResult, error) {
	var result ImportResult
	if models == nil {
		return result, errors.New("no store is configured")
	}

	rows, err := parquet.ReadPredictionsParquet(path)
	if err != nil {
		return result, err
	}
	result.Read = len(rows)

	for i, row := range rows {
		prediction := row.ToTrendPrediction(now)
		if err := models.RecordPrediction(prediction); err != nil {
			result.Rejected++
			logger.Warn("Rejected prediction",
				zap.Int("row", i),
				zap.String("model_id", row.ModelID),
				zap.Error(err))
			continue
		}
		result.Recorded++
	}
	return result, nil
}
