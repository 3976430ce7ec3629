package schema

import "time"

// PhaseResult represents the outcome of one fetch phase of an ETL run.
type PhaseResult struct {
	Name     string        `json:"name"`
	Metric   string        `json:"metric"`
	Limit    int           `json:"limit"`
	Status   PhaseStatus   `json:"status"`
	Fetched  int           `json:"fetched"`       // Records returned by this phase
	Unique   int           `json:"unique"`        // Running unique count after merging this phase
	Duration time.Duration `json:"duration"`
	Err      string        `json:"err,omitempty"` // Classified failure, empty on success
}

// ETLResult is the merged, deduplicated outcome of all fetch phases.
type ETLResult struct {
	Models         []RawRecord   `json:"models"` // In first-seen order
	Phases         []PhaseResult `json:"phases"`
	UniqueCount    int           `json:"unique_count"`
	SkippedMissing int           `json:"skipped_missing"` // Records dropped for lacking an identifier
}

// IngestSummary represents what an ingest pass did with an ETL result.
type IngestSummary struct {
	Run    PipelineRun   `json:"run"`
	Phases []PhaseResult `json:"phases"`
	Top    []ModelRecord `json:"top"` // Highest-download models of this run
}

// StoreStatus represents the status of the hub data store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        string           `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	TotalModels      int              `json:"total_models"`
	TotalSnapshots   int              `json:"total_snapshots"`
	TotalPredictions int              `json:"total_predictions"`
	TableSizes       map[string]int64 `json:"table_sizes"` // Row counts per table
	SizeBytes        int64            `json:"size_bytes"`
}
