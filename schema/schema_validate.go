package schema

import (
	"fmt"
	"time"
)

// Validate checks the invariants of a model record.
func (m ModelRecord) Validate() error {
	if m.ModelID == "" {
		return ErrMissingID
	}
	if m.Downloads < 0 || m.Likes < 0 {
		return fmt.Errorf("%w: negative counts for %s", ErrOutOfRange, m.ModelID)
	}
	return nil
}

// Validate checks the invariants of a model tag.
func (t ModelTag) Validate() error {
	if t.ModelID == "" {
		return ErrMissingID
	}
	if t.Tag == "" {
		return fmt.Errorf("%w: empty tag for %s", ErrInvalidField, t.ModelID)
	}
	return nil
}

// Validate checks the invariants of a snapshot.
func (s ModelSnapshot) Validate() error {
	if s.ModelID == "" {
		return ErrMissingID
	}
	if s.SnapshotDate.IsZero() {
		return fmt.Errorf("%w: snapshot_date unset for %s", ErrInvalidField, s.ModelID)
	}
	if s.Downloads < 0 || s.Likes < 0 {
		return fmt.Errorf("%w: negative counts for %s", ErrOutOfRange, s.ModelID)
	}
	return nil
}

// Validate checks the invariants of a prediction. The probability must lie in [0, 1].
func (p TrendPrediction) Validate() error {
	if p.ModelID == "" {
		return ErrMissingID
	}
	if p.Probability < 0 || p.Probability > 1 || p.Probability != p.Probability {
		return fmt.Errorf("%w: probability %v for %s", ErrOutOfRange, p.Probability, p.ModelID)
	}
	if p.PredictionDate.IsZero() {
		return fmt.Errorf("%w: prediction_date unset for %s", ErrInvalidField, p.ModelID)
	}
	return nil
}

// Validate checks the invariants of a run audit record.
func (r PipelineRun) Validate() error {
	if r.RunID == "" {
		return fmt.Errorf("%w: empty run_id", ErrInvalidField)
	}
	if r.FetchedCount < 0 || r.InsertedCount < 0 || r.UpdatedCount < 0 || r.ErrorCount < 0 {
		return fmt.Errorf("%w: negative counter in run %s", ErrOutOfRange, r.RunID)
	}
	if r.EndTime != nil && r.EndTime.Before(r.StartTime) {
		return fmt.Errorf("%w: run %s ends before it starts", ErrOutOfRange, r.RunID)
	}
	return nil
}

// NewPipelineRun starts an audit record at the given time.
func NewPipelineRun(runID string, start time.Time) PipelineRun {
	start = start.UTC()
	return PipelineRun{
		RunID:     runID,
		CreatedAt: start,
		StartTime: start,
	}
}

// Finish closes the run. An empty message falls back to DefaultLogMessage.
// A finished run is left untouched.
func (r *PipelineRun) Finish(end time.Time, msg string) {
	if !r.Running() {
		return
	}
	end = end.UTC()
	r.EndTime = &end
	if msg == "" {
		msg = DefaultLogMessage
	}
	r.LogMessage = &msg
}

// Running reports whether the run has not finished yet.
func (r PipelineRun) Running() bool {
	return r.EndTime == nil
}
