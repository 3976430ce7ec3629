package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/huangsam/hubtrend/schema"
)

const modelColumns = `model_id, pipeline_tag, library_name, author, downloads, likes,
	private, is_active, last_modified, created_at`

// getUpsertModelQuery returns the model UPSERT query for the backend.
// created_at keeps the value of the first insert.
func (hs *HubStoreImpl) getUpsertModelQuery() string {
	switch hs.backend {
	case schema.MySQLBackend:
		return hs.query(`INSERT INTO %s (`+modelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE pipeline_tag = new.pipeline_tag, library_name = new.library_name,
			author = new.author, downloads = new.downloads, likes = new.likes, private = new.private,
			is_active = new.is_active, last_modified = new.last_modified`, modelsTable)
	default: // SQLite and PostgreSQL
		return hs.query(`INSERT INTO %s (`+modelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (model_id) DO UPDATE SET pipeline_tag = excluded.pipeline_tag,
			library_name = excluded.library_name, author = excluded.author, downloads = excluded.downloads,
			likes = excluded.likes, private = excluded.private, is_active = excluded.is_active,
			last_modified = excluded.last_modified`, modelsTable)
	}
}

// UpsertModel writes the current state of a model and replaces its tags in one
// transaction. It reports whether the model did not exist before.
// The no-op backend reports every model as new.
func (hs *HubStoreImpl) UpsertModel(model schema.ModelRecord, tags []schema.ModelTag) (bool, error) {
	if err := model.Validate(); err != nil {
		return false, err
	}
	for _, tag := range tags {
		if err := tag.Validate(); err != nil {
			return false, err
		}
	}
	if hs.disabled() {
		return true, nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRow(hs.query("SELECT COUNT(*) FROM %s WHERE model_id = ?", modelsTable), model.ModelID).Scan(&existing); err != nil {
		return false, fmt.Errorf("failed to check model %s: %w", model.ModelID, err)
	}

	_, err = tx.Exec(hs.getUpsertModelQuery(),
		model.ModelID, model.PipelineTag, model.LibraryName, model.Author, model.Downloads, model.Likes,
		model.Private, model.IsActive, formatNullTime(model.LastModified, hs.backend), formatTime(model.CreatedAt, hs.backend))
	if err != nil {
		return false, fmt.Errorf("failed to upsert model %s: %w", model.ModelID, err)
	}

	if _, err := tx.Exec(hs.query("DELETE FROM %s WHERE model_id = ?", modelTagsTable), model.ModelID); err != nil {
		return false, fmt.Errorf("failed to clear tags of %s: %w", model.ModelID, err)
	}
	insertTag := hs.query("INSERT INTO %s (model_id, tag) VALUES (?, ?)", modelTagsTable)
	for _, tag := range tags {
		if _, err := tx.Exec(insertTag, model.ModelID, tag.Tag); err != nil {
			return false, fmt.Errorf("failed to insert tag %q of %s: %w", tag.Tag, model.ModelID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit model %s: %w", model.ModelID, err)
	}
	return existing == 0, nil
}

func scanModel(row interface{ Scan(...any) error }) (schema.ModelRecord, error) {
	var m schema.ModelRecord
	var pipelineTag, libraryName, author sql.NullString
	var lastModified, createdAt nullTime
	if err := row.Scan(&m.ModelID, &pipelineTag, &libraryName, &author, &m.Downloads, &m.Likes,
		&m.Private, &m.IsActive, &lastModified, &createdAt); err != nil {
		return m, err
	}
	m.PipelineTag = nullString(pipelineTag)
	m.LibraryName = nullString(libraryName)
	m.Author = nullString(author)
	m.LastModified = lastModified.Ptr()
	m.CreatedAt = createdAt.Time
	return m, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// GetModel returns a single model by its identifier.
func (hs *HubStoreImpl) GetModel(modelID string) (schema.ModelRecord, error) {
	if hs.disabled() {
		return schema.ModelRecord{}, sql.ErrNoRows
	}
	m, err := scanModel(hs.db.QueryRow(hs.query(`SELECT `+modelColumns+` FROM %s WHERE model_id = ?`, modelsTable), modelID))
	if err != nil {
		return m, fmt.Errorf("failed to get model %s: %w", modelID, err)
	}
	return m, nil
}

// ListModels returns all models ordered by identifier.
func (hs *HubStoreImpl) ListModels() ([]schema.ModelRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	rows, err := hs.db.Query(hs.query(`SELECT `+modelColumns+` FROM %s ORDER BY model_id`, modelsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ModelRecord
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating models: %w", err)
	}
	return results, nil
}

// ListTags returns the tags of a model in insertion order.
func (hs *HubStoreImpl) ListTags(modelID string) ([]schema.ModelTag, error) {
	if hs.disabled() {
		return nil, nil
	}
	rows, err := hs.db.Query(hs.query("SELECT id, model_id, tag FROM %s WHERE model_id = ? ORDER BY id", modelTagsTable), modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags of %s: %w", modelID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ModelTag
	for rows.Next() {
		var tag schema.ModelTag
		if err := rows.Scan(&tag.ID, &tag.ModelID, &tag.Tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		results = append(results, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return results, nil
}

// getUpsertSnapshotQuery returns the snapshot UPSERT query for the backend.
func (hs *HubStoreImpl) getUpsertSnapshotQuery() string {
	const columns = "model_id, snapshot_date, pipeline_tag, downloads, likes, is_active"
	switch hs.backend {
	case schema.MySQLBackend:
		return hs.query(`INSERT INTO %s (`+columns+`) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE pipeline_tag = new.pipeline_tag, downloads = new.downloads,
			likes = new.likes, is_active = new.is_active`, snapshotsTable)
	default: // SQLite and PostgreSQL
		return hs.query(`INSERT INTO %s (`+columns+`) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (model_id, snapshot_date) DO UPDATE SET pipeline_tag = excluded.pipeline_tag,
			downloads = excluded.downloads, likes = excluded.likes, is_active = excluded.is_active`, snapshotsTable)
	}
}

// SaveSnapshot writes the snapshot of a model for its day. A second snapshot
// for the same model and day replaces the first.
func (hs *HubStoreImpl) SaveSnapshot(snapshot schema.ModelSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	if hs.disabled() {
		return nil
	}
	_, err := hs.db.Exec(hs.getUpsertSnapshotQuery(),
		snapshot.ModelID, formatDate(snapshot.SnapshotDate, hs.backend), snapshot.PipelineTag,
		snapshot.Downloads, snapshot.Likes, snapshot.IsActive)
	if err != nil {
		return fmt.Errorf("failed to save snapshot of %s: %w", snapshot.ModelID, err)
	}
	return nil
}

// ListSnapshots returns all snapshots ordered by model and date.
func (hs *HubStoreImpl) ListSnapshots() ([]schema.ModelSnapshot, error) {
	if hs.disabled() {
		return nil, nil
	}
	rows, err := hs.db.Query(hs.query(`SELECT id, model_id, snapshot_date, pipeline_tag, downloads, likes, is_active
		FROM %s ORDER BY model_id, snapshot_date`, snapshotsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ModelSnapshot
	for rows.Next() {
		var s schema.ModelSnapshot
		var day nullTime
		var pipelineTag sql.NullString
		if err := rows.Scan(&s.ID, &s.ModelID, &day, &pipelineTag, &s.Downloads, &s.Likes, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.SnapshotDate = schema.TruncateDay(day.Time)
		s.PipelineTag = nullString(pipelineTag)
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return results, nil
}

// RecordPrediction stores one scored prediction. Probabilities outside [0, 1] are rejected.
func (hs *HubStoreImpl) RecordPrediction(p schema.TrendPrediction) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if hs.disabled() {
		return nil
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = p.PredictionDate
	}
	_, err := hs.db.Exec(hs.query(`INSERT INTO %s (model_id, probability, prediction_date,
		growth_yesterday, downloads_yesterday, created_at) VALUES (?, ?, ?, ?, ?, ?)`, predictionsTable),
		p.ModelID, p.Probability, formatDate(p.PredictionDate, hs.backend),
		p.GrowthYesterday, p.DownloadsYesterday, formatTime(createdAt, hs.backend))
	if err != nil {
		return fmt.Errorf("failed to record prediction for %s: %w", p.ModelID, err)
	}
	return nil
}

// ListPredictions returns all predictions ordered by date and model.
func (hs *HubStoreImpl) ListPredictions() ([]schema.TrendPrediction, error) {
	if hs.disabled() {
		return nil, nil
	}
	rows, err := hs.db.Query(hs.query(`SELECT id, model_id, probability, prediction_date,
		growth_yesterday, downloads_yesterday, created_at FROM %s ORDER BY prediction_date, model_id, id`, predictionsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TrendPrediction
	for rows.Next() {
		var p schema.TrendPrediction
		var day, created nullTime
		var growth sql.NullFloat64
		var delta sql.NullInt64
		if err := rows.Scan(&p.ID, &p.ModelID, &p.Probability, &day, &growth, &delta, &created); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.PredictionDate = schema.TruncateDay(day.Time)
		p.GrowthYesterday = growth.Float64
		p.DownloadsYesterday = delta.Int64
		p.CreatedAt = created.Time
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return results, nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
