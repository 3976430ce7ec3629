package store

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/schema"
)

// HubStoreImpl handles durable storage of hub data using various database backends.
// A single instance serves both the RunStore and ModelStore interfaces.
type HubStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var (
	_ contract.RunStore   = &HubStoreImpl{} // Compile-time check
	_ contract.ModelStore = &HubStoreImpl{} // Compile-time check
)

// NewHubStore creates a new store with the specified backend and bootstraps its tables.
// NoneBackend yields a store that discards writes and reads nothing.
func NewHubStore(backend schema.DatabaseBackend, connStr string) (*HubStoreImpl, error) {
	if backend == schema.NoneBackend {
		return &HubStoreImpl{backend: backend}, nil
	}

	db, driverName, effectiveConn, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create hub tables: %w", err)
	}

	return &HubStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    effectiveConn,
	}, nil
}

// disabled reports whether the store is a no-op.
func (hs *HubStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// table returns the quoted name of a hub table.
func (hs *HubStoreImpl) table(name string) string {
	return quoteTableName(name, hs.backend)
}

// query formats a statement with quoted table names and backend placeholders.
func (hs *HubStoreImpl) query(format string, tables ...string) string {
	args := make([]any, len(tables))
	for i, t := range tables {
		args[i] = hs.table(t)
	}
	return rebind(fmt.Sprintf(format, args...), hs.backend)
}

// BeginRun inserts a run that has started but not finished.
func (hs *HubStoreImpl) BeginRun(run schema.PipelineRun) error {
	if hs.disabled() {
		return nil
	}
	if err := run.Validate(); err != nil {
		return err
	}

	query := hs.query(`INSERT INTO %s (run_id, created_at, start_time, end_time, fetched_count,
		inserted_count, updated_count, error_count, log_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, runsTable)
	_, err := hs.db.Exec(query,
		run.RunID, formatTime(run.CreatedAt, hs.backend), formatTime(run.StartTime, hs.backend),
		formatNullTime(run.EndTime, hs.backend), run.FetchedCount, run.InsertedCount,
		run.UpdatedCount, run.ErrorCount, run.LogMessage)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

// EndRun writes the final counters, end time and message of a run.
// A run that already ended is not overwritten.
func (hs *HubStoreImpl) EndRun(run schema.PipelineRun) error {
	if hs.disabled() {
		return nil
	}
	if err := run.Validate(); err != nil {
		return err
	}

	query := hs.query(`UPDATE %s SET end_time = ?, fetched_count = ?, inserted_count = ?,
		updated_count = ?, error_count = ?, log_message = ? WHERE run_id = ? AND end_time IS NULL`, runsTable)
	result, err := hs.db.Exec(query,
		formatNullTime(run.EndTime, hs.backend), run.FetchedCount, run.InsertedCount,
		run.UpdatedCount, run.ErrorCount, run.LogMessage, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", run.RunID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", run.RunID, sql.ErrNoRows)
	}
	return nil
}

const runColumns = `run_id, created_at, start_time, end_time, fetched_count,
	inserted_count, updated_count, error_count, log_message`

func scanRun(row interface{ Scan(...any) error }) (schema.PipelineRun, error) {
	var run schema.PipelineRun
	var created, start, end nullTime
	var msg sql.NullString
	if err := row.Scan(&run.RunID, &created, &start, &end, &run.FetchedCount,
		&run.InsertedCount, &run.UpdatedCount, &run.ErrorCount, &msg); err != nil {
		return run, err
	}
	run.CreatedAt = created.Time
	run.StartTime = start.Time
	run.EndTime = end.Ptr()
	if msg.Valid {
		run.LogMessage = &msg.String
	}
	return run, nil
}

// GetRun returns a single run by its identifier.
func (hs *HubStoreImpl) GetRun(runID string) (schema.PipelineRun, error) {
	if hs.disabled() {
		return schema.PipelineRun{}, sql.ErrNoRows
	}
	query := hs.query(`SELECT `+runColumns+` FROM %s WHERE run_id = ?`, runsTable)
	run, err := scanRun(hs.db.QueryRow(query, runID))
	if err != nil {
		return run, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (hs *HubStoreImpl) ListRuns() ([]schema.PipelineRun, error) {
	if hs.disabled() {
		return nil, nil
	}
	rows, err := hs.db.Query(hs.query(`SELECT `+runColumns+` FROM %s ORDER BY start_time DESC, run_id`, runsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the hub store.
func (hs *HubStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	for _, table := range allTables {
		var count int64
		if err := hs.db.QueryRow(hs.query("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalModels = int(status.TableSizes[modelsTable])
	status.TotalSnapshots = int(status.TableSizes[snapshotsTable])
	status.TotalPredictions = int(status.TableSizes[predictionsTable])

	if status.TotalRuns > 0 {
		var lastStart nullTime
		row := hs.db.QueryRow(hs.query("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastStart.Time
	}

	status.SizeBytes = hs.estimateSize(status)
	return status, nil
}

// estimateSize returns the on-disk size of the hub data, falling back to a
// rough per-row estimate when the backend cannot tell.
func (hs *HubStoreImpl) estimateSize(status schema.StoreStatus) int64 {
	var rows int64
	for _, n := range status.TableSizes {
		rows += n
	}
	fallback := rows * 200

	var size sql.NullInt64
	var err error
	switch hs.backend {
	case schema.SQLiteBackend:
		err = hs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size)
	case schema.MySQLBackend:
		dbName := hs.databaseName()
		if dbName == "" {
			return fallback
		}
		err = hs.db.QueryRow("SELECT SUM(data_length + index_length) FROM information_schema.tables WHERE table_schema = ?", dbName).Scan(&size)
	case schema.PostgreSQLBackend:
		err = hs.db.QueryRow("SELECT pg_database_size(current_database())").Scan(&size)
	}
	if err != nil || !size.Valid {
		return fallback
	}
	return size.Int64
}

// databaseName returns the database of a MySQL connection, used for size lookups.
func (hs *HubStoreImpl) databaseName() string {
	if hs.backend != schema.MySQLBackend {
		return ""
	}
	cfg, err := mysql.ParseDSN(hs.connStr)
	if err != nil {
		return ""
	}
	return cfg.DBName
}

// Close closes the underlying DB connection.
func (hs *HubStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
