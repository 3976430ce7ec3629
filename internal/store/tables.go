package store

import (
	"database/sql"
	"fmt"

	"github.com/huangsam/hubtrend/schema"
)

// Table names of the hub schema.
const (
	modelsTable      = "models"
	modelTagsTable   = "model_tags"
	snapshotsTable   = "model_snapshots"
	predictionsTable = "daily_trends"
	runsTable        = "pipeline_log"
)

// allTables lists the tables in creation order. Children follow their parent.
var allTables = []string{modelsTable, modelTagsTable, snapshotsTable, predictionsTable, runsTable}

// columnTypes holds the per-backend spelling of each column kind.
type columnTypes struct {
	autoID    string
	key       string
	text      string
	bigint    string
	integer   string
	double    string
	boolean   string
	timestamp string
	date      string
}

func typesFor(backend schema.DatabaseBackend) columnTypes {
	switch backend {
	case schema.MySQLBackend:
		return columnTypes{
			autoID: "BIGINT AUTO_INCREMENT PRIMARY KEY", key: "VARCHAR(255)", text: "TEXT",
			bigint: "BIGINT", integer: "INT", double: "DOUBLE", boolean: "BOOLEAN",
			timestamp: "DATETIME(6)", date: "DATE",
		}
	case schema.PostgreSQLBackend:
		return columnTypes{
			autoID: "BIGSERIAL PRIMARY KEY", key: "VARCHAR(255)", text: "TEXT",
			bigint: "BIGINT", integer: "INT", double: "DOUBLE PRECISION", boolean: "BOOLEAN",
			timestamp: "TIMESTAMPTZ", date: "DATE",
		}
	default: // SQLite
		return columnTypes{
			autoID: "INTEGER PRIMARY KEY AUTOINCREMENT", key: "TEXT", text: "TEXT",
			bigint: "INTEGER", integer: "INTEGER", double: "REAL", boolean: "INTEGER",
			timestamp: "TEXT", date: "TEXT",
		}
	}
}

// getCreateTableQuery returns the CREATE TABLE query of a hub table for the given backend.
func getCreateTableQuery(table string, backend schema.DatabaseBackend) string {
	t := typesFor(backend)
	q := func(name string) string { return quoteTableName(name, backend) }

	switch table {
	case modelsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				model_id %s PRIMARY KEY,
				pipeline_tag %s,
				library_name %s,
				author %s,
				downloads %s NOT NULL DEFAULT 0,
				likes %s NOT NULL DEFAULT 0,
				private %s NOT NULL DEFAULT FALSE,
				is_active %s NOT NULL DEFAULT TRUE,
				last_modified %s,
				created_at %s NOT NULL
			)`, q(modelsTable), t.key, t.key, t.key, t.key, t.bigint, t.bigint, t.boolean, t.boolean, t.timestamp, t.timestamp)

	case modelTagsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id %s,
				model_id %s NOT NULL REFERENCES %s (model_id),
				tag %s NOT NULL
			)`, q(modelTagsTable), t.autoID, t.key, q(modelsTable), t.key)

	case snapshotsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id %s,
				model_id %s NOT NULL REFERENCES %s (model_id),
				snapshot_date %s NOT NULL,
				pipeline_tag %s,
				downloads %s NOT NULL DEFAULT 0,
				likes %s NOT NULL DEFAULT 0,
				is_active %s NOT NULL DEFAULT TRUE,
				UNIQUE (model_id, snapshot_date)
			)`, q(snapshotsTable), t.autoID, t.key, q(modelsTable), t.date, t.key, t.bigint, t.bigint, t.boolean)

	case predictionsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id %s,
				model_id %s NOT NULL REFERENCES %s (model_id),
				probability %s NOT NULL CHECK (probability >= 0 AND probability <= 1),
				prediction_date %s NOT NULL,
				growth_yesterday %s,
				downloads_yesterday %s,
				created_at %s NOT NULL
			)`, q(predictionsTable), t.autoID, t.key, q(modelsTable), t.double, t.date, t.double, t.bigint, t.timestamp)

	case runsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s PRIMARY KEY,
				created_at %s NOT NULL,
				start_time %s NOT NULL,
				end_time %s,
				fetched_count %s NOT NULL DEFAULT 0,
				inserted_count %s NOT NULL DEFAULT 0,
				updated_count %s NOT NULL DEFAULT 0,
				error_count %s NOT NULL DEFAULT 0,
				log_message %s
			)`, q(runsTable), t.key, t.timestamp, t.timestamp, t.timestamp, t.integer, t.integer, t.integer, t.integer, t.text)
	}
	return ""
}

// createTables creates all hub tables that do not exist yet.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range allTables {
		if err := validateTableName(table); err != nil {
			return err
		}
		if _, err := db.Exec(getCreateTableQuery(table, backend)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}
