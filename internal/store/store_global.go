package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &HubStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global store manager. Both stores share one
// database handle. An empty backend leaves the manager without stores.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		hub, err := NewHubStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize hub store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.runs = hub
		Manager.models = hub
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
		if Manager.models != nil && any(Manager.models) != any(Manager.runs) {
			_ = Manager.models.Close()
		}
	})
}

// ClearStore removes all hub data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the hub tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			dbFilePath = contract.GetDBFilePath()
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, _, _, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return clearSQLTables(db, backend)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTables drops the hub tables, children before their parent.
func clearSQLTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for i := len(allTables) - 1; i >= 0; i-- {
		table := allTables[i]
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
