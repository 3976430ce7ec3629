package schema

// Custom string types for type safety.
type (
	// SortMetric represents a hub listing sort key.
	SortMetric string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// PhaseStatus represents the outcome of a single fetch phase.
	PhaseStatus string
)

// All sort metrics supported by the model listing endpoint.
const (
	DownloadsMetric SortMetric = "downloads" // default
	LikesMetric     SortMetric = "likes"
	Likes7dMetric   SortMetric = "likes7d"   // 7-day likes velocity
	CreatedAtMetric SortMetric = "createdAt" // most recent first
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All phase statuses.
const (
	PhaseOK     PhaseStatus = "ok"
	PhaseEmpty  PhaseStatus = "empty"
	PhaseFailed PhaseStatus = "failed"
)

// DefaultLogMessage is the audit message of a run that finished cleanly.
const DefaultLogMessage = "success"

// MissingIDKey is the dedup key used for records that carry no identifier.
// Distinct malformed records collide under it.
const MissingIDKey = ""

// AllSortMetrics returns a list of all supported sort metrics.
var AllSortMetrics = []SortMetric{DownloadsMetric, LikesMetric, Likes7dMetric, CreatedAtMetric}

// ValidSortMetrics lists all valid sort metrics.
var ValidSortMetrics = map[SortMetric]struct{}{
	DownloadsMetric: {},
	LikesMetric:     {},
	Likes7dMetric:   {},
	CreatedAtMetric: {},
}

// ValidOutputModes lists all valid output modes for run summaries.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
