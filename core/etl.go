// Package core has core logic for fetching, merging and ingesting hub models.
package core

import (
	"context"
	"time"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/internal/logger"
	"github.com/huangsam/hubtrend/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// Phase is one global top-N fetch in the ETL sequence.
type Phase struct {
	Name   string
	Metric schema.SortMetric
	Limit  int
}

// DefaultPhases is the fixed phase order of a full ETL run.
var DefaultPhases = []Phase{
	{Name: "top-downloads", Metric: schema.DownloadsMetric, Limit: 1000},
	{Name: "top-likes", Metric: schema.LikesMetric, Limit: 1000},
	{Name: "trending-likes7d", Metric: schema.Likes7dMetric, Limit: 1000},
	{Name: "newest", Metric: schema.CreatedAtMetric, Limit: 100},
}

// ETLOptions tunes how records are merged.
type ETLOptions struct {
	// SkipMissingID drops records without an identifier instead of merging
	// them under schema.MissingIDKey.
	SkipMissingID bool
}

// merger deduplicates records by identifier in first-seen order.
// A later record with the same identifier replaces the value in place.
type merger struct {
	models  *orderedmap.OrderedMap[string, schema.RawRecord]
	opts    ETLOptions
	skipped int
}

func newMerger(opts ETLOptions) *merger {
	return &merger{models: orderedmap.New[string, schema.RawRecord](), opts: opts}
}

func (m *merger) merge(records []schema.RawRecord) {
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			if m.opts.SkipMissingID {
				m.skipped++
				continue
			}
			id = schema.MissingIDKey
		}
		m.models.Set(id, rec)
	}
}

func (m *merger) values() []schema.RawRecord {
	result := make([]schema.RawRecord, 0, m.models.Len())
	for pair := m.models.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// runPhase fetches one strategy result and merges it, recording its stats.
func (m *merger) runPhase(name string, metric schema.SortMetric, limit int, fetch func() hubclient.Result) schema.PhaseResult {
	start := time.Now()
	result := fetch()
	phase := schema.PhaseResult{
		Name:     name,
		Metric:   string(metric),
		Limit:    limit,
		Fetched:  len(result.Records),
		Duration: time.Since(start),
	}
	switch {
	case !result.OK():
		phase.Status = schema.PhaseFailed
		phase.Err = result.Err.Error()
	case len(result.Records) == 0:
		phase.Status = schema.PhaseEmpty
	default:
		phase.Status = schema.PhaseOK
	}
	m.merge(result.Records)
	phase.Unique = m.models.Len()

	logger.Info("Phase complete",
		zap.String("phase", name),
		zap.String("status", string(phase.Status)),
		zap.Int("fetched", phase.Fetched),
		zap.Int("unique", phase.Unique))
	return phase
}

// skipPhase records a phase that was not attempted because the run was cancelled.
func (m *merger) skipPhase(name string, metric schema.SortMetric, limit int, cause error) schema.PhaseResult {
	logger.Warn("Phase skipped", zap.String("phase", name), zap.Error(cause))
	return schema.PhaseResult{
		Name:   name,
		Metric: string(metric),
		Limit:  limit,
		Status: schema.PhaseFailed,
		Unique: m.models.Len(),
		Err:    "cancelled: " + cause.Error(),
	}
}

func (m *merger) result(phases []schema.PhaseResult) schema.ETLResult {
	models := m.values()
	logger.Info("ETL complete", zap.Int("unique_models", len(models)), zap.Int("skipped_missing_id", m.skipped))
	return schema.ETLResult{
		Models:         models,
		Phases:         phases,
		UniqueCount:    len(models),
		SkippedMissing: m.skipped,
	}
}

// RunETL runs the phases in order and merges their records by identifier,
// last write wins. A failed phase contributes nothing and the next one still runs.
// Once ctx is done the remaining phases are marked failed without a request.
func RunETL(ctx context.Context, fetcher contract.HubFetcher, phases []Phase, opts ETLOptions) schema.ETLResult {
	m := newMerger(opts)
	results := make([]schema.PhaseResult, 0, len(phases))
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			results = append(results, m.skipPhase(p.Name, p.Metric, p.Limit, err))
			continue
		}
		results = append(results, m.runPhase(p.Name, p.Metric, p.Limit, func() hubclient.Result {
			return fetcher.GlobalTop(ctx, p.Limit, p.Metric)
		}))
	}
	return m.result(results)
}

// RunTargeted runs the on-demand task and library fetch through the same merge.
func RunTargeted(ctx context.Context, fetcher contract.HubFetcher, task, library string, limit int, opts ETLOptions) schema.ETLResult {
	if limit <= 0 {
		limit = hubclient.DefaultTargetedLimit
	}
	m := newMerger(opts)
	phase := m.runPhase("targeted:"+task+"/"+library, schema.DownloadsMetric, limit, func() hubclient.Result {
		return fetcher.Targeted(ctx, task, library, limit)
	})
	return m.result([]schema.PhaseResult{phase})
}
