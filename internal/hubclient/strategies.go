package hubclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/huangsam/hubtrend/schema"
	"go.uber.org/zap"
)

// Result is the outcome of a fetch strategy. A nil Err with no records means
// the hub answered with an empty list; a non-nil Err means the call failed.
type Result struct {
	Records []schema.RawRecord
	Err     *FetchError
}

// OK reports whether the call succeeded, regardless of the record count.
func (r Result) OK() bool {
	return r.Err == nil
}

// GlobalTop requests the top limit models by metric in descending order with
// full metadata. Failures are logged and returned inside the Result. An
// unsupported metric fails with InvalidError without contacting the hub.
func (c *Client) GlobalTop(ctx context.Context, limit int, metric schema.SortMetric) Result {
	if _, ok := schema.ValidSortMetrics[metric]; !ok {
		fe := &FetchError{Kind: InvalidError, Err: fmt.Errorf("unsupported sort metric %q, want one of %v", metric, schema.AllSortMetrics)}
		c.log.Error("Rejected global top request", zap.Error(fe))
		return Result{Err: fe}
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", string(metric))
	params.Set("direction", "-1")
	params.Set("full", "true")

	c.log.Info("Fetching global top models", zap.String("sort", string(metric)), zap.Int("limit", limit))
	return c.toResult(c.Get(ctx, params, c.timeout))
}

// Targeted requests models matching a task and library, most downloaded first.
// A non-positive limit falls back to DefaultTargetedLimit. The timeout is
// always TargetedTimeout.
func (c *Client) Targeted(ctx context.Context, task, library string, limit int) Result {
	if limit <= 0 {
		limit = DefaultTargetedLimit
	}
	params := url.Values{}
	params.Set("pipeline_tag", task)
	params.Set("library", library)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", string(schema.DownloadsMetric))

	c.log.Info("Fetching targeted models", zap.String("task", task), zap.String("library", library), zap.Int("limit", limit))
	return c.toResult(c.Get(ctx, params, TargetedTimeout))
}

func (c *Client) toResult(records []schema.RawRecord, err error) Result {
	if err == nil {
		return Result{Records: records}
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		fe = &FetchError{Kind: TransportError, Err: err}
	}
	return Result{Err: fe}
}
