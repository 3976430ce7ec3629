// Package hubclient issues GET requests against the model hub listing endpoint.
package hubclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/huangsam/hubtrend/schema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Default values for the client.
const (
	DefaultBaseURL       = "https://huggingface.co/api/models"
	DefaultTimeout       = 45 * time.Second
	TargetedTimeout      = 25 * time.Second
	DefaultTargetedLimit = 200
	userAgent            = "hubtrend"
	maxErrorBodyBytes    = 512
)

// Config holds everything the client needs. A zero Config talks to the
// public endpoint without a token.
type Config struct {
	BaseURL    string
	Token      string // Optional bearer token; empty means unauthenticated
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client performs single-attempt GETs against the listing endpoint.
type Client struct {
	baseURL *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
	log     *zap.Logger
}

// New builds a client from cfg. It fails only when the base URL cannot be parsed.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		clone := *cfg.HTTPClient
		httpClient = &clone
	}
	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient.Transport = otelhttp.NewTransport(transport)

	if cfg.Token == "" {
		cfg.Logger.Warn("Using unauthenticated hub client (rate limited)")
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		timeout: cfg.Timeout,
		http:    httpClient,
		log:     cfg.Logger,
	}, nil
}

// Authenticated reports whether requests carry a bearer token.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Get issues one GET with the given query and timeout and decodes the body
// as a list of records. Failures are returned as *FetchError; there is no retry.
func (c *Client) Get(ctx context.Context, params url.Values, timeout time.Duration) ([]schema.RawRecord, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := *c.baseURL
	u.RawQuery = params.Encode()
	log := c.log.With(zap.String("url", u.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Kind: TransportError, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		fe := classify(err)
		log.Error("Hub request failed", zap.String("kind", string(fe.Kind)), zap.Error(err))
		return nil, fe
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		fe := &FetchError{Kind: TransportError, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %s: %s", resp.Status, snippet)}
		log.Warn("Hub returned non-2xx status", zap.Int("status", resp.StatusCode))
		return nil, fe
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fe := classify(err)
		log.Error("Reading hub response failed", zap.String("kind", string(fe.Kind)), zap.Error(err))
		return nil, fe
	}

	records, err := decodeRecords(body)
	if err != nil {
		log.Warn("Hub response is malformed", zap.Error(err))
		return nil, &FetchError{Kind: MalformedError, Status: resp.StatusCode, Err: err}
	}

	log.Info("Fetched models", zap.Int("count", len(records)), zap.Duration("elapsed", time.Since(start)))
	return records, nil
}

// decodeRecords expects a top-level JSON array. Non-object elements are skipped.
func decodeRecords(body []byte) ([]schema.RawRecord, error) {
	var decoded any
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	list, ok := decoded.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %T", decoded)
	}
	records := make([]schema.RawRecord, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, schema.RawRecord(obj))
		}
	}
	return records, nil
}
