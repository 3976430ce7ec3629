package hubclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/hubtrend/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a server with the handler and returns a client pointed at it.
func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/api/models", Token: token, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewDefaults(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL.String())
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.False(t, client.Authenticated())

	_, err = New(Config{BaseURL: "http://bad host/%zz"})
	assert.Error(t, err)
}

func TestGetSendsQueryAndToken(t *testing.T) {
	var gotQuery url.Values
	var gotAuth, gotPath string
	client := newTestClient(t, "hf_secret", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"id":"a","downloads":10},{"id":"b","likes":3}]`))
	})
	assert.True(t, client.Authenticated())

	params := url.Values{}
	params.Set("limit", "2")
	params.Set("sort", "downloads")
	records, err := client.Get(context.Background(), params, 0)
	require.NoError(t, err)

	assert.Equal(t, "/api/models", gotPath)
	assert.Equal(t, "2", gotQuery.Get("limit"))
	assert.Equal(t, "downloads", gotQuery.Get("sort"))
	assert.Equal(t, "Bearer hf_secret", gotAuth)
	require.Len(t, records, 2)
	id, ok := records[0].ID()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	downloads, ok := records[0].Int("downloads")
	assert.True(t, ok)
	assert.Equal(t, int64(10), downloads)
}

func TestGetWithoutToken(t *testing.T) {
	var sawAuth atomic.Bool
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		sawAuth.Store(r.Header.Get("Authorization") != "")
		_, _ = w.Write([]byte(`[]`))
	})

	records, err := client.Get(context.Background(), url.Values{}, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, sawAuth.Load())
}

func TestGetFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   ErrorKind
		wantStatus int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			},
			wantKind:   TransportError,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "error object instead of array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"error":"Invalid sort"}`))
			},
			wantKind:   MalformedError,
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":`))
			},
			wantKind:   MalformedError,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, "", tt.handler)
			records, err := client.Get(context.Background(), url.Values{}, 0)
			assert.Nil(t, records)
			require.Error(t, err)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantKind, fe.Kind)
			assert.Equal(t, tt.wantStatus, fe.Status)
			assert.True(t, IsKind(err, tt.wantKind))
		})
	}
}

func TestGetTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := client.Get(context.Background(), url.Values{}, 50*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsKind(err, TimeoutError), "got %v", err)
}

func TestGetConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client, err := New(Config{BaseURL: addr})
	require.NoError(t, err)
	_, err = client.Get(context.Background(), url.Values{}, time.Second)
	require.Error(t, err)
	assert.True(t, IsKind(err, TransportError), "got %v", err)
}

func TestDecodeRecordsSkipsNonObjects(t *testing.T) {
	records, err := decodeRecords([]byte(`[{"id":"a"}, 3, "x", null, {"modelId":"b"}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	id, _ := records[1].ID()
	assert.Equal(t, "b", id)
}

func TestFetchErrorMessage(t *testing.T) {
	fe := &FetchError{Kind: TransportError, Status: 503, Err: assert.AnError}
	assert.Contains(t, fe.Error(), "status 503")
	assert.ErrorIs(t, fe, assert.AnError)

	fe = &FetchError{Kind: TimeoutError, Err: context.DeadlineExceeded}
	assert.Equal(t, "timeout error: context deadline exceeded", fe.Error())
	assert.False(t, IsKind(assert.AnError, TimeoutError))
}

func TestGlobalTop(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	})

	result := client.GlobalTop(context.Background(), 1000, schema.Likes7dMetric)
	assert.True(t, result.OK())
	assert.Len(t, result.Records, 1)
	assert.Equal(t, "1000", gotQuery.Get("limit"))
	assert.Equal(t, "likes7d", gotQuery.Get("sort"))
	assert.Equal(t, "-1", gotQuery.Get("direction"))
	assert.Equal(t, "true", gotQuery.Get("full"))
}

func TestGlobalTopAbsorbsFailures(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	assert.NotPanics(t, func() {
		result := client.GlobalTop(context.Background(), 10, schema.DownloadsMetric)
		assert.False(t, result.OK())
		assert.Empty(t, result.Records)
		assert.Equal(t, MalformedError, result.Err.Kind)
	})
}

func TestGlobalTopRejectsUnknownMetric(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	})

	result := client.GlobalTop(context.Background(), 10, schema.SortMetric("trending"))
	assert.False(t, result.OK())
	assert.Empty(t, result.Records)
	require.NotNil(t, result.Err)
	assert.Equal(t, InvalidError, result.Err.Kind)
	assert.Contains(t, result.Err.Error(), `"trending"`)
	assert.Equal(t, int32(0), hits.Load())
}

func TestTargeted(t *testing.T) {
	var gotQuery url.Values
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	result := client.Targeted(context.Background(), "text-to-image", "diffusers", 0)
	assert.True(t, result.OK())
	assert.Empty(t, result.Records)
	assert.Equal(t, "text-to-image", gotQuery.Get("pipeline_tag"))
	assert.Equal(t, "diffusers", gotQuery.Get("library"))
	assert.Equal(t, "200", gotQuery.Get("limit"))
	assert.Equal(t, "downloads", gotQuery.Get("sort"))
	assert.Empty(t, gotQuery.Get("direction"))

	result = client.Targeted(context.Background(), "fill-mask", "transformers", 25)
	assert.True(t, result.OK())
	assert.Equal(t, "25", gotQuery.Get("limit"))
}

func TestTargetedAbsorbsFailures(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result := client.Targeted(context.Background(), "fill-mask", "transformers", 10)
	assert.False(t, result.OK())
	assert.Empty(t, result.Records)
	assert.Equal(t, http.StatusInternalServerError, result.Err.Status)
}
