package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestNewModelRecordDefaults(t *testing.T) {
	m := NewModelRecord("org/name", testNow)
	assert.Equal(t, "org/name", m.ModelID)
	assert.Zero(t, m.Downloads)
	assert.Zero(t, m.Likes)
	assert.False(t, m.Private)
	assert.True(t, m.IsActive)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.Nil(t, m.LastModified)
}

func TestParseModelRecord(t *testing.T) {
	raw := RawRecord{
		"id":           "meta-llama/Llama-3-8B",
		"pipeline_tag": "text-generation",
		"library_name": "transformers",
		"downloads":    float64(1200),
		"likes":        float64(42),
		"private":      false,
		"lastModified": "2025-03-01T12:00:00.000Z",
		"tags":         []any{"pytorch", "license:mit", "pytorch", 7},
		"siblings":     []any{},
	}

	m, tags, err := ParseModelRecord(raw, testNow)
	require.NoError(t, err)

	assert.Equal(t, "meta-llama/Llama-3-8B", m.ModelID)
	require.NotNil(t, m.PipelineTag)
	assert.Equal(t, "text-generation", *m.PipelineTag)
	require.NotNil(t, m.LibraryName)
	assert.Equal(t, "transformers", *m.LibraryName)
	require.NotNil(t, m.Author)
	assert.Equal(t, "meta-llama", *m.Author)
	assert.Equal(t, int64(1200), m.Downloads)
	assert.Equal(t, int64(42), m.Likes)
	assert.True(t, m.IsActive)
	require.NotNil(t, m.LastModified)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), *m.LastModified)
	assert.Equal(t, testNow, m.CreatedAt)

	require.Len(t, tags, 2)
	assert.Equal(t, "pytorch", tags[0].Tag)
	assert.Equal(t, "license:mit", tags[1].Tag)
	for _, tag := range tags {
		assert.Equal(t, m.ModelID, tag.ModelID)
	}
}

func TestParseModelRecordMinimal(t *testing.T) {
	m, tags, err := ParseModelRecord(RawRecord{"id": "b"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, NewModelRecord("b", testNow), m)
	assert.Empty(t, tags)
}

func TestParseModelRecordFallbacks(t *testing.T) {
	m, _, err := ParseModelRecord(RawRecord{
		"modelId":       "gpt2",
		"author":        "openai-community",
		"disabled":      true,
		"last_modified": "2024-01-02T03:04:05Z",
		"createdAt":     "2022-03-02T23:29:04.000Z",
		"downloads":     nil,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "gpt2", m.ModelID)
	assert.Equal(t, "openai-community", *m.Author)
	assert.False(t, m.IsActive)
	require.NotNil(t, m.LastModified)
	assert.Equal(t, 2024, m.LastModified.Year())
	assert.Equal(t, time.Date(2022, 3, 2, 23, 29, 4, 0, time.UTC), m.CreatedAt)
	assert.Zero(t, m.Downloads)
}

func TestParseModelRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want error
	}{
		{"no id", RawRecord{"downloads": float64(1)}, ErrMissingID},
		{"empty id", RawRecord{"id": ""}, ErrMissingID},
		{"numeric id", RawRecord{"id": float64(3)}, ErrMissingID},
		{"negative downloads", RawRecord{"id": "a", "downloads": float64(-1)}, ErrInvalidField},
		{"string likes", RawRecord{"id": "a", "likes": "many"}, ErrInvalidField},
		{"fractional likes", RawRecord{"id": "a", "likes": 1.5}, ErrInvalidField},
		{"bad timestamp", RawRecord{"id": "a", "lastModified": "yesterday"}, ErrInvalidField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseModelRecord(tt.raw, testNow)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	tag := "fill-mask"
	m := ModelRecord{ModelID: "bert", PipelineTag: &tag, Downloads: 5, Likes: 2, IsActive: true}
	local := time.Date(2025, 3, 14, 23, 30, 0, 0, time.FixedZone("X", -5*3600))

	s := NewSnapshot(m, local)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), s.SnapshotDate)
	assert.Equal(t, "bert", s.ModelID)
	assert.Equal(t, &tag, s.PipelineTag)
	assert.Equal(t, int64(5), s.Downloads)
	assert.Equal(t, int64(2), s.Likes)
	assert.True(t, s.IsActive)
	assert.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	day := TruncateDay(testNow)
	end := testNow.Add(time.Minute)
	before := testNow.Add(-time.Minute)

	tests := []struct {
		name    string
		record  interface{ Validate() error }
		wantErr error
	}{
		{"model ok", ModelRecord{ModelID: "a"}, nil},
		{"model no id", ModelRecord{}, ErrMissingID},
		{"model negative", ModelRecord{ModelID: "a", Likes: -1}, ErrOutOfRange},
		{"tag ok", ModelTag{ModelID: "a", Tag: "t"}, nil},
		{"tag empty", ModelTag{ModelID: "a"}, ErrInvalidField},
		{"snapshot no date", ModelSnapshot{ModelID: "a"}, ErrInvalidField},
		{"snapshot negative", ModelSnapshot{ModelID: "a", SnapshotDate: day, Downloads: -3}, ErrOutOfRange},
		{"prediction ok", TrendPrediction{ModelID: "a", Probability: 1, PredictionDate: day}, nil},
		{"prediction zero", TrendPrediction{ModelID: "a", Probability: 0, PredictionDate: day}, nil},
		{"prediction above", TrendPrediction{ModelID: "a", Probability: 1.01, PredictionDate: day}, ErrOutOfRange},
		{"prediction below", TrendPrediction{ModelID: "a", Probability: -0.2, PredictionDate: day}, ErrOutOfRange},
		{"prediction nan", TrendPrediction{ModelID: "a", Probability: math.NaN(), PredictionDate: day}, ErrOutOfRange},
		{"prediction negative growth ok", TrendPrediction{ModelID: "a", Probability: 0.3, PredictionDate: day, GrowthYesterday: -40, DownloadsYesterday: -12}, nil},
		{"run ok", PipelineRun{RunID: "r", StartTime: testNow, EndTime: &end}, nil},
		{"run no id", PipelineRun{}, ErrInvalidField},
		{"run negative", PipelineRun{RunID: "r", ErrorCount: -1}, ErrOutOfRange},
		{"run ends early", PipelineRun{RunID: "r", StartTime: testNow, EndTime: &before}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPipelineRunFinish(t *testing.T) {
	run := NewPipelineRun("r1", testNow)
	assert.True(t, run.Running())
	assert.Nil(t, run.LogMessage)

	run.Finish(testNow.Add(time.Second), "")
	assert.False(t, run.Running())
	require.NotNil(t, run.LogMessage)
	assert.Equal(t, DefaultLogMessage, *run.LogMessage)
	assert.NoError(t, run.Validate())

	end := *run.EndTime
	run.Finish(testNow.Add(2*time.Second), "completed with 2 errors")
	assert.Equal(t, DefaultLogMessage, *run.LogMessage)
	assert.Equal(t, end, *run.EndTime)
}

func TestRawRecordAccessors(t *testing.T) {
	r := RawRecord{"n": int64(4), "i": 3, "f": float64(2), "s": "x", "b": true, "l": []any{"a", nil, ""}}

	n, ok := r.Int("n")
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)
	i, ok := r.Int("i")
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)
	f, ok := r.Int("f")
	assert.True(t, ok)
	assert.Equal(t, int64(2), f)
	missing, ok := r.Int("nope")
	assert.True(t, ok)
	assert.Zero(t, missing)

	assert.Equal(t, "x", *r.String("s"))
	assert.Nil(t, r.String("b"))
	assert.True(t, r.Bool("b"))
	assert.False(t, r.Bool("s"))
	assert.Equal(t, []string{"a"}, r.Strings("l"))
	assert.Nil(t, r.Strings("s"))

	ts, ok := r.Time("nope")
	assert.True(t, ok)
	assert.Nil(t, ts)
	_, ok = r.Time("b")
	assert.False(t, ok)
}
