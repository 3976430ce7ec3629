package main

import (
	"io"
	"net/http"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSuccess(t *testing.T) {
	assert.True(t, isSuccess([]byte(`{"run":{"error_count":0}}`)))
	assert.False(t, isSuccess([]byte(`{"run":{"error_count":2}}`)))
	assert.False(t, isSuccess([]byte(`not json`)))
}

func TestSyntheticHub(t *testing.T) {
	hub := syntheticHub(10)
	defer hub.Close()

	resp, err := http.Get(hub.URL + "?sort=likes&limit=4")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var models []map[string]any
	require.NoError(t, sonic.Unmarshal(body, &models))
	require.Len(t, models, 4)
	assert.Equal(t, "bench/model-000005", models[0]["id"])
}
