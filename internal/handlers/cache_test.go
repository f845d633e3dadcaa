package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsBody struct {
	Success bool `json:"success"`
	Stats   struct {
		Entries int      `json:"entries"`
		Keys    []string `json:"keys"`
	} `json:"stats"`
}

func TestCacheClearAbsentKey(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	w := s.do(t, http.MethodPost, "/cache/clear", map[string]interface{}{"key": "does-not-exist"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestCacheClearAllThenStats(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	ctx := context.Background()

	// populate through a cached read
	s.do(t, http.MethodPost, "/properties", map[string]interface{}{"name": "A"})
	s.do(t, http.MethodGet, "/properties", nil)
	require.NoError(t, s.cache.Set(ctx, "misc", []byte("1")))

	var before statsBody
	decode(t, s.do(t, http.MethodGet, "/cache/clear", nil), &before)
	assert.True(t, before.Success)
	assert.Equal(t, 2, before.Stats.Entries)

	w := s.do(t, http.MethodPost, "/cache/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Cache cleared"}`, w.Body.String())

	var after statsBody
	decode(t, s.do(t, http.MethodGet, "/cache/clear", nil), &after)
	assert.Equal(t, 0, after.Stats.Entries)
	assert.Empty(t, after.Stats.Keys)
}

func TestCacheClearSingleKey(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	ctx := context.Background()
	require.NoError(t, s.cache.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.cache.Set(ctx, "b", []byte("2")))

	w := s.do(t, http.MethodPost, "/cache/clear", map[string]interface{}{"key": "a"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Cache key a cleared"}`, w.Body.String())

	_, ok, _ := s.cache.Get(ctx, "b")
	assert.True(t, ok)
}
