package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	handler := NewHealthHandler(slog.Default(), "1.2.0", func() int { return 250 })
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.0", body["version"])
	assert.Equal(t, float64(250), body["loaded_days"])
}

func TestGetHealth_NoData(t *testing.T) {
	handler := NewHealthHandler(slog.Default(), "1.2.0", func() int { return 0 })
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "degraded", body["status"])
}
