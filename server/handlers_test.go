package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLength(t *testing.T) {
	assert.Equal(t, "00:00", formatLength(0))
	assert.Equal(t, "00:59", formatLength(59))
	assert.Equal(t, "01:00", formatLength(60))
	assert.Equal(t, "03:25", formatLength(205))
	assert.Equal(t, "61:01", formatLength(3661))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 5, 17, 9, 3, 42, 0, time.UTC)
	assert.Equal(t, "2024-05-17, 09:03:42", formatTime(ts))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "File not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail": "File not found"}`, rec.Body.String())
}

func TestRootHandler(t *testing.T) {
	h := &APIHandler{}
	rec := httptest.NewRecorder()
	h.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/api", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "MyMedia"}`, rec.Body.String())
}
