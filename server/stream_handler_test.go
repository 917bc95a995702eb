package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"MyMedia/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	const size = int64(1000)

	cases := []struct {
		name      string
		header    string
		wantStart int64
		wantEnd   int64
		wantOK    bool
	}{
		{"no header means whole file", "", 0, 999, true},
		{"malformed header means whole file", "bytes=abc", 0, 999, true},
		{"suffix form means whole file", "bytes=-500", 0, 999, true},
		{"bounded range", "bytes=100-199", 100, 199, true},
		{"open-ended range", "bytes=100-", 100, 999, true},
		{"single byte", "bytes=0-0", 0, 0, true},
		{"end clamped to last byte", "bytes=900-5000", 900, 999, true},
		{"start at EOF unsatisfiable", "bytes=1000-", 0, 0, false},
		{"start past EOF unsatisfiable", "bytes=5000-6000", 0, 0, false},
		{"inverted range unsatisfiable", "bytes=200-100", 0, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			br, ok := parseRange(c.header, size)
			require.Equal(t, c.wantOK, ok)
			if ok {
				assert.Equal(t, c.wantStart, br.start)
				assert.Equal(t, c.wantEnd, br.end)
			}
		})
	}
}

func TestParseRangeEmptyFile(t *testing.T) {
	// A zero-length file has no satisfiable span, with or without a header.
	_, ok := parseRange("", 0)
	assert.False(t, ok)
	_, ok = parseRange("bytes=0-", 0)
	assert.False(t, ok)
	_, ok = parseRange("bytes=0-0", 0)
	assert.False(t, ok)
}

func TestByteRangeLength(t *testing.T) {
	assert.Equal(t, int64(100), byteRange{start: 100, end: 199}.length())
	assert.Equal(t, int64(1), byteRange{start: 0, end: 0}.length())
}

func newStreamFixture(t *testing.T, content string) (*APIHandler, string) {
	t.Helper()
	dir := t.TempDir()
	st := storage.NewStore(filepath.Join(dir, "users_media"), filepath.Join(dir, "static"))
	_, err := st.WriteFile(1, "song.mp3", strings.NewReader(content))
	require.NoError(t, err)
	return &APIHandler{store: st}, "song.mp3"
}

func streamRequest(t *testing.T, filename, rangeHeader string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/stream/"+filename, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	req = mux.SetURLVars(req, map[string]string{"filename": filename})
	ctx := context.WithValue(req.Context(), "userID", int64(1))
	return req.WithContext(ctx)
}

func TestStreamHandlerFullFile(t *testing.T) {
	content := strings.Repeat("x", 10000)
	h, name := newStreamFixture(t, content)

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, name, ""))

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, fmt.Sprintf("bytes 0-%d/%d", len(content)-1, len(content)), rec.Header().Get("Content-Range"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, fmt.Sprintf("%d", len(content)), rec.Header().Get("Content-Length"))
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, content, rec.Body.String())
}

func TestStreamHandlerBoundedRange(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 1000; i++ {
		buf.WriteByte(byte(i % 256))
	}
	content := buf.String()
	h, name := newStreamFixture(t, content)

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, name, "bytes=100-199"))

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 100-199/1000", rec.Header().Get("Content-Range"))
	assert.Equal(t, "100", rec.Header().Get("Content-Length"))
	assert.Equal(t, content[100:200], rec.Body.String())
}

func TestStreamHandlerClampsEnd(t *testing.T) {
	h, name := newStreamFixture(t, strings.Repeat("y", 500))

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, name, "bytes=450-9999"))

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 450-499/500", rec.Header().Get("Content-Range"))
	assert.Equal(t, "50", rec.Header().Get("Content-Length"))
	assert.Len(t, rec.Body.String(), 50)
}

func TestStreamHandlerUnsatisfiableRange(t *testing.T) {
	h, name := newStreamFixture(t, strings.Repeat("z", 500))

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, name, "bytes=500-"))

	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code)
	assert.Equal(t, "bytes */500", rec.Header().Get("Content-Range"))
}

func TestStreamHandlerEmptyFile(t *testing.T) {
	h, name := newStreamFixture(t, "")

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, name, ""))

	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code)
	assert.Equal(t, "bytes */0", rec.Header().Get("Content-Range"))
}

func TestStreamHandlerMissingFile(t *testing.T) {
	h, _ := newStreamFixture(t, "bytes")

	rec := httptest.NewRecorder()
	h.StreamHandler(rec, streamRequest(t, "ghost.mp3", ""))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "File not found")
}

func TestStreamHandlerOtherUsersFileInvisible(t *testing.T) {
	h, name := newStreamFixture(t, "private bytes")

	req := streamRequest(t, name, "")
	ctx := context.WithValue(req.Context(), "userID", int64(2))
	rec := httptest.NewRecorder()
	h.StreamHandler(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamHandlerUnauthenticated(t *testing.T) {
	h, name := newStreamFixture(t, "bytes")

	req := httptest.NewRequest(http.MethodGet, "/api/stream/"+name, nil)
	req = mux.SetURLVars(req, map[string]string{"filename": name})
	rec := httptest.NewRecorder()
	h.StreamHandler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
