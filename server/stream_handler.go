package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"MyMedia/logger"

	"github.com/gorilla/mux"
)

// streamChunkSize is how many bytes are read and flushed per iteration while
// streaming a range response.
const streamChunkSize = 4096

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d+)?$`)

// byteRange is a half-open span [start, end] into a stored file, derived from
// one request's Range header.
type byteRange struct {
	start int64
	end   int64
}

func (br byteRange) length() int64 {
	return br.end - br.start + 1
}

// parseRange derives the byte span for a file of the given size. An absent or
// malformed header means the whole file. A parsed end is clamped to the last
// byte; a start at or past EOF (or past the end) is not satisfiable. A
// zero-length file has no bytes to span, so nothing is satisfiable.
func parseRange(header string, size int64) (byteRange, bool) {
	if size <= 0 {
		return byteRange{}, false
	}

	full := byteRange{start: 0, end: size - 1}

	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return full, true
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return full, true
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return full, true
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start >= size || start > end {
		return byteRange{}, false
	}
	return byteRange{start: start, end: end}, true
}

// StreamHandler serves a stored audio file with partial-content semantics for
// seekable playback. Every successful response is a 206 carrying the exact
// span, whether or not the client asked for a range.
func (h *APIHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filename := filepath.Base(mux.Vars(r)["filename"])
	path := h.store.ResolvePath(userID, filename)

	info, err := os.Stat(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	size := info.Size()

	br, ok := parseRange(r.Header.Get("Range"), size)
	if !ok {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		writeError(w, http.StatusRequestedRangeNotSatisfiable, "Range not satisfiable")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		// The file vanished between Stat and Open; a clean not-found.
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	if _, err := f.Seek(br.start, 0); err != nil {
		logger.Error("Failed to seek stream source",
			logger.String("path", path),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.start, br.end, size))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(br.length(), 10))
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusPartialContent)

	// Emit the span in fixed-size chunks from the single seek above,
	// stopping at the end of the span or an early EOF. Once the loop exits
	// the stream is never re-entered.
	buf := make([]byte, streamChunkSize)
	remaining := br.length()
	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}

		read, err := f.Read(buf[:n])
		if read > 0 {
			if _, werr := w.Write(buf[:read]); werr != nil {
				// Client hung up or the connection failed mid-stream;
				// nothing can be retried after bytes have been sent.
				logger.Warn("Stream aborted mid-response",
					logger.String("path", path),
					logger.ErrorField(werr))
				return
			}
			remaining -= int64(read)
		}
		if err != nil {
			if err != io.EOF {
				logger.Error("Stream read failed",
					logger.String("path", path),
					logger.ErrorField(err))
			}
			return
		}
	}
}
