package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MyMedia/config"
	"MyMedia/repository"
	"MyMedia/storage"
)

// APIHandler handles all API requests.
type APIHandler struct {
	mediaRepo  repository.MediaRepository
	userRepo   repository.UserRepository
	artistRepo repository.ArtistRepository
	albumRepo  repository.AlbumRepository
	postRepo   repository.PostRepository
	store      *storage.Store
	cfg        *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	mediaRepo repository.MediaRepository,
	userRepo repository.UserRepository,
	artistRepo repository.ArtistRepository,
	albumRepo repository.AlbumRepository,
	postRepo repository.PostRepository,
	store *storage.Store,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		mediaRepo:  mediaRepo,
		userRepo:   userRepo,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
		postRepo:   postRepo,
		store:      store,
		cfg:        cfg,
	}
}

// maxUploadSize bounds a single upload request body.
const maxUploadSize int64 = 100 << 20 // 100MB

// uploadSemaphore bounds concurrent uploads.
var uploadSemaphore = make(chan struct{}, 5)

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with a short human-readable detail.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// formatLength converts seconds into MM:SS.
func formatLength(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// formatTime renders a timestamp as "YYYY-MM-DD, HH:MM:SS".
func formatTime(t time.Time) string {
	return t.Format("2006-01-02, 15:04:05")
}

// RootHandler answers the API root probe.
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "MyMedia"})
}
