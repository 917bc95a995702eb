package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"MyMedia/cache"
	"MyMedia/core/format"
	"MyMedia/core/metadata"
	"MyMedia/logger"
	"MyMedia/model"
	"MyMedia/repository"
	"MyMedia/storage"

	"github.com/gorilla/mux"
)

// mediaResponse is the wire shape of one library entry.
type mediaResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ArtistID   int64  `json:"artistId"`
	ArtistName string `json:"artistName"`
	AlbumID    int64  `json:"albumId"`
	AlbumName  string `json:"albumName"`
	Time       string `json:"time"`
	UserID     int64  `json:"usersId"`
	Length     string `json:"length"` // MM:SS
	Genre      string `json:"genre"`
	CoverPath  string `json:"coverPath"`
}

func toMediaResponse(m *model.Media) mediaResponse {
	return mediaResponse{
		ID:         m.ID,
		Title:      m.Title,
		ArtistID:   m.ArtistID,
		ArtistName: m.ArtistName,
		AlbumID:    m.AlbumID,
		AlbumName:  m.AlbumName,
		Time:       formatTime(m.CreatedAt),
		UserID:     m.UserID,
		Length:     formatLength(m.Length),
		Genre:      m.GenreOrEmpty(),
		CoverPath:  m.CoverPathOrEmpty(),
	}
}

// UploadHandler handles audio file uploads: the format is validated first,
// the bytes are committed to the content store, then metadata extraction and
// record creation run. Bad tags never fail an upload.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	select {
	case uploadSemaphore <- struct{}{}:
		defer func() { <-uploadSemaphore }()
	default:
		writeError(w, http.StatusServiceUnavailable, "Server is busy, please try again later")
		return
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}

	// Validate the format before committing any bytes.
	f, err := format.Detect(filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported file format")
		return
	}

	path, err := h.store.WriteFile(userID, filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrFileExists) {
			writeError(w, http.StatusBadRequest, "File already exists")
			return
		}
		logger.Error("Failed to store upload",
			logger.Int64("userId", userID),
			logger.String("filename", filename),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	// Extraction degrades to fallback values on any parse failure; the
	// upload has already succeeded at this point.
	meta := metadata.Extract(path, f)

	coverPath := h.store.DefaultCoverPath()
	if meta.Cover != nil {
		if written, err := h.store.WriteCover(userID, filename, meta.Cover); err != nil {
			logger.Warn("Failed to write cover art, using default",
				logger.String("filename", filename),
				logger.ErrorField(err))
		} else {
			coverPath = written
		}
	}

	if err := h.createMediaRecord(userID, filename, meta, coverPath); err != nil {
		// Remove the stored bytes so a retry starts clean.
		_ = h.store.DeleteFile(userID, filename)
		logger.Error("Failed to create media record",
			logger.Int64("userId", userID),
			logger.String("filename", filename),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to save metadata")
		return
	}

	cache.InvalidateMediaList(r.Context(), userID)

	logger.Info("Upload completed",
		logger.Int64("userId", userID),
		logger.String("filename", filename),
		logger.String("artist", meta.Artist),
		logger.Int("length", meta.Duration))

	writeJSON(w, http.StatusOK, map[string]string{
		"filename": filename,
		"path":     path,
	})
}

// createMediaRecord resolves artist/album identities and inserts the record.
// A duplicate-title conflict here means a stale record survived its file;
// the stale row is replaced.
func (h *APIHandler) createMediaRecord(userID int64, filename string, meta metadata.Metadata, coverPath string) error {
	artist, err := h.artistRepo.GetOrCreateArtist(meta.Artist)
	if err != nil {
		return err
	}
	album, err := h.albumRepo.GetOrCreateAlbum(meta.Album)
	if err != nil {
		return err
	}

	media := &model.Media{
		UserID:    userID,
		Title:     filename,
		ArtistID:  artist.ID,
		AlbumID:   album.ID,
		Length:    meta.Duration,
		Genre:     sql.NullString{String: meta.Genre, Valid: true},
		CoverPath: sql.NullString{String: coverPath, Valid: coverPath != ""},
	}

	_, err = h.mediaRepo.CreateMedia(media)
	if errors.Is(err, repository.ErrDuplicateMedia) {
		stale, lookupErr := h.mediaRepo.GetMediaByUserIDAndTitle(userID, filename)
		if lookupErr != nil || stale == nil {
			return err
		}
		if delErr := h.mediaRepo.DeleteMedia(stale.ID); delErr != nil {
			return delErr
		}
		_, err = h.mediaRepo.CreateMedia(media)
	}
	return err
}

// DownloadHandler serves a stored file's raw bytes.
func (h *APIHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filename := filepath.Base(mux.Vars(r)["filename"])
	path := h.store.ResolvePath(userID, filename)

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(w, f); err != nil {
		logger.Error("Failed to send file",
			logger.String("path", path),
			logger.ErrorField(err))
	}
}

// DeleteFileHandler removes a stored file, its cover art and its record.
func (h *APIHandler) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filename := filepath.Base(mux.Vars(r)["filename"])

	if err := h.store.DeleteFile(userID, filename); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		logger.Error("Failed to delete file",
			logger.Int64("userId", userID),
			logger.String("filename", filename),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	// The record may already be gone (pruned by cleanup); best effort.
	if media, err := h.mediaRepo.GetMediaByUserIDAndTitle(userID, filename); err == nil && media != nil {
		if err := h.mediaRepo.DeleteMedia(media.ID); err != nil {
			logger.Error("Failed to delete media record",
				logger.Int64("mediaId", media.ID),
				logger.ErrorField(err))
		}
	}

	cache.InvalidateMediaList(r.Context(), userID)

	writeJSON(w, http.StatusOK, map[string]string{"detail": "File successfully deleted"})
}

// pruneMissing filters out records whose backing file is gone, deleting them
// as a side effect of listing.
func (h *APIHandler) pruneMissing(r *http.Request, userID int64, items []*model.Media) []*model.Media {
	valid := make([]*model.Media, 0, len(items))
	pruned := false
	for _, m := range items {
		if h.store.Exists(h.store.ResolvePath(userID, m.Title)) {
			valid = append(valid, m)
			continue
		}
		if err := h.mediaRepo.DeleteMedia(m.ID); err != nil {
			logger.Error("Failed to prune stale media record",
				logger.Int64("mediaId", m.ID),
				logger.ErrorField(err))
			continue
		}
		pruned = true
		logger.Info("Pruned stale media record while listing",
			logger.Int64("mediaId", m.ID),
			logger.String("title", m.Title))
	}
	if pruned {
		cache.InvalidateMediaList(r.Context(), userID)
	}
	return valid
}

// ListMediaHandler lists the caller's media records.
func (h *APIHandler) ListMediaHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, ok := cache.GetMediaList(r.Context(), userID)
	if !ok {
		items, err = h.mediaRepo.GetAllMediaByUserID(userID)
		if err != nil {
			logger.Error("Failed to list media", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Failed to list media")
			return
		}
		items = h.pruneMissing(r, userID, items)
		cache.SetMediaList(r.Context(), userID, items)
	}

	out := make([]mediaResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMediaResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// SearchMediaHandler searches the caller's records by title, artist or album.
func (h *APIHandler) SearchMediaHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query().Get("query")
	items, err := h.mediaRepo.SearchMediaByUserID(userID, query)
	if err != nil {
		logger.Error("Failed to search media", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to search media")
		return
	}
	items = h.pruneMissing(r, userID, items)

	out := make([]mediaResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMediaResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *APIHandler) ownedMediaFromRequest(w http.ResponseWriter, r *http.Request) (*model.Media, int64, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, 0, false
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid media ID")
		return nil, 0, false
	}

	media, err := h.mediaRepo.GetMediaByID(id)
	if err != nil {
		logger.Error("Failed to look up media", logger.Int64("mediaId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, 0, false
	}
	if media == nil || media.UserID != userID {
		writeError(w, http.StatusNotFound, "Mediafile does not exist")
		return nil, 0, false
	}
	return media, userID, true
}

// GetMediaHandler returns one record by ID.
func (h *APIHandler) GetMediaHandler(w http.ResponseWriter, r *http.Request) {
	media, _, ok := h.ownedMediaFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMediaResponse(media))
}

// UpdateMediaHandler retitles a record, renaming the backing file so the
// store and the record stay consistent.
func (h *APIHandler) UpdateMediaHandler(w http.ResponseWriter, r *http.Request) {
	media, userID, ok := h.ownedMediaFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	newTitle := filepath.Base(req.Title)

	if newTitle == media.Title {
		writeJSON(w, http.StatusOK, toMediaResponse(media))
		return
	}

	// The new name keeps the old extension's format; a rename must not
	// smuggle in an unsupported container.
	if _, err := format.Detect(newTitle); err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported file format")
		return
	}

	if err := h.store.RenameFile(userID, media.Title, newTitle); err != nil {
		switch {
		case errors.Is(err, storage.ErrFileNotFound):
			writeError(w, http.StatusNotFound, "File not found")
		case errors.Is(err, storage.ErrFileExists):
			writeError(w, http.StatusBadRequest, "File already exists")
		default:
			logger.Error("Failed to rename file", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Failed to rename file")
		}
		return
	}

	if err := h.mediaRepo.UpdateMediaTitle(media.ID, newTitle); err != nil {
		// Roll the file back so store and record stay in step.
		_ = h.store.RenameFile(userID, newTitle, media.Title)
		if errors.Is(err, repository.ErrDuplicateMedia) {
			writeError(w, http.StatusBadRequest, "Title already exists")
			return
		}
		logger.Error("Failed to update media title", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to update media")
		return
	}

	cache.InvalidateMediaList(r.Context(), userID)

	media.Title = newTitle
	writeJSON(w, http.StatusOK, toMediaResponse(media))
}

// DeleteMediaHandler deletes one record by ID along with its file.
func (h *APIHandler) DeleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	media, userID, ok := h.ownedMediaFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteFile(userID, media.Title); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		logger.Error("Failed to delete file for media record",
			logger.Int64("mediaId", media.ID),
			logger.ErrorField(err))
	}

	if err := h.mediaRepo.DeleteMedia(media.ID); err != nil {
		logger.Error("Failed to delete media record", logger.Int64("mediaId", media.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete media")
		return
	}

	cache.InvalidateMediaList(r.Context(), userID)

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Media was deleted successfully"})
}
