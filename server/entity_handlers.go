package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"MyMedia/logger"
	"MyMedia/model"

	"github.com/gorilla/mux"
)

// CreateArtistHandler resolves or creates an artist by name.
func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	artist, err := h.artistRepo.GetOrCreateArtist(req.Name)
	if err != nil {
		logger.Error("Failed to create artist", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create artist")
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// GetArtistHandler returns one artist by ID.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	artist, err := h.artistRepo.GetArtistByID(id)
	if err != nil {
		logger.Error("Failed to look up artist", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if artist == nil {
		writeError(w, http.StatusNotFound, "Artist does not exist")
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// CreateAlbumHandler resolves or creates an album by name.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	album, err := h.albumRepo.GetOrCreateAlbum(req.Name)
	if err != nil {
		logger.Error("Failed to create album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create album")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// GetAlbumHandler returns one album by ID.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid album ID")
		return
	}

	album, err := h.albumRepo.GetAlbumByID(id)
	if err != nil {
		logger.Error("Failed to look up album", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if album == nil {
		writeError(w, http.StatusNotFound, "Album does not exist")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// CreatePostHandler creates a post owned by the caller.
func (h *APIHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	post := &model.Post{
		OwnerID: userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.postRepo.CreatePost(post); err != nil {
		logger.Error("Failed to create post", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ListPostsHandler lists the caller's posts.
func (h *APIHandler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	posts, err := h.postRepo.GetPostsByOwnerID(userID)
	if err != nil {
		logger.Error("Failed to list posts", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to list posts")
		return
	}
	if posts == nil {
		// An empty listing renders as [], never null.
		posts = make([]*model.Post, 0)
	}
	writeJSON(w, http.StatusOK, posts)
}
