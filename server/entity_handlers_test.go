package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"MyMedia/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  []*model.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{nextID: 1}
}

func (r *memPostRepo) CreatePost(post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	clone := *post
	r.posts = append(r.posts, &clone)
	return nil
}

func (r *memPostRepo) GetPostsByOwnerID(ownerID int64) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Post
	for _, p := range r.posts {
		if p.OwnerID == ownerID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func TestListPostsHandlerEmptyIsArray(t *testing.T) {
	h := &APIHandler{postRepo: newMemPostRepo()}

	req := authedRequest(t, 1, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	rec := httptest.NewRecorder()
	h.ListPostsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateAndListPosts(t *testing.T) {
	repo := newMemPostRepo()
	h := &APIHandler{postRepo: repo}

	require.NoError(t, repo.CreatePost(&model.Post{OwnerID: 1, Title: "first", Content: "hello"}))
	require.NoError(t, repo.CreatePost(&model.Post{OwnerID: 2, Title: "other user", Content: "hidden"}))

	req := authedRequest(t, 1, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	rec := httptest.NewRecorder()
	h.ListPostsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "first")
	assert.NotContains(t, rec.Body.String(), "other user")
}
