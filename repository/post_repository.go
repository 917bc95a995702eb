package repository

import (
	"fmt"

	"MyMedia/model"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post operations.
type PostRepository interface {
	CreatePost(post *model.Post) error
	GetPostsByOwnerID(ownerID int64) ([]*model.Post, error)
}

// gormPostRepository implements PostRepository on GORM, following the
// dual-stack pattern: newer modules use GormDB while the media tables stay
// on raw SQL.
type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new gormPostRepository.
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

// CreatePost inserts a post for its owner.
func (r *gormPostRepository) CreatePost(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPostsByOwnerID retrieves all posts owned by a user, newest first.
func (r *gormPostRepository) GetPostsByOwnerID(ownerID int64) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to query posts for owner %d: %w", ownerID, err)
	}
	return posts, nil
}
