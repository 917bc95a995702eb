package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"MyMedia/model"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateMedia is returned when a user already has a record with the
// same title.
var ErrDuplicateMedia = errors.New("media record already exists")

// MediaRepository defines the interface for media record operations.
type MediaRepository interface {
	CreateMedia(media *model.Media) (int64, error)
	GetMediaByID(id int64) (*model.Media, error)
	GetMediaByUserIDAndTitle(userID int64, title string) (*model.Media, error)
	GetAllMediaByUserID(userID int64) ([]*model.Media, error)
	GetAllMedia() ([]*model.Media, error)
	SearchMediaByUserID(userID int64, query string) ([]*model.Media, error)
	UpdateMediaTitle(id int64, title string) error
	DeleteMedia(id int64) error
}

// mysqlMediaRepository implements MediaRepository for MySQL.
type mysqlMediaRepository struct {
	db *sql.DB
}

// NewMySQLMediaRepository creates a new mysqlMediaRepository.
func NewMySQLMediaRepository(db *sql.DB) MediaRepository {
	return &mysqlMediaRepository{db: db}
}

const mediaJoinColumns = `m.id, m.user_id, m.title, m.artist_id, m.album_id, m.length, m.genre, m.cover_path, m.created_at, ar.name, al.name`

// CreateMedia adds a new media record.
func (r *mysqlMediaRepository) CreateMedia(media *model.Media) (int64, error) {
	query := `INSERT INTO media (user_id, title, artist_id, album_id, length, genre, cover_path, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateMedia: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(media.UserID, media.Title, media.ArtistID, media.AlbumID, media.Length, media.Genre, media.CoverPath, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, ErrDuplicateMedia
		}
		return 0, fmt.Errorf("failed to execute CreateMedia: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateMedia: %w", err)
	}
	return id, nil
}

func scanMediaRow(row interface{ Scan(...interface{}) error }) (*model.Media, error) {
	media := &model.Media{}
	err := row.Scan(&media.ID, &media.UserID, &media.Title, &media.ArtistID, &media.AlbumID,
		&media.Length, &media.Genre, &media.CoverPath, &media.CreatedAt,
		&media.ArtistName, &media.AlbumName)
	if err != nil {
		return nil, err
	}
	return media, nil
}

// GetMediaByID retrieves a media record by its ID, joined with its artist
// and album names.
func (r *mysqlMediaRepository) GetMediaByID(id int64) (*model.Media, error) {
	query := `SELECT ` + mediaJoinColumns + `
	           FROM media m
	           JOIN artists ar ON ar.id = m.artist_id
	           JOIN albums al ON al.id = m.album_id
	           WHERE m.id = ?`
	media, err := scanMediaRow(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Record not found
		}
		return nil, fmt.Errorf("failed to scan media by ID %d: %w", id, err)
	}
	return media, nil
}

// GetMediaByUserIDAndTitle retrieves a user's media record by title.
func (r *mysqlMediaRepository) GetMediaByUserIDAndTitle(userID int64, title string) (*model.Media, error) {
	query := `SELECT ` + mediaJoinColumns + `
	           FROM media m
	           JOIN artists ar ON ar.id = m.artist_id
	           JOIN albums al ON al.id = m.album_id
	           WHERE m.user_id = ? AND m.title = ?`
	media, err := scanMediaRow(r.db.QueryRow(query, userID, title))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Record not found
		}
		return nil, fmt.Errorf("failed to scan media for user %d title %s: %w", userID, title, err)
	}
	return media, nil
}

func (r *mysqlMediaRepository) queryMedia(query string, args ...interface{}) ([]*model.Media, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Media, 0)
	for rows.Next() {
		media, err := scanMediaRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, media)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during media rows iteration: %w", err)
	}
	return items, nil
}

// GetAllMediaByUserID retrieves all media records for a user.
func (r *mysqlMediaRepository) GetAllMediaByUserID(userID int64) ([]*model.Media, error) {
	query := `SELECT ` + mediaJoinColumns + `
	           FROM media m
	           JOIN artists ar ON ar.id = m.artist_id
	           JOIN albums al ON al.id = m.album_id
	           WHERE m.user_id = ? ORDER BY m.created_at DESC`
	return r.queryMedia(query, userID)
}

// GetAllMedia retrieves every media record across all users. Used by the
// cleanup pass.
func (r *mysqlMediaRepository) GetAllMedia() ([]*model.Media, error) {
	query := `SELECT ` + mediaJoinColumns + `
	           FROM media m
	           JOIN artists ar ON ar.id = m.artist_id
	           JOIN albums al ON al.id = m.album_id`
	return r.queryMedia(query)
}

// SearchMediaByUserID retrieves a user's media records whose title, artist
// name or album name contains the query string.
func (r *mysqlMediaRepository) SearchMediaByUserID(userID int64, search string) ([]*model.Media, error) {
	query := `SELECT ` + mediaJoinColumns + `
	           FROM media m
	           JOIN artists ar ON ar.id = m.artist_id
	           JOIN albums al ON al.id = m.album_id
	           WHERE m.user_id = ? AND (m.title LIKE ? OR ar.name LIKE ? OR al.name LIKE ?)
	           ORDER BY m.created_at DESC`
	pattern := "%" + search + "%"
	return r.queryMedia(query, userID, pattern, pattern, pattern)
}

// UpdateMediaTitle updates a record's title.
func (r *mysqlMediaRepository) UpdateMediaTitle(id int64, title string) error {
	query := `UPDATE media SET title = ? WHERE id = ?`
	_, err := r.db.Exec(query, title, id)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateMedia
		}
		return fmt.Errorf("failed to update title for media ID %d: %w", id, err)
	}
	return nil
}

// DeleteMedia removes a media record.
func (r *mysqlMediaRepository) DeleteMedia(id int64) error {
	query := `DELETE FROM media WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete media ID %d: %w", id, err)
	}
	return nil
}
