package repository

import (
	"database/sql"
	"fmt"

	"MyMedia/model"
)

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	GetOrCreateAlbum(name string) (*model.Album, error)
	GetAlbumByID(id int64) (*model.Album, error)
	CreateAlbum(album *model.Album) (int64, error)
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

// GetOrCreateAlbum returns the album with the given name, inserting it first
// if absent. Atomic under the UNIQUE(name) constraint; see GetOrCreateArtist.
func (r *mysqlAlbumRepository) GetOrCreateAlbum(name string) (*model.Album, error) {
	query := `INSERT INTO albums (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`
	res, err := r.db.Exec(query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get-or-create album %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get album ID for %q: %w", name, err)
	}
	return &model.Album{ID: id, Name: name}, nil
}

// GetAlbumByID retrieves an album by its ID.
func (r *mysqlAlbumRepository) GetAlbumByID(id int64) (*model.Album, error) {
	query := `SELECT id, name FROM albums WHERE id = ?`
	row := r.db.QueryRow(query, id)

	album := &model.Album{}
	err := row.Scan(&album.ID, &album.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Album not found
		}
		return nil, fmt.Errorf("failed to scan album by ID %d: %w", id, err)
	}
	return album, nil
}

// CreateAlbum inserts an album row directly.
func (r *mysqlAlbumRepository) CreateAlbum(album *model.Album) (int64, error) {
	query := `INSERT INTO albums (name) VALUES (?)`
	res, err := r.db.Exec(query, album.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to create album %q: %w", album.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for album: %w", err)
	}
	return id, nil
}
