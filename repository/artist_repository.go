package repository

import (
	"database/sql"
	"fmt"

	"MyMedia/model"
)

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	GetOrCreateArtist(name string) (*model.Artist, error)
	GetArtistByID(id int64) (*model.Artist, error)
	CreateArtist(artist *model.Artist) (int64, error)
}

// mysqlArtistRepository implements ArtistRepository for MySQL.
type mysqlArtistRepository struct {
	db *sql.DB
}

// NewMySQLArtistRepository creates a new mysqlArtistRepository.
func NewMySQLArtistRepository(db *sql.DB) ArtistRepository {
	return &mysqlArtistRepository{db: db}
}

// GetOrCreateArtist returns the artist with the given name, inserting it
// first if absent. The single INSERT ... ON DUPLICATE KEY UPDATE statement is
// atomic under the UNIQUE(name) constraint: concurrent callers introducing
// the same new name all receive the id of the one surviving row.
func (r *mysqlArtistRepository) GetOrCreateArtist(name string) (*model.Artist, error) {
	query := `INSERT INTO artists (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`
	res, err := r.db.Exec(query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get-or-create artist %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get artist ID for %q: %w", name, err)
	}
	return &model.Artist{ID: id, Name: name}, nil
}

// GetArtistByID retrieves an artist by its ID.
func (r *mysqlArtistRepository) GetArtistByID(id int64) (*model.Artist, error) {
	query := `SELECT id, name FROM artists WHERE id = ?`
	row := r.db.QueryRow(query, id)

	artist := &model.Artist{}
	err := row.Scan(&artist.ID, &artist.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Artist not found
		}
		return nil, fmt.Errorf("failed to scan artist by ID %d: %w", id, err)
	}
	return artist, nil
}

// CreateArtist inserts an artist row directly. Callers that must deduplicate
// by name use GetOrCreateArtist instead.
func (r *mysqlArtistRepository) CreateArtist(artist *model.Artist) (int64, error) {
	query := `INSERT INTO artists (name) VALUES (?)`
	res, err := r.db.Exec(query, artist.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to create artist %q: %w", artist.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for artist: %w", err)
	}
	return id, nil
}
