package model

import (
	"database/sql"
	"time"
)

// Media represents one uploaded audio file's metadata record.
// The backing file on disk is the source of truth for existence; the record
// is pruned once the file is confirmed absent.
type Media struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"usersId"`
	Title     string         `json:"title"` // Original upload filename, unique per user
	ArtistID  int64          `json:"artistId"`
	AlbumID   int64          `json:"albumId"`
	Length    int            `json:"length"` // Duration in whole seconds
	Genre     sql.NullString `json:"-"`
	CoverPath sql.NullString `json:"-"`
	CreatedAt time.Time      `json:"time"`

	// Joined display fields, populated by list/search queries.
	ArtistName string `json:"artistName,omitempty"`
	AlbumName  string `json:"albumName,omitempty"`
}

// GenreOrEmpty returns the genre string, or "" when unset.
func (m *Media) GenreOrEmpty() string {
	if m.Genre.Valid {
		return m.Genre.String
	}
	return ""
}

// CoverPathOrEmpty returns the cover art path, or "" when unset.
func (m *Media) CoverPathOrEmpty() string {
	if m.CoverPath.Valid {
		return m.CoverPath.String
	}
	return ""
}
