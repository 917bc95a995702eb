package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"MyMedia/db"
	"MyMedia/model"

	"github.com/redis/go-redis/v9"
)

// mediaListTTL bounds staleness of a cached listing when invalidation is
// missed (e.g. a file removed out-of-band before the cleanup pass notices).
const mediaListTTL = 5 * time.Minute

// MediaListKey builds the Redis key for a user's media listing.
func MediaListKey(userID int64) string {
	return fmt.Sprintf("media:list:%d", userID)
}

// cachedMedia is the cache wire shape for one record. model.Media hides
// genre and cover path from its API-facing JSON, so the cache carries every
// field explicitly; a cache hit must return exactly what a store read would.
type cachedMedia struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"userId"`
	Title      string         `json:"title"`
	ArtistID   int64          `json:"artistId"`
	AlbumID    int64          `json:"albumId"`
	Length     int            `json:"length"`
	Genre      sql.NullString `json:"genre"`
	CoverPath  sql.NullString `json:"coverPath"`
	CreatedAt  time.Time      `json:"createdAt"`
	ArtistName string         `json:"artistName"`
	AlbumName  string         `json:"albumName"`
}

func encodeMediaList(items []*model.Media) ([]byte, error) {
	entries := make([]cachedMedia, 0, len(items))
	for _, m := range items {
		entries = append(entries, cachedMedia{
			ID:         m.ID,
			UserID:     m.UserID,
			Title:      m.Title,
			ArtistID:   m.ArtistID,
			AlbumID:    m.AlbumID,
			Length:     m.Length,
			Genre:      m.Genre,
			CoverPath:  m.CoverPath,
			CreatedAt:  m.CreatedAt,
			ArtistName: m.ArtistName,
			AlbumName:  m.AlbumName,
		})
	}
	return json.Marshal(entries)
}

func decodeMediaList(raw []byte) ([]*model.Media, error) {
	var entries []cachedMedia
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	items := make([]*model.Media, 0, len(entries))
	for _, e := range entries {
		items = append(items, &model.Media{
			ID:         e.ID,
			UserID:     e.UserID,
			Title:      e.Title,
			ArtistID:   e.ArtistID,
			AlbumID:    e.AlbumID,
			Length:     e.Length,
			Genre:      e.Genre,
			CoverPath:  e.CoverPath,
			CreatedAt:  e.CreatedAt,
			ArtistName: e.ArtistName,
			AlbumName:  e.AlbumName,
		})
	}
	return items, nil
}

// GetMediaList returns the cached listing for a user. The second return is
// false on a miss or when the cache is disabled.
func GetMediaList(ctx context.Context, userID int64) ([]*model.Media, bool) {
	if db.RedisClient == nil {
		return nil, false
	}

	raw, err := db.RedisClient.Get(ctx, MediaListKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			// Treat any cache failure as a miss; the store stays authoritative.
			return nil, false
		}
		return nil, false
	}

	items, err := decodeMediaList([]byte(raw))
	if err != nil {
		return nil, false
	}
	return items, true
}

// SetMediaList caches a user's media listing.
func SetMediaList(ctx context.Context, userID int64, items []*model.Media) {
	if db.RedisClient == nil {
		return
	}

	raw, err := encodeMediaList(items)
	if err != nil {
		return
	}
	db.RedisClient.Set(ctx, MediaListKey(userID), raw, mediaListTTL)
}

// InvalidateMediaList drops a user's cached listing after any mutation of
// their records or files.
func InvalidateMediaList(ctx context.Context, userID int64) {
	if db.RedisClient == nil {
		return
	}
	db.RedisClient.Del(ctx, MediaListKey(userID))
}
