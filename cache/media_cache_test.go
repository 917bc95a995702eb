package cache

import (
	"database/sql"
	"testing"
	"time"

	"MyMedia/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaListKey(t *testing.T) {
	assert.Equal(t, "media:list:42", MediaListKey(42))
}

// A cache hit must return exactly what a store read would, including the
// fields model.Media hides from its API-facing JSON.
func TestMediaListRoundTripKeepsAllFields(t *testing.T) {
	in := []*model.Media{{
		ID:         7,
		UserID:     1,
		Title:      "song.mp3",
		ArtistID:   2,
		AlbumID:    3,
		Length:     205,
		Genre:      sql.NullString{String: "Jazz", Valid: true},
		CoverPath:  sql.NullString{String: "users_media/id_1_media/song_cover.jpg", Valid: true},
		CreatedAt:  time.Date(2024, 5, 17, 9, 3, 42, 0, time.UTC),
		ArtistName: "Charlie Parker",
		AlbumName:  "Bird and Diz",
	}}

	raw, err := encodeMediaList(in)
	require.NoError(t, err)

	out, err := decodeMediaList(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, in[0], out[0])
	assert.Equal(t, "Jazz", out[0].GenreOrEmpty())
	assert.Equal(t, "users_media/id_1_media/song_cover.jpg", out[0].CoverPathOrEmpty())
}

func TestMediaListRoundTripUnsetOptionalFields(t *testing.T) {
	in := []*model.Media{{
		ID:     8,
		UserID: 1,
		Title:  "tone.wav",
	}}

	raw, err := encodeMediaList(in)
	require.NoError(t, err)

	out, err := decodeMediaList(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.False(t, out[0].Genre.Valid)
	assert.False(t, out[0].CoverPath.Valid)
	assert.Equal(t, "", out[0].GenreOrEmpty())
	assert.Equal(t, "", out[0].CoverPathOrEmpty())
}

func TestMediaListRoundTripEmpty(t *testing.T) {
	raw, err := encodeMediaList(nil)
	require.NoError(t, err)

	out, err := decodeMediaList(raw)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)
}
