package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"MyMedia/core/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, UnknownArtist, d.Artist)
	assert.Equal(t, UnknownAlbum, d.Album)
	assert.Equal(t, UnknownGenre, d.Genre)
	assert.Equal(t, 0, d.Duration)
	assert.Nil(t, d.Cover)
}

func TestForFormatCoversAllFormats(t *testing.T) {
	for _, f := range []format.Format{
		format.FormatM4A,
		format.FormatMP3,
		format.FormatFLAC,
		format.FormatWAV,
		format.FormatAAC,
	} {
		assert.NotNil(t, ForFormat(f), string(f))
	}
}

// Extraction must degrade, never fail: unparseable bytes come back as the
// all-fallback record with no cover.
func TestExtractCorruptTaggedFile(t *testing.T) {
	for _, name := range []string{"junk.mp3", "junk.m4a", "junk.flac"} {
		f, err := format.Detect(name)
		require.NoError(t, err)

		path := writeTempFile(t, name, []byte("this is not audio data"))
		meta := Extract(path, f)
		assert.Equal(t, Defaults(), meta, name)
	}
}

func TestExtractTaglessFormats(t *testing.T) {
	for _, name := range []string{"tone.wav", "tone.aac"} {
		f, err := format.Detect(name)
		require.NoError(t, err)

		path := writeTempFile(t, name, []byte("not a real stream"))
		meta := Extract(path, f)

		// Formats without embedded tags always report the fallback fields;
		// the unparseable stream degrades duration to zero.
		assert.Equal(t, UnknownArtist, meta.Artist, name)
		assert.Equal(t, UnknownAlbum, meta.Album, name)
		assert.Equal(t, UnknownGenre, meta.Genre, name)
		assert.Equal(t, 0, meta.Duration, name)
		assert.Nil(t, meta.Cover, name)
	}
}

func TestExtractMissingFile(t *testing.T) {
	meta := Extract(filepath.Join(t.TempDir(), "absent.mp3"), format.FormatMP3)
	assert.Equal(t, Defaults(), meta)
}

func TestTaglessExtractorsReportNoCover(t *testing.T) {
	path := writeTempFile(t, "tone.wav", []byte("riff-ish"))

	ex := ForFormat(format.FormatWAV)
	cover, err := ex.Cover(path)
	require.NoError(t, err)
	assert.Nil(t, cover)
}
