package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		filename string
		want     Format
	}{
		{"song.m4a", FormatM4A},
		{"song.mp3", FormatMP3},
		{"song.flac", FormatFLAC},
		{"song.wav", FormatWAV},
		{"song.aac", FormatAAC},
		{"SONG.MP3", FormatMP3},
		{"Track.FlAc", FormatFLAC},
		{"dir/nested/tune.m4a", FormatM4A},
		{"archive.tar.mp3", FormatMP3},
	}

	for _, c := range cases {
		got, err := Detect(c.filename)
		require.NoError(t, err, c.filename)
		assert.Equal(t, c.want, got, c.filename)
	}
}

func TestDetectUnsupported(t *testing.T) {
	for _, name := range []string{"movie.mkv", "song.ogg", "noext", "song.mp3.txt", ""} {
		_, err := Detect(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestSupportsCover(t *testing.T) {
	assert.True(t, FormatM4A.SupportsCover())
	assert.True(t, FormatMP3.SupportsCover())
	assert.True(t, FormatFLAC.SupportsCover())
	assert.False(t, FormatWAV.SupportsCover())
	assert.False(t, FormatAAC.SupportsCover())
}

func TestSupportsTags(t *testing.T) {
	assert.True(t, FormatM4A.SupportsTags())
	assert.True(t, FormatMP3.SupportsTags())
	assert.True(t, FormatFLAC.SupportsTags())
	assert.False(t, FormatWAV.SupportsTags())
	assert.False(t, FormatAAC.SupportsTags())
}
