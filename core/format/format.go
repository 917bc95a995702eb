package format

import (
	"errors"
	"path/filepath"
	"strings"
)

// Format identifies one of the supported audio container formats.
type Format string

const (
	FormatM4A  Format = "m4a"  // MP4 container, tag atoms
	FormatMP3  Format = "mp3"  // ID3-tagged MPEG frames
	FormatFLAC Format = "flac" // Vorbis comment + picture blocks
	FormatWAV  Format = "wav"  // RIFF, no embedded tags
	FormatAAC  Format = "aac"  // ADTS elementary stream
)

// ErrUnsupportedFormat is returned when a filename's extension does not map
// to any supported container format.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var byExtension = map[string]Format{
	".m4a":  FormatM4A,
	".mp3":  FormatMP3,
	".flac": FormatFLAC,
	".wav":  FormatWAV,
	".aac":  FormatAAC,
}

// Detect maps a filename to its container format by extension, case-insensitive.
// Detection is purely extension based; the file content is never inspected.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := byExtension[ext]
	if !ok {
		return "", ErrUnsupportedFormat
	}
	return f, nil
}

// SupportsCover reports whether the format can carry embedded cover art.
func (f Format) SupportsCover() bool {
	switch f {
	case FormatM4A, FormatMP3, FormatFLAC:
		return true
	default:
		return false
	}
}

// SupportsTags reports whether the format can carry embedded text tags.
func (f Format) SupportsTags() bool {
	switch f {
	case FormatM4A, FormatMP3, FormatFLAC:
		return true
	default:
		return false
	}
}
