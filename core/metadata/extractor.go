package metadata

import (
	"os"
	"time"

	"MyMedia/core/format"
	"MyMedia/logger"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// Fallback values used when a tag field is absent or parsing fails.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownGenre  = "Unknown Genre"
)

// Metadata is the normalized extraction result for one audio file.
type Metadata struct {
	Artist   string
	Album    string
	Genre    string
	Duration int    // Whole seconds, truncated
	Cover    []byte // Raw embedded picture bytes, nil when the file carries none
}

// Defaults returns the all-fallback record.
func Defaults() Metadata {
	return Metadata{
		Artist:   UnknownArtist,
		Album:    UnknownAlbum,
		Genre:    UnknownGenre,
		Duration: 0,
	}
}

// Extractor decodes one container format into tag fields, a stream duration
// and, where the container supports it, embedded cover art.
type Extractor interface {
	Tags(path string) (artist, album, genre string, err error)
	Duration(path string) (int, error)
	Cover(path string) ([]byte, error)
}

// ForFormat selects the extractor variant for a detected format.
func ForFormat(f format.Format) Extractor {
	switch f {
	case format.FormatM4A:
		return &m4aExtractor{}
	case format.FormatMP3:
		return &mp3Extractor{}
	case format.FormatFLAC:
		return &flacExtractor{}
	case format.FormatWAV:
		return &wavExtractor{}
	default:
		return &aacExtractor{}
	}
}

// Extract decodes the file at path as format f and returns the normalized
// record. Extraction never fails: a parse error on the tag container degrades
// the whole record to the defaults, a missing duration degrades to 0 and a
// missing or unreadable picture degrades to no cover. The caller decides what
// a nil cover maps to.
func Extract(path string, f format.Format) Metadata {
	ex := ForFormat(f)

	artist, album, genre, err := ex.Tags(path)
	if err != nil {
		logger.Warn("Tag parsing failed, falling back to defaults",
			logger.String("path", path),
			logger.String("format", string(f)),
			logger.ErrorField(err))
		return Defaults()
	}

	meta := Metadata{Artist: artist, Album: album, Genre: genre}

	if d, err := ex.Duration(path); err != nil {
		logger.Warn("Duration probing failed",
			logger.String("path", path),
			logger.ErrorField(err))
	} else {
		meta.Duration = d
	}

	if f.SupportsCover() {
		cover, err := ex.Cover(path)
		if err != nil {
			logger.Warn("Cover extraction failed",
				logger.String("path", path),
				logger.ErrorField(err))
		} else {
			meta.Cover = cover
		}
	}

	return meta
}

// readTagFields reads artist/album/genre through dhowden/tag, substituting
// the fallback strings for absent fields.
func readTagFields(path string) (string, string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", "", err
	}

	artist := m.Artist()
	if artist == "" {
		artist = UnknownArtist
	}
	album := m.Album()
	if album == "" {
		album = UnknownAlbum
	}
	genre := m.Genre()
	if genre == "" {
		genre = UnknownGenre
	}
	return artist, album, genre, nil
}

// readPicture returns the first embedded picture's bytes, or nil when the
// file carries none.
func readPicture(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	return pic.Data, nil
}

// taglibDuration probes stream properties through taglib and returns the
// length in whole seconds.
func taglibDuration(path string) (int, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return 0, err
	}
	return int(props.Length / time.Second), nil
}
