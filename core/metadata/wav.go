package metadata

// wavExtractor handles RIFF/WAVE files. The container carries no embedded
// tags, so every text field is a fallback; only the duration is probed.
type wavExtractor struct{}

func (e *wavExtractor) Tags(path string) (string, string, string, error) {
	return UnknownArtist, UnknownAlbum, UnknownGenre, nil
}

func (e *wavExtractor) Duration(path string) (int, error) {
	return taglibDuration(path)
}

func (e *wavExtractor) Cover(path string) ([]byte, error) {
	return nil, nil
}
