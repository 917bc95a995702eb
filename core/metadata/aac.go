package metadata

// aacExtractor handles raw ADTS elementary streams. No tag container exists
// in the stream, so text fields fall back; taglib estimates the duration
// from the frame headers.
type aacExtractor struct{}

func (e *aacExtractor) Tags(path string) (string, string, string, error) {
	return UnknownArtist, UnknownAlbum, UnknownGenre, nil
}

func (e *aacExtractor) Duration(path string) (int, error) {
	return taglibDuration(path)
}

func (e *aacExtractor) Cover(path string) ([]byte, error) {
	return nil, nil
}
