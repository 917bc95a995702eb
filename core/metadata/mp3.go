package metadata

// mp3Extractor decodes ID3-tagged MPEG streams. Frames (including APIC
// pictures) come from dhowden/tag; taglib reports the stream length.
type mp3Extractor struct{}

func (e *mp3Extractor) Tags(path string) (string, string, string, error) {
	return readTagFields(path)
}

func (e *mp3Extractor) Duration(path string) (int, error) {
	return taglibDuration(path)
}

func (e *mp3Extractor) Cover(path string) ([]byte, error) {
	return readPicture(path)
}
