package metadata

// flacExtractor decodes FLAC files: vorbis comments and METADATA_BLOCK_PICTURE
// via dhowden/tag, stream length via taglib.
type flacExtractor struct{}

func (e *flacExtractor) Tags(path string) (string, string, string, error) {
	return readTagFields(path)
}

func (e *flacExtractor) Duration(path string) (int, error) {
	return taglibDuration(path)
}

func (e *flacExtractor) Cover(path string) ([]byte, error) {
	return readPicture(path)
}
