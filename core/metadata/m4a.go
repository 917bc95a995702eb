package metadata

import (
	"fmt"
	"os"

	mp4 "github.com/abema/go-mp4"
)

// m4aExtractor decodes MP4 containers. Tag atoms and embedded art come from
// dhowden/tag; the duration comes from probing the mvhd box directly.
type m4aExtractor struct{}

func (e *m4aExtractor) Tags(path string) (string, string, string, error) {
	return readTagFields(path)
}

func (e *m4aExtractor) Duration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := mp4.Probe(f)
	if err != nil {
		return 0, fmt.Errorf("failed to probe mp4 container: %w", err)
	}
	if info.Timescale == 0 {
		return 0, nil
	}
	return int(info.Duration / uint64(info.Timescale)), nil
}

func (e *m4aExtractor) Cover(path string) ([]byte, error) {
	return readPicture(path)
}
