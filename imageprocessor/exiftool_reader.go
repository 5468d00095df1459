package imageprocessor

import (
	"errors"
	"fmt"

	"github.com/barasher/go-exiftool"

	"metagallery/logging"
	"metagallery/types"
)

// ExiftoolReader reads metadata through a long-running exiftool process
type ExiftoolReader struct {
	et *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool; the caller must Close the reader
func NewExiftoolReader() (*ExiftoolReader, error) {
	if !hasExiftool() {
		return nil, errors.New("exiftool not found in PATH")
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	logging.LogInfo("Started exiftool for metadata extraction")
	return &ExiftoolReader{et: et}, nil
}

// ReadMetadata implements MetadataReader
func (r *ExiftoolReader) ReadMetadata(path string) (types.ImageMetadata, error) {
	if !fileExists(path) {
		return types.ImageMetadata{}, fmt.Errorf("file not accessible: %s", path)
	}

	results := r.et.ExtractMetadata(path)
	if len(results) == 0 {
		return types.ImageMetadata{}, fmt.Errorf("exiftool returned nothing for %s", path)
	}
	fm := results[0]
	if fm.Err != nil {
		return types.ImageMetadata{}, newReadError("exiftool failed on", path, fm.Err)
	}

	var meta types.ImageMetadata
	width, werr := fm.GetInt("ImageWidth")
	height, herr := fm.GetInt("ImageHeight")
	if werr != nil || herr != nil {
		return meta, fmt.Errorf("cannot read image size of %s", path)
	}
	meta.Width, meta.Height = int(width), int(height)

	for _, key := range []string{"UserComment", "XPComment"} {
		if s, err := fm.GetString(key); err == nil && trimText(s) != "" {
			meta.Command = trimText(s)
			break
		}
	}
	if s, err := fm.GetString("XPAuthor"); err == nil {
		meta.UpscaleText = trimText(s)
	}

	if meta.Command == "" {
		return meta, ErrNoMetadata
	}
	return meta, nil
}

// Close stops the exiftool process
func (r *ExiftoolReader) Close() error {
	return r.et.Close()
}
