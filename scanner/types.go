package scanner

import (
	"io"

	"metagallery/types"
)

// ScanOptions defines the options for scanning
type ScanOptions struct {
	FolderPath string
	// WorkDir is the directory init image references resolve against
	WorkDir   string
	DebugMode bool
	// Out receives one notice per skipped image; nil discards them
	Out io.Writer
}

// MetadataSource reads the embedded metadata of the files it accepts
type MetadataSource interface {
	CanReadFile(path string) bool
	ReadMetadata(path string) (types.ImageMetadata, error)
}

// ImageRef identifies a decoded image for the record sinks
type ImageRef struct {
	Dir  string
	Name string
	Path string
	// Seq is the image's position among successfully decoded images, from 1
	Seq int
}

// RecordSink consumes decoded records as the scan produces them
type RecordSink interface {
	AddRecord(img ImageRef, rec types.DecodedRecord) error
}

// SinkFunc adapts a function to RecordSink
type SinkFunc func(img ImageRef, rec types.DecodedRecord) error

// AddRecord implements RecordSink
func (f SinkFunc) AddRecord(img ImageRef, rec types.DecodedRecord) error {
	return f(img, rec)
}

// ProcessImageResult holds the result of processing an image
type ProcessImageResult struct {
	Path    string
	Record  types.DecodedRecord
	Success bool
	Error   error
}

// ScanStats counts what a scan found
type ScanStats struct {
	Found        int // image files with an accepted extension
	Decoded      int
	NoMetadata   int
	Unrecognized int
	Failed       int // files that could not be read at all
}

// Skipped returns the number of images that produced no record
func (s ScanStats) Skipped() int {
	return s.NoMetadata + s.Unrecognized + s.Failed
}
