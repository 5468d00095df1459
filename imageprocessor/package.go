// Package imageprocessor reads the embedded generation metadata and pixel size of image files.
package imageprocessor

import "metagallery/types"

// MetadataReader is the interface that all metadata readers must implement
type MetadataReader interface {
	// ReadMetadata returns the embedded command text and pixel size of the image.
	// It returns ErrNoMetadata when the image carries no generation command.
	ReadMetadata(path string) (types.ImageMetadata, error)
}
