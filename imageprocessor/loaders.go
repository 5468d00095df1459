package imageprocessor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoMetadata is returned when an image carries none of the recognized metadata tags
var ErrNoMetadata = errors.New("no generation metadata found")

// EXIF tag identifiers the generator writes into its images
const (
	// tagUserComment holds the generation command
	tagUserComment uint16 = 0x9286
	// tagXPComment holds the generation command (UTF-16) in newer images
	tagXPComment uint16 = 0x9c9c
	// tagXPAuthor holds the upscale annotation (UTF-16)
	tagXPAuthor uint16 = 0x9c9d
)

// hasExiftool checks if exiftool is available on the system
func hasExiftool() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newReadError creates a standardized error for metadata reading failures
func newReadError(message, path string, err error) error {
	return fmt.Errorf("%s %s: %w", message, path, err)
}
