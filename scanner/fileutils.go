package scanner

import (
	"time"

	"metagallery/imageprocessor"
)

// IsImageFile checks if a file extension belongs to an image file the scan accepts
func IsImageFile(path string) bool {
	return imageprocessor.IsImageFile(path)
}

// OutputBasename returns the prompt file name for a run started at t
func OutputBasename(t time.Time) string {
	return "gallery_prompts_" + t.Format("2006-01-02") + "_" + t.Format("15-04-05") + ".txt"
}
