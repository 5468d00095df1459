package imageprocessor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"metagallery/logging"
	"metagallery/types"
)

// ReaderRegistry maintains a registry of metadata readers keyed by file extension
type ReaderRegistry struct {
	readers map[string]MetadataReader
	mutex   sync.RWMutex
}

// NewReaderRegistry creates an empty reader registry
func NewReaderRegistry() *ReaderRegistry {
	return &ReaderRegistry{
		readers: make(map[string]MetadataReader),
	}
}

// NewNativeRegistry creates a registry that reads every supported format in-process
func NewNativeRegistry() *ReaderRegistry {
	registry := NewReaderRegistry()
	native := NewNativeReader()
	for _, ext := range GetSupportedExtensions() {
		registry.RegisterReader(ext, native)
	}
	return registry
}

// NewExiftoolRegistry creates a registry that hands every supported format to exiftool
func NewExiftoolRegistry(reader *ExiftoolReader) *ReaderRegistry {
	registry := NewReaderRegistry()
	for _, ext := range GetSupportedExtensions() {
		registry.RegisterReader(ext, reader)
	}
	logging.DebugLog("Registered exiftool reader for %d extensions", len(registry.readers))
	return registry
}

// RegisterReader registers a new reader for a specific file extension
func (r *ReaderRegistry) RegisterReader(ext string, reader MetadataReader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ext = strings.ToLower(ext)
	r.readers[ext] = reader
}

// GetReader returns the reader registered for the given path's extension
func (r *ReaderRegistry) GetReader(path string) (MetadataReader, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := r.readers[ext]
	return reader, ok
}

// CanReadFile checks if any registered reader can handle the given file
func (r *ReaderRegistry) CanReadFile(path string) bool {
	_, ok := r.GetReader(path)
	return ok
}

// ReadMetadata reads metadata using the appropriate registered reader
func (r *ReaderRegistry) ReadMetadata(path string) (types.ImageMetadata, error) {
	reader, ok := r.GetReader(path)
	if !ok {
		return types.ImageMetadata{}, fmt.Errorf("no suitable reader found for: %s", path)
	}
	return reader.ReadMetadata(path)
}
