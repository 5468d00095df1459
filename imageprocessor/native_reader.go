package imageprocessor

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"

	// decoders registered for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"metagallery/logging"
	"metagallery/types"
)

// NativeReader reads pixel sizes and EXIF tags without external tools
type NativeReader struct{}

// NewNativeReader creates a new in-process metadata reader
func NewNativeReader() *NativeReader {
	return &NativeReader{}
}

// ReadMetadata implements MetadataReader
func (r *NativeReader) ReadMetadata(path string) (types.ImageMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ImageMetadata{}, newReadError("cannot open", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return types.ImageMetadata{}, newReadError("cannot read image size of", path, err)
	}
	meta := types.ImageMetadata{Width: cfg.Width, Height: cfg.Height}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return meta, newReadError("cannot rewind", path, err)
	}

	block, err := exifBlock(f, GetFileFormat(path))
	if err != nil {
		logging.DebugLog("No EXIF block in %s: %v", path, err)
		return meta, ErrNoMetadata
	}

	x, err := exif.Decode(block)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		logging.DebugLog("Cannot decode EXIF in %s: %v", path, err)
		return meta, ErrNoMetadata
	}
	if err != nil {
		logging.LogWarning("Partial EXIF in %s: %v", path, err)
	}

	meta.Command, meta.UpscaleText = commandFromExif(x)
	if meta.Command == "" {
		return meta, ErrNoMetadata
	}
	return meta, nil
}

// exifBlock returns a reader positioned on data goexif can decode. JPEG and
// TIFF files are handed over whole; PNG and WebP carry EXIF in a chunk.
func exifBlock(f io.Reader, format FormatType) (io.Reader, error) {
	switch format {
	case FormatJPEG, FormatTIFF:
		return f, nil
	case FormatPNG:
		data, err := extractPNGExif(f)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	case FormatWEBP:
		data, err := extractWebPExif(f)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	default:
		return nil, errors.New("unsupported format")
	}
}
