package imageprocessor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")

	errChunkNotFound = errors.New("exif chunk not found")
)

// maxExifChunk bounds the size of an EXIF chunk read into memory
const maxExifChunk = 16 << 20

// extractPNGExif returns the payload of the eXIf chunk of a PNG stream
func extractPNGExif(r io.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, fmt.Errorf("reading png signature: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, errors.New("not a png stream")
	}

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errChunkNotFound
			}
			return nil, err
		}
		length := binary.BigEndian.Uint32(header[:4])
		kind := string(header[4:8])

		switch kind {
		case "eXIf":
			if length > maxExifChunk {
				return nil, fmt.Errorf("png exif chunk too large: %d bytes", length)
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("reading png exif chunk: %w", err)
			}
			return data, nil
		case "IEND":
			return nil, errChunkNotFound
		}

		// chunk data plus CRC
		if _, err := io.CopyN(io.Discard, r, int64(length)+4); err != nil {
			return nil, errChunkNotFound
		}
	}
}

// extractWebPExif returns the payload of the EXIF chunk of a WebP (RIFF) stream
func extractWebPExif(r io.Reader) ([]byte, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading riff header: %w", err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return nil, errors.New("not a webp stream")
	}

	chunk := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, errChunkNotFound
		}
		kind := string(chunk[:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		if kind == "EXIF" {
			if size > maxExifChunk {
				return nil, fmt.Errorf("webp exif chunk too large: %d bytes", size)
			}
			data := make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("reading webp exif chunk: %w", err)
			}
			return data, nil
		}

		// chunks are padded to an even size
		skip := int64(size) + int64(size&1)
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, errChunkNotFound
		}
	}
}
