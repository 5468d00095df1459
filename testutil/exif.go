// Package testutil builds image fixtures carrying generation metadata in EXIF.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

// EXIF tags the generator writes
const (
	TagUserComment uint16 = 0x9286
	TagXPComment   uint16 = 0x9c9c
	TagXPAuthor    uint16 = 0x9c9d
	TagDescription uint16 = 0x010e
)

// EXIF field types
const (
	TypeByte      uint16 = 1
	TypeASCII     uint16 = 2
	TypeUndefined uint16 = 7
)

// Entry is one IFD entry of a fixture TIFF block
type Entry struct {
	ID    uint16
	Type  uint16
	Value []byte
}

// ASCIIEntry returns a NUL-terminated ASCII entry
func ASCIIEntry(id uint16, s string) Entry {
	return Entry{ID: id, Type: TypeASCII, Value: append([]byte(s), 0)}
}

// UndefinedEntry returns an entry of type UNDEFINED holding val as is
func UndefinedEntry(id uint16, val []byte) Entry {
	return Entry{ID: id, Type: TypeUndefined, Value: val}
}

// UTF16Entry returns a UTF-16LE entry the way Windows XP tags are stored
func UTF16Entry(t *testing.T, id uint16, s string) Entry {
	t.Helper()
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode utf16: %v", err)
	}
	return Entry{ID: id, Type: TypeByte, Value: append(b, 0, 0)}
}

// BuildTiff assembles a little-endian TIFF block holding a single IFD
func BuildTiff(entries ...Entry) []byte {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	const ifdOffset = 8
	dataOffset := ifdOffset + 2 + 12*len(entries) + 4

	var head, data bytes.Buffer
	head.WriteString("II")
	binary.Write(&head, binary.LittleEndian, uint16(42))
	binary.Write(&head, binary.LittleEndian, uint32(ifdOffset))
	binary.Write(&head, binary.LittleEndian, uint16(len(entries)))

	for _, e := range entries {
		binary.Write(&head, binary.LittleEndian, e.ID)
		binary.Write(&head, binary.LittleEndian, e.Type)
		binary.Write(&head, binary.LittleEndian, uint32(len(e.Value)))
		if len(e.Value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.Value)
			head.Write(inline)
			continue
		}
		binary.Write(&head, binary.LittleEndian, uint32(dataOffset+data.Len()))
		data.Write(e.Value)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	binary.Write(&head, binary.LittleEndian, uint32(0))

	return append(head.Bytes(), data.Bytes()...)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

// WriteJPEG writes a JPEG with the TIFF block in an APP1 segment; a nil block writes no EXIF
func WriteJPEG(t *testing.T, dir, name string, w, h int, block []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	raw := buf.Bytes()

	out := raw
	if block != nil {
		payload := append([]byte("Exif\x00\x00"), block...)
		var seg bytes.Buffer
		seg.Write([]byte{0xFF, 0xE1})
		binary.Write(&seg, binary.BigEndian, uint16(len(payload)+2))
		seg.Write(payload)

		out = append([]byte{}, raw[:2]...)
		out = append(out, seg.Bytes()...)
		out = append(out, raw[2:]...)
	}
	return WriteFile(t, dir, name, out)
}

// WritePNG writes a PNG with the TIFF block in an eXIf chunk after IHDR
func WritePNG(t *testing.T, dir, name string, w, h int, block []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	raw := buf.Bytes()

	out := raw
	if block != nil {
		var chunk bytes.Buffer
		binary.Write(&chunk, binary.BigEndian, uint32(len(block)))
		body := append([]byte("eXIf"), block...)
		chunk.Write(body)
		binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(body))

		// signature (8) + IHDR chunk (25)
		const afterIHDR = 33
		out = append([]byte{}, raw[:afterIHDR]...)
		out = append(out, chunk.Bytes()...)
		out = append(out, raw[afterIHDR:]...)
	}
	return WriteFile(t, dir, name, out)
}

// WriteFile writes data to dir/name and returns the path
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
