package imageprocessor

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/unicode"
)

// character code prefixes of an EXIF UserComment value
var (
	userCommentASCII     = []byte("ASCII\x00\x00\x00")
	userCommentUnicode   = []byte("UNICODE\x00")
	userCommentUndefined = []byte("\x00\x00\x00\x00\x00\x00\x00\x00")
)

// commandFromExif returns the generation command and upscale annotation
// stored in a decoded EXIF block
func commandFromExif(x *exif.Exif) (command, upscale string) {
	order := binary.ByteOrder(binary.LittleEndian)
	if x.Tiff != nil && x.Tiff.Order != nil {
		order = x.Tiff.Order
	}

	if tag, err := x.Get(exif.UserComment); err == nil {
		command = decodeUserComment(tag, order)
	}
	if command == "" {
		if tag := ifd0Tag(x, tagUserComment); tag != nil {
			command = decodeUserComment(tag, order)
		}
	}
	if command == "" {
		if tag := ifd0Tag(x, tagXPComment); tag != nil {
			command = decodeUTF16(tag.Val, binary.LittleEndian)
		}
	}
	if tag := ifd0Tag(x, tagXPAuthor); tag != nil {
		upscale = decodeUTF16(tag.Val, binary.LittleEndian)
	}
	return command, upscale
}

// ifd0Tag finds a tag by id in the primary image directory
func ifd0Tag(x *exif.Exif, id uint16) *tiff.Tag {
	if x.Tiff == nil || len(x.Tiff.Dirs) == 0 {
		return nil
	}
	for _, tag := range x.Tiff.Dirs[0].Tags {
		if tag.Id == id {
			return tag
		}
	}
	return nil
}

// decodeUserComment handles both ASCII-typed values and UNDEFINED values
// carrying an 8-byte character code prefix
func decodeUserComment(tag *tiff.Tag, order binary.ByteOrder) string {
	if s, err := tag.StringVal(); err == nil {
		return trimText(s)
	}

	val := tag.Val
	switch {
	case bytes.HasPrefix(val, userCommentUnicode):
		return decodeUTF16(val[len(userCommentUnicode):], order)
	case bytes.HasPrefix(val, userCommentASCII):
		val = val[len(userCommentASCII):]
	case bytes.HasPrefix(val, userCommentUndefined) && len(val) > len(userCommentUndefined):
		val = val[len(userCommentUndefined):]
	}
	return trimText(string(val))
}

// decodeUTF16 decodes UTF-16 text, honouring a byte order mark when present
func decodeUTF16(val []byte, order binary.ByteOrder) string {
	endianness := unicode.LittleEndian
	if order == binary.BigEndian {
		endianness = unicode.BigEndian
	}
	decoded, err := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder().Bytes(val)
	if err != nil {
		return ""
	}
	return trimText(string(decoded))
}

func trimText(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
