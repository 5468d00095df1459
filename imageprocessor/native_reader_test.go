package imageprocessor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"metagallery/testutil"
)

func TestNativeReader_JPEGUserComment(t *testing.T) {
	dir := t.TempDir()
	cmd := `"a castle on a hill" --W 512 --H 512 --ddim_steps 30 --scale 7.5`
	path := testutil.WriteJPEG(t, dir, "castle.jpg", 64, 48, testutil.BuildTiff(
		testutil.ASCIIEntry(tagUserComment, cmd),
		testutil.UTF16Entry(t, tagXPAuthor, "AI Art Generator (upscaled 2x via RealESRGAN)"),
	))

	meta, err := NewNativeReader().ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.Width != 64 || meta.Height != 48 {
		t.Fatalf("size=%dx%d, want 64x48", meta.Width, meta.Height)
	}
	if meta.Command != cmd {
		t.Fatalf("command=%q", meta.Command)
	}
	if meta.UpscaleText != "AI Art Generator (upscaled 2x via RealESRGAN)" {
		t.Fatalf("upscale text=%q", meta.UpscaleText)
	}
}

func TestNativeReader_PNGXPComment(t *testing.T) {
	dir := t.TempDir()
	cmd := `--prompt "a lighthouse at dusk" --ddim_steps 50 --scale 10`
	path := testutil.WritePNG(t, dir, "lighthouse.png", 40, 30, testutil.BuildTiff(
		testutil.UTF16Entry(t, tagXPComment, cmd),
	))

	meta, err := NewNativeReader().ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.Width != 40 || meta.Height != 30 {
		t.Fatalf("size=%dx%d, want 40x30", meta.Width, meta.Height)
	}
	if meta.Command != cmd {
		t.Fatalf("command=%q", meta.Command)
	}
	if meta.UpscaleText != "" {
		t.Fatalf("upscale text=%q, want empty", meta.UpscaleText)
	}
}

func TestNativeReader_UserCommentCharacterCode(t *testing.T) {
	dir := t.TempDir()
	val := append([]byte("ASCII\x00\x00\x00"), []byte(`"a red fox" --W 512`)...)
	path := testutil.WriteJPEG(t, dir, "fox.jpg", 16, 16, testutil.BuildTiff(
		testutil.UndefinedEntry(tagUserComment, val),
	))

	meta, err := NewNativeReader().ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.Command != `"a red fox" --W 512` {
		t.Fatalf("command=%q", meta.Command)
	}
}

func TestNativeReader_NoMetadata(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"jpeg without exif":    testutil.WriteJPEG(t, dir, "plain.jpg", 8, 8, nil),
		"png without exif":     testutil.WritePNG(t, dir, "plain.png", 8, 8, nil),
		"exif without command": testutil.WriteJPEG(t, dir, "described.jpg", 8, 8, testutil.BuildTiff(testutil.ASCIIEntry(testutil.TagDescription, "holiday photo"))),
	}
	for name, path := range cases {
		meta, err := NewNativeReader().ReadMetadata(path)
		if !errors.Is(err, ErrNoMetadata) {
			t.Errorf("%s: err=%v, want ErrNoMetadata", name, err)
		}
		if meta.Width != 8 || meta.Height != 8 {
			t.Errorf("%s: size=%dx%d, want 8x8", name, meta.Width, meta.Height)
		}
	}
}

func TestNativeReader_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "broken.jpg", []byte("definitely not a jpeg"))

	_, err := NewNativeReader().ReadMetadata(path)
	if err == nil || errors.Is(err, ErrNoMetadata) {
		t.Fatalf("err=%v, want a read error", err)
	}
}

func TestExtractWebPExif(t *testing.T) {
	block := testutil.BuildTiff(testutil.ASCIIEntry(tagUserComment, `"x" --W 512`))

	var riff bytes.Buffer
	riff.WriteString("RIFF")
	binary.Write(&riff, binary.LittleEndian, uint32(0))
	riff.WriteString("WEBP")
	// an odd-sized chunk to exercise padding
	riff.WriteString("ICCP")
	binary.Write(&riff, binary.LittleEndian, uint32(3))
	riff.Write([]byte{1, 2, 3, 0})
	riff.WriteString("EXIF")
	binary.Write(&riff, binary.LittleEndian, uint32(len(block)))
	riff.Write(block)

	got, err := extractWebPExif(bytes.NewReader(riff.Bytes()))
	if err != nil {
		t.Fatalf("extractWebPExif: %v", err)
	}
	if !bytes.Equal(got, block) {
		t.Fatalf("payload mismatch")
	}
}

func TestExtractWebPExif_Missing(t *testing.T) {
	var riff bytes.Buffer
	riff.WriteString("RIFF")
	binary.Write(&riff, binary.LittleEndian, uint32(0))
	riff.WriteString("WEBP")

	if _, err := extractWebPExif(bytes.NewReader(riff.Bytes())); !errors.Is(err, errChunkNotFound) {
		t.Fatalf("err=%v, want errChunkNotFound", err)
	}
}

func TestDecodeUTF16_BigEndianBOM(t *testing.T) {
	val := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i', 0x00, 0x00}
	if got := decodeUTF16(val, binary.LittleEndian); got != "hi" {
		t.Fatalf("decodeUTF16=%q, want %q", got, "hi")
	}
}
