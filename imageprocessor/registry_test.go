package imageprocessor

import (
	"errors"
	"testing"

	"metagallery/types"
)

type stubReader struct {
	meta types.ImageMetadata
	err  error
}

func (s stubReader) ReadMetadata(string) (types.ImageMetadata, error) {
	return s.meta, s.err
}

func TestNativeRegistry_CanReadFile(t *testing.T) {
	r := NewNativeRegistry()
	for _, name := range []string{"a.jpg", "B.JPEG", "c.png", "d.tif", "e.TIFF", "f.webp"} {
		if !r.CanReadFile(name) {
			t.Errorf("CanReadFile(%q)=false", name)
		}
	}
	for _, name := range []string{"notes.txt", "gallery.css", "noext", "raw.cr2"} {
		if r.CanReadFile(name) {
			t.Errorf("CanReadFile(%q)=true", name)
		}
	}
}

func TestReaderRegistry_Dispatch(t *testing.T) {
	r := NewReaderRegistry()
	r.RegisterReader(".PNG", stubReader{meta: types.ImageMetadata{Command: "png"}})
	r.RegisterReader(".jpg", stubReader{err: ErrNoMetadata})

	meta, err := r.ReadMetadata("x.png")
	if err != nil || meta.Command != "png" {
		t.Fatalf("png dispatch: meta=%+v err=%v", meta, err)
	}
	if _, err := r.ReadMetadata("x.jpg"); !errors.Is(err, ErrNoMetadata) {
		t.Fatalf("jpg dispatch err=%v", err)
	}
	if _, err := r.ReadMetadata("x.gif"); err == nil {
		t.Fatalf("expected error for unregistered extension")
	}
}

func TestGetFileFormat(t *testing.T) {
	cases := map[string]FormatType{
		"a.JPG":  FormatJPEG,
		"a.png":  FormatPNG,
		"a.tiff": FormatTIFF,
		"a.webp": FormatWEBP,
		"a.bmp":  FormatUnknown,
	}
	for name, want := range cases {
		if got := GetFileFormat(name); got != want {
			t.Errorf("GetFileFormat(%q)=%q, want %q", name, got, want)
		}
	}
}
