// Package gallery writes the HTML page showing each image next to its decoded settings.
package gallery

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"metagallery/types"
)

// ThumbHeight is the displayed height of each image, in pixels
const ThumbHeight = 192

// Writer accumulates gallery rows into an HTML document
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
	rows   int
	err    error
	closed bool
}

// Create creates the gallery file at path and writes its header. promptFile
// is the companion prompt file the page links to.
func Create(path, promptFile string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create gallery file %s: %w", path, err)
	}
	g := NewWriter(f, promptFile)
	g.closer = f
	if g.err != nil {
		f.Close()
		return nil, g.err
	}
	return g, nil
}

// NewWriter writes the gallery header to w
func NewWriter(w io.Writer, promptFile string) *Writer {
	g := &Writer{w: bufio.NewWriter(w)}
	g.execute("header", headerData{
		PromptFile: filepath.ToSlash(promptFile),
		PromptHref: linkURL(promptFile),
	})
	return g
}

// Rows returns the number of image rows written so far
func (g *Writer) Rows() int {
	return g.rows
}

// Add writes the row for one image found in dir. seq is the record's
// position among successfully decoded images.
func (g *Writer) Add(dir, file string, rec types.DecodedRecord, seq int) error {
	if g.closed {
		return fmt.Errorf("gallery already closed")
	}

	row := rowData{
		Href:        linkURL(filepath.Join(dir, file)),
		Name:        file,
		ThumbHeight: ThumbHeight,
		Prompt:      rec.Prompt,
		Settings:    Settings(rec, seq),
	}
	if rec.InitImagePath != "" {
		row.InitImage = linkURL(rec.InitImagePath)
		row.InitName = baseName(rec.InitImagePath)
		row.InitStrength = rec.InitStrength
	}

	g.execute("row", row)
	if g.err != nil {
		return g.err
	}
	g.rows++
	return nil
}

// Settings renders the single-line settings summary shown under a prompt
func Settings(rec types.DecodedRecord, seq int) string {
	return fmt.Sprintf("width: %d | height: %d | steps: %s | scale: %s | upscaled: %s | #%d",
		rec.Width, rec.Height, rec.Steps, rec.Scale, rec.UpscaleFactor, seq)
}

// Close writes the footer with the processing time and closes the file.
// Calling Close more than once has no effect.
func (g *Writer) Close(elapsed time.Duration, at time.Time) error {
	if g.closed {
		return g.err
	}
	g.closed = true

	g.execute("footer", footerData{
		Millis: elapsed.Milliseconds(),
		Date:   at.Format("2006-01-02"),
		Time:   at.Format("15:04:05"),
	})
	if err := g.w.Flush(); err != nil && g.err == nil {
		g.err = err
	}
	if g.closer != nil {
		if err := g.closer.Close(); err != nil && g.err == nil {
			g.err = err
		}
	}
	return g.err
}

func (g *Writer) execute(name string, data any) {
	if g.err != nil {
		return
	}
	if err := pageTemplates.ExecuteTemplate(g.w, name, data); err != nil {
		g.err = fmt.Errorf("rendering gallery %s: %w", name, err)
	}
}
