// Package prompts writes decoded records as a batch prompt file for the art generator.
package prompts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"metagallery/types"
)

const (
	rule        = "# *******************************************************************************"
	sectionRule = "***********************************************"
	trailerRule = "****************************************"
)

// Writer accumulates prompt blocks into a prompt file
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
	name   string
	o      types.OverrideConfig
	count  int
	err    error
	closed bool
}

// Create creates the prompt file at path and writes its header
func Create(path string, o types.OverrideConfig) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create prompt file %s: %w", path, err)
	}
	p := NewWriter(f, filepath.Base(path), o)
	p.closer = f
	if p.err != nil {
		f.Close()
		return nil, p.err
	}
	return p, nil
}

// NewWriter writes the prompt file header to w. name is the file name used in
// the usage banner.
func NewWriter(w io.Writer, name string, o types.OverrideConfig) *Writer {
	p := &Writer{
		w:    bufio.NewWriter(w),
		name: name,
		o:    o,
	}
	p.writeHeader()
	return p
}

// Count returns the number of prompt blocks written so far
func (p *Writer) Count() int {
	return p.count
}

func (p *Writer) writeHeader() {
	p.line(rule)
	p.line("# Run this from the main ai-art-generator directory with:")
	p.line("# python make_art.py prompts/generated/" + p.name)
	p.line("# See docs for settings info: https://github.com/rbbrdckybk/ai-art-generator#usage")
	p.line("# This prompt file generated by metagallery")
	p.line(rule)
	p.line("[subjects]\n")
	p.line("!PROCESS = stablediff")
	p.line("!SD_LOW_MEMORY = no            # change to yes if you need the low-memory version")
	p.line("!UPSCALE_KEEP_ORG = yes        # keep original when upscaling?")
	p.line("!SAMPLES = 3                   # default 3 images per prompt, change if desired")
	p.line("!REPEAT = yes")

	if !p.o.Any() {
		return
	}

	p.line("\n# these options were passed as override arguments")
	p.line("# they will not be set individually for prompts below")
	if p.o.HasSize() {
		p.directive("WIDTH", p.o.Width)
		p.directive("HEIGHT", p.o.Height)
	}
	if p.o.Steps != "" {
		p.directive("STEPS", p.o.Steps)
	}
	if p.o.Scale != "" {
		p.directive("SCALE", p.o.Scale)
	}
	if p.o.UseUpscale != "" {
		p.directive("USE_UPSCALE", p.o.UseUpscale)
	}
	if p.o.UpscaleAmount != "" {
		p.directive("UPSCALE_AMOUNT", p.o.UpscaleAmount)
	}
	if p.o.UpscaleFaceEnhance != "" {
		p.directive("UPSCALE_FACE_ENH", p.o.UpscaleFaceEnhance)
	}
}

// Add writes one prompt block. Settings fixed by an override are left out.
func (p *Writer) Add(rec types.DecodedRecord) error {
	if p.closed {
		return fmt.Errorf("prompt file %s already closed", p.name)
	}

	p.line(fmt.Sprintf("\n# %s [ prompt %d ] %s\n", sectionRule, p.count+1, sectionRule))
	wrote := false

	if !p.o.HasSize() {
		p.directive("WIDTH", fmt.Sprint(rec.Width))
		p.directive("HEIGHT", fmt.Sprint(rec.Height))
		wrote = true
	}
	if p.o.Steps == "" {
		p.directive("STEPS", rec.Steps)
		wrote = true
	}
	if p.o.Scale == "" {
		p.directive("SCALE", rec.Scale)
		wrote = true
	}

	if rec.HasInitImage() {
		wrote = true
		if !p.o.IgnoreInputImages {
			p.directive("INPUT_IMAGE", rec.InitImage)
			p.directive("STRENGTH", rec.InitStrength)
		} else {
			p.line("# original input image settings below overridden via --ignore-input-images")
			p.line("# these are here for reference but will not be used:")
			p.line("# !INPUT_IMAGE = " + rec.InitImage)
			p.line("# !STRENGTH = " + rec.InitStrength)
		}
	}

	if p.o.UseUpscale == "" {
		p.directive("USE_UPSCALE", yesNo(rec.UpscaleUsed))
		wrote = true
	}
	if rec.UpscaleUsed || p.o.UseUpscale == "yes" {
		if p.o.UpscaleAmount == "" {
			p.directive("UPSCALE_AMOUNT", rec.UpscaleAmount)
			wrote = true
		}
		if p.o.UpscaleFaceEnhance == "" {
			p.directive("UPSCALE_FACE_ENH", yesNo(rec.UpscaleFaceEnhance))
			wrote = true
		}
	}

	if wrote {
		p.line("")
	}
	p.line(rec.Prompt)

	if p.err != nil {
		return p.err
	}
	p.count++
	return nil
}

// Close writes the trailer sections and closes the underlying file.
// Calling Close more than once has no effect.
func (p *Writer) Close() error {
	if p.closed {
		return p.err
	}
	p.closed = true

	p.line(fmt.Sprintf("\n# %s [ end of generated prompts ] %s", trailerRule, trailerRule))

	p.line("\n\n" + rule)
	p.line("# feel free to add additional styles")
	p.line("# all possible combinations of the styles below and prompts above will be generated")
	p.line(rule)
	p.line("[styles]")
	p.line(",")

	p.line("\n\n" + rule)
	p.line("# optional - prefix")
	p.line("# add a prefix and it'll be inserted at the start of all prompts")
	p.line(rule)
	p.line("[prefixes]\n")

	p.line("\n" + rule)
	p.line("# optional - suffix")
	p.line("# add a suffix and it'll be inserted at the end of all prompts")
	p.line(rule)
	p.line("[suffixes]\n")

	if err := p.w.Flush(); err != nil && p.err == nil {
		p.err = err
	}
	if p.closer != nil {
		if err := p.closer.Close(); err != nil && p.err == nil {
			p.err = err
		}
	}
	return p.err
}

func (p *Writer) directive(key, value string) {
	p.line("!" + key + " = " + value)
}

// line writes text followed by a newline; the first error sticks
func (p *Writer) line(text string) {
	if p.err != nil {
		return
	}
	if _, err := p.w.WriteString(text + "\n"); err != nil {
		p.err = err
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
