package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"metagallery/imageprocessor"
	"metagallery/logging"
	"metagallery/metadata"
)

// ScanDirectory lists the images directly inside options.FolderPath, decodes
// the generation metadata of each one and forwards every record to the sinks.
// Images that cannot be decoded are reported and skipped; only listing and
// sink errors end the scan early.
func ScanDirectory(options ScanOptions, source MetadataSource, sinks ...RecordSink) (ScanStats, error) {
	var stats ScanStats
	out := options.Out
	if out == nil {
		out = io.Discard
	}

	entries, err := os.ReadDir(options.FolderPath)
	if err != nil {
		return stats, fmt.Errorf("cannot list %s: %w", options.FolderPath, err)
	}

	if options.DebugMode {
		logging.DebugLog("Starting metadata scan on folder: %s (%d entries)", options.FolderPath, len(entries))
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !IsImageFile(name) || !source.CanReadFile(name) {
			continue
		}
		stats.Found++

		path := filepath.Join(options.FolderPath, name)
		result := processImage(source, path, options.WorkDir)

		if !result.Success {
			reportSkip(out, &stats, name, result.Error)
			logging.LogImageProcessed(path, false, result.Error.Error())
			continue
		}

		stats.Decoded++
		logging.LogImageProcessed(path, true, "")
		if options.DebugMode {
			logging.DebugLog("Decoded %s (%s format): %dx%d steps=%q scale=%q upscale=%q",
				name, result.Record.Format, result.Record.Width, result.Record.Height,
				result.Record.Steps, result.Record.Scale, result.Record.UpscaleFactor)
		}

		ref := ImageRef{Dir: options.FolderPath, Name: name, Path: path, Seq: stats.Decoded}
		for _, sink := range sinks {
			if err := sink.AddRecord(ref, result.Record); err != nil {
				return stats, fmt.Errorf("writing record for %s: %w", name, err)
			}
		}
	}

	return stats, nil
}

// processImage reads and decodes a single image. A panic inside a reader is
// turned into an error so one bad file cannot end the batch.
func processImage(source MetadataSource, path, workDir string) (result ProcessImageResult) {
	result.Path = path

	defer func() {
		if r := recover(); r != nil {
			stackTrace := debug.Stack()
			logging.LogError("Panic while reading metadata: %v, file: %s\nStack trace: %s", r, path, string(stackTrace))
			result.Success = false
			result.Error = fmt.Errorf("panic while reading metadata: %v", r)
		}
	}()

	meta, err := source.ReadMetadata(path)
	if err != nil {
		result.Error = err
		return result
	}

	rec, err := metadata.Decode(metadata.Input{
		Command:     meta.Command,
		UpscaleText: meta.UpscaleText,
		PixelWidth:  meta.Width,
		PixelHeight: meta.Height,
		WorkDir:     workDir,
	})
	if err != nil {
		result.Error = err
		return result
	}

	result.Record = rec
	result.Success = true
	return result
}

// reportSkip prints the user-facing reason an image was skipped and counts it
func reportSkip(out io.Writer, stats *ScanStats, name string, err error) {
	switch {
	case errors.Is(err, imageprocessor.ErrNoMetadata):
		stats.NoMetadata++
		fmt.Fprintf(out, "   Couldn't find any metadata in %s, skipping...\n", name)
	case errors.Is(err, metadata.ErrUnrecognizedFormat):
		stats.Unrecognized++
		fmt.Fprintf(out, "   Unexpected metadata format in %s, skipping...\n", name)
	default:
		stats.Failed++
		fmt.Fprintf(out, "   Couldn't read %s (%v), skipping...\n", name, err)
	}
}
