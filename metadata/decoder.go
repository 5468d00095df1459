package metadata

import (
	"errors"
	"strconv"
	"strings"

	"metagallery/types"
)

// ErrUnrecognizedFormat is returned when a command string matches neither known layout
var ErrUnrecognizedFormat = errors.New("unrecognized metadata format")

// Field markers inside a command string
const (
	markerWidth    = "--W "
	markerHeight   = "--H "
	markerSteps    = "--ddim_steps "
	markerScale    = "--scale "
	markerInitImg  = "--init-img "
	markerStrength = "--strength "
	markerEnd      = " --"

	upscaleStart = " (upscaled "
	upscaleEnd   = ")"

	// faceEnhanceModel appears in the annotation when faces were restored
	faceEnhanceModel = "GFPGAN"

	defaultUpscaleAmount = "2"
	noUpscale            = "no"
)

// Input is everything the decoder needs to know about one image
type Input struct {
	Command     string
	UpscaleText string
	PixelWidth  int
	PixelHeight int
	// WorkDir is the directory relative init image references resolve against
	WorkDir string
}

// Decode extracts the generation settings from an embedded command string
func Decode(in Input) (types.DecodedRecord, error) {
	format := DetectFormat(in.Command)
	prompt, ok := extractPrompt(in.Command, format)
	if !ok {
		return types.DecodedRecord{}, ErrUnrecognizedFormat
	}

	rec := types.DecodedRecord{
		Prompt:       prompt,
		Format:       format,
		Steps:        Between(in.Command, markerSteps, markerEnd),
		Scale:        Between(in.Command, markerScale, markerEnd),
		InitImage:    Between(in.Command, markerInitImg, markerEnd),
		InitStrength: Between(in.Command, markerStrength, markerEnd),
	}

	annotation := Between(in.UpscaleText, upscaleStart, upscaleEnd)
	decodeSize(&rec, in, annotation)
	decodeUpscale(&rec, annotation)
	rec.InitImagePath = NormalizeInitImagePath(rec.InitImage, in.WorkDir)

	return rec, nil
}

// decodeSize fills width and height, inferring them from the pixel size and
// upscale factor when the command does not carry them
func decodeSize(rec *types.DecodedRecord, in Input, annotation string) {
	width, werr := parseDimension(Between(in.Command, markerWidth, markerEnd))
	height, herr := parseDimension(Between(in.Command, markerHeight, markerEnd))

	factor := upscaleFactor(annotation)
	if werr != nil {
		width = InferDimension(in.PixelWidth, factor)
		height = InferDimension(in.PixelHeight, factor)
		rec.Inferred = true
	} else if herr != nil {
		height = InferDimension(in.PixelHeight, factor)
		rec.Inferred = true
	}

	rec.Width = width
	rec.Height = height
}

func decodeUpscale(rec *types.DecodedRecord, annotation string) {
	if annotation == "" {
		rec.UpscaleUsed = false
		rec.UpscaleFactor = noUpscale
		rec.UpscaleAmount = defaultUpscaleAmount
		rec.UpscaleFaceEnhance = false
		return
	}

	rec.UpscaleUsed = true
	rec.UpscaleFactor = annotation
	rec.UpscaleAmount = upscaleAmount(annotation)
	rec.UpscaleFaceEnhance = strings.Contains(annotation, faceEnhanceModel)
}

func parseDimension(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
