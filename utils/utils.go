package utils

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"metagallery/types"
)

// OverrideFlags holds the raw override option values as given on the command line
type OverrideFlags struct {
	Size              string
	Steps             string
	Scale             string
	UseUpscale        string
	UpscaleAmount     string
	UpscaleFaceEnh    string
	IgnoreInputImages bool
}

// OptionWarning reports an override value that was rejected and will be ignored
type OptionWarning struct {
	Flag  string
	Value string
}

func (w *OptionWarning) Error() string {
	return fmt.Sprintf("--%s contains unrecognized value; it will be ignored!", w.Flag)
}

// Flag names of the override options
const (
	FlagSize           = "o-size"
	FlagSteps          = "o-steps"
	FlagScale          = "o-scale"
	FlagUseUpscale     = "o-use-upscaler"
	FlagUpscaleAmount  = "o-upscaler-amount"
	FlagUpscaleFaceEnh = "o-upscaler-face-enh"
)

// ParseOverrides validates the override options. Each rejected value yields a
// warning and is left unset; it never fails the run.
func ParseOverrides(f OverrideFlags) (types.OverrideConfig, []error) {
	o := types.OverrideConfig{IgnoreInputImages: f.IgnoreInputImages}
	var warnings []error

	reject := func(flag, value string) {
		warnings = append(warnings, &OptionWarning{Flag: flag, Value: value})
	}

	if f.Size != "" {
		if w, h, err := ParseSize(f.Size); err != nil {
			reject(FlagSize, f.Size)
		} else {
			o.Width, o.Height = w, h
		}
	}
	if f.Steps != "" {
		if v, err := ParsePositiveInt(f.Steps); err != nil {
			reject(FlagSteps, f.Steps)
		} else {
			o.Steps = v
		}
	}
	if f.Scale != "" {
		if v, err := ParsePositiveFloat(f.Scale); err != nil {
			reject(FlagScale, f.Scale)
		} else {
			o.Scale = v
		}
	}
	if f.UseUpscale != "" {
		if v, err := ParseYesNo(f.UseUpscale); err != nil {
			reject(FlagUseUpscale, f.UseUpscale)
		} else {
			o.UseUpscale = v
		}
	}
	if f.UpscaleAmount != "" {
		if v, err := ParsePositiveFloat(f.UpscaleAmount); err != nil {
			reject(FlagUpscaleAmount, f.UpscaleAmount)
		} else {
			o.UpscaleAmount = v
		}
	}
	if f.UpscaleFaceEnh != "" {
		if v, err := ParseYesNo(f.UpscaleFaceEnh); err != nil {
			reject(FlagUpscaleFaceEnh, f.UpscaleFaceEnh)
		} else {
			o.UpscaleFaceEnhance = v
		}
	}

	return o, warnings
}

// ParseSize splits a WIDTHxHEIGHT value into its two positive integer parts
func ParseSize(s string) (width, height string, err error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return "", "", fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	if width, err = ParsePositiveInt(w); err != nil {
		return "", "", err
	}
	if height, err = ParsePositiveInt(h); err != nil {
		return "", "", err
	}
	return width, height, nil
}

// ParsePositiveInt validates an integer greater than zero and returns it normalized
func ParsePositiveInt(s string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid value '%s', expected an integer greater than 0", s)
	}
	return strconv.Itoa(n), nil
}

// ParsePositiveFloat validates a number greater than zero. The value is
// returned as typed so the prompt file keeps the user's spelling.
func ParsePositiveFloat(s string) (string, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return "", fmt.Errorf("invalid value '%s', expected a number greater than 0", s)
	}
	return s, nil
}

// ParseYesNo accepts "yes" or "no" in any case
func ParseYesNo(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v != "yes" && v != "no" {
		return "", fmt.Errorf("invalid value '%s', expected yes or no", s)
	}
	return v, nil
}

// ResolveDir places a relative directory under base
func ResolveDir(base, dir string) string {
	if filepath.IsAbs(dir) || base == "" {
		return dir
	}
	return filepath.Join(base, dir)
}
