package metadata

import (
	"strings"

	"metagallery/types"
)

const (
	legacyMarker       = "--prompt "
	legacyPromptMarker = `--prompt "`
	quote              = `"`
)

// DetectFormat resolves which known layout the command string uses
func DetectFormat(command string) types.CommandFormat {
	switch {
	case strings.Contains(command, legacyMarker):
		if strings.Contains(command, legacyPromptMarker) {
			return types.FormatLegacy
		}
		// "--prompt " without an opening quote can still be a current-format
		// command whose prompt text happens to contain the marker
		if strings.HasPrefix(command, quote) {
			return types.FormatCurrent
		}
		return types.FormatUnknown
	case strings.HasPrefix(command, quote):
		return types.FormatCurrent
	default:
		return types.FormatUnknown
	}
}

// extractPrompt returns the prompt text for the given layout
func extractPrompt(command string, format types.CommandFormat) (string, bool) {
	var rest string
	switch format {
	case types.FormatLegacy:
		_, after, ok := strings.Cut(command, legacyPromptMarker)
		if !ok {
			return "", false
		}
		rest = after
	case types.FormatCurrent:
		rest = strings.TrimPrefix(command, quote)
	default:
		return "", false
	}

	prompt, _, _ := strings.Cut(rest, quote)
	return prompt, true
}
