package metadata

import (
	"path/filepath"
	"strings"
)

// NormalizeInitImagePath cleans an init image reference taken from a command
// string: quotes are dropped, both slash styles become the OS separator,
// parent-directory segments are removed and a relative result is placed under
// workDir. An empty reference stays empty.
func NormalizeInitImagePath(raw, workDir string) string {
	p := strings.ReplaceAll(raw, `"`, "")
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	p = strings.ReplaceAll(p, `\`, "/")
	abs := strings.HasPrefix(p, "/")

	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == ".." || seg == "." || seg == "" {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 {
		return ""
	}

	p = filepath.FromSlash(strings.Join(kept, "/"))
	// A rooted reference names a file outside the work dir and is kept as is
	if abs {
		return string(filepath.Separator) + p
	}
	if filepath.VolumeName(p) != "" || workDir == "" {
		return p
	}
	return filepath.Join(workDir, p)
}
