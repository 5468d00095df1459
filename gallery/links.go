package gallery

import (
	"html/template"
	"net/url"
	"strings"
)

// linkURL turns a local file path into a URL usable in href and src
// attributes. Drive-letter and UNC paths become file URLs; other paths are
// percent-escaped, and a relative path whose first segment contains a colon
// gets a "./" prefix so it is not read as a scheme.
func linkURL(path string) template.URL {
	p := strings.ReplaceAll(path, `\`, "/")

	var u url.URL
	switch {
	case hasDriveLetter(p):
		u = url.URL{Scheme: "file", Path: "/" + p}
	case strings.HasPrefix(p, "//"):
		host, rest, _ := strings.Cut(p[2:], "/")
		u = url.URL{Scheme: "file", Host: host, Path: "/" + rest}
	default:
		u = url.URL{Path: p}
	}
	return template.URL(u.String())
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && (len(p) == 2 || p[2] == '/')
}

// baseName returns the last element of a path written with either separator
func baseName(path string) string {
	p := strings.TrimRight(strings.ReplaceAll(path, `\`, "/"), "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
