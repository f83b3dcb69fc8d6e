// Package source defines the identifier of a playable item.
package source

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Kind is the variant of a Source.
type Kind int

const (
	KindFile Kind = iota
	KindURL
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindURL:
		return "Url"
	default:
		return "Unknown"
	}
}

const fileScheme = "file://"

// Source identifies a playable item: a filesystem path or a URL.
// Sources are comparable and can be used as map keys.
type Source struct {
	kind  Kind
	value string
}

// File returns a Source for a filesystem path.
func File(path string) Source {
	return Source{kind: KindFile, value: path}
}

// URL returns a Source for a URI.
func URL(raw string) Source {
	return Source{kind: KindURL, value: raw}
}

// Parse builds a Source from a command-line argument or dropped URI.
// Anything carrying a scheme ("http://", "file://", ...) is a URL, the rest is a path.
func Parse(arg string) Source {
	if i := strings.Index(arg, "://"); i > 0 && !strings.ContainsAny(arg[:i], `/\`) {
		return URL(arg)
	}
	return File(arg)
}

// Kind returns the variant.
func (s Source) Kind() Kind { return s.kind }

// Value returns the raw payload (path or URI).
func (s Source) Value() string { return s.value }

// IsZero reports whether s is the zero Source.
func (s Source) IsZero() bool { return s == Source{} }

// IsFile reports whether s denotes a local file, either directly or through a file:// URL.
func (s Source) IsFile() bool {
	return s.kind == KindFile || strings.HasPrefix(s.value, fileScheme)
}

// IsRemote reports whether resolving s requires a network fetch.
func (s Source) IsRemote() bool {
	return !s.IsFile()
}

// Normalize returns the File equivalent of a file:// URL, and s unchanged otherwise.
// Malformed file URLs are returned unchanged so that resolution reports the error.
func (s Source) Normalize() Source {
	if s.kind != KindURL || !strings.HasPrefix(s.value, fileScheme) {
		return s
	}
	u, err := url.Parse(s.value)
	if err != nil || u.Path == "" {
		return s
	}
	return File(filepath.FromSlash(u.Path))
}

// Path returns the local path for file sources and file:// URLs.
func (s Source) Path() (string, bool) {
	n := s.Normalize()
	if n.kind != KindFile {
		return "", false
	}
	return n.value, true
}

// DisplayName returns a short human-readable name: the file base name
// or the last segment of the URL path.
func (s Source) DisplayName() string {
	if p, ok := s.Path(); ok {
		return filepath.Base(p)
	}
	u, err := url.Parse(s.value)
	if err != nil || u.Path == "" || u.Path == "/" {
		return s.value
	}
	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil {
		return path.Base(u.Path)
	}
	return name
}

// String returns the variant and payload, e.g. File(a.mp3).
func (s Source) String() string {
	return s.kind.String() + "(" + s.value + ")"
}
