package sidecar

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// PathStyle selects how sidecar names are derived from image names.
type PathStyle int

const (
	// Appended names the sidecar photo.jpg.xmp.
	Appended PathStyle = iota
	// Replaced names the sidecar photo.xmp.
	Replaced
	// Both tries the appended name first, then the replaced one.
	Both
)

var styleNames = map[string]PathStyle{
	"appended": Appended,
	"replaced": Replaced,
	"both":     Both,
}

func (s PathStyle) String() string {
	for name, style := range styleNames {
		if style == s {
			return name
		}
	}
	return fmt.Sprintf("PathStyle(%d)", int(s))
}

// ParseStyle parses "appended", "replaced" or "both".
func ParseStyle(s string) (PathStyle, error) {
	style, ok := styleNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Appended, fmt.Errorf("unknown sidecar style %q", s)
	}
	return style, nil
}

// Paths returns the candidate sidecar paths for an image, in lookup order.
func Paths(imagePath string, style PathStyle) []string {
	appended := imagePath + ".xmp"
	replaced := strings.TrimSuffix(imagePath, path.Ext(imagePath)) + ".xmp"

	switch style {
	case Replaced:
		return []string{replaced}
	case Both:
		if replaced == appended {
			return []string{appended}
		}
		return []string{appended, replaced}
	default:
		return []string{appended}
	}
}

// Find returns the first candidate sidecar that exists in fsys.
func Find(fsys fs.FS, imagePath string, style PathStyle) (string, bool) {
	for _, p := range Paths(imagePath, style) {
		if info, err := fs.Stat(fsys, p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
