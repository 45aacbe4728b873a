package iconcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/koompi/file-manager/internal/constants"
)

// Searcher performs the uncached filesystem lookup of an icon name.
type Searcher interface {
	Search(name string) (string, bool)
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(name string) (string, bool)

func (f SearchFunc) Search(name string) (string, bool) { return f(name) }

var iconExtensions = []string{".png", ".svg", ".xpm"}

// ThemeSearcher looks an icon up in freedesktop icon theme directories
// at a fixed size, then falls back to flat pixmap directories.
type ThemeSearcher struct {
	dirs   []string
	themes []string
	size   int
}

// NewThemeSearcher searches themes in order, always ending with hicolor.
func NewThemeSearcher(dirs, themes []string, size int) *ThemeSearcher {
	ordered := make([]string, 0, len(themes)+1)
	for _, th := range themes {
		if th != "" && th != constants.IconThemeFallback {
			ordered = append(ordered, th)
		}
	}
	ordered = append(ordered, constants.IconThemeFallback)
	return &ThemeSearcher{dirs: dirs, themes: ordered, size: size}
}

// Search resolves name. Absolute names are returned when they exist.
func (s *ThemeSearcher) Search(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if filepath.IsAbs(name) {
		return name, isFile(name)
	}
	// Some descriptors name their icon with an extension
	base := name
	for _, ext := range iconExtensions {
		base = strings.TrimSuffix(base, ext)
	}

	sized := fmt.Sprintf("%dx%d", s.size, s.size)
	for _, theme := range s.themes {
		for _, dir := range s.dirs {
			for _, sub := range []string{sized, "scalable"} {
				for _, ext := range iconExtensions {
					p := filepath.Join(dir, theme, sub, "apps", base+ext)
					if isFile(p) {
						return p, true
					}
				}
			}
		}
	}
	for _, dir := range s.dirs {
		for _, ext := range iconExtensions {
			p := filepath.Join(dir, base+ext)
			if isFile(p) {
				return p, true
			}
		}
	}
	return "", false
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
