package fileinfo

import "strings"

// IsHidden reports whether an entry is hidden: a leading dot, or the
// platform hidden attribute where one exists.
func IsHidden(name, path string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return hasHiddenAttribute(path)
}
