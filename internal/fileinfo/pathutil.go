package fileinfo

import (
	"path"
	"path/filepath"
	"strings"
)

// IsSMBDisplay reports whether the path is a canonical smb display path (smb://...).
func IsSMBDisplay(p string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(p)), "smb://")
}

// JoinPath joins base and name for display paths.
func JoinPath(base, name string) string {
	if IsSMBDisplay(base) {
		return strings.TrimRight(base, "/") + "/" + name
	}
	return filepath.Join(base, name)
}

// ParentPath returns the parent directory of p and whether one exists.
// The filesystem root and an smb share root have no parent.
func ParentPath(p string) (string, bool) {
	if !IsSMBDisplay(p) {
		clean := filepath.Clean(p)
		parent := filepath.Dir(clean)
		return parent, parent != clean
	}
	rest := strings.TrimRight(p[len("smb://"):], "/")
	parts := strings.Split(rest, "/")
	if len(parts) <= 2 {
		return p, false
	}
	return "smb://" + strings.Join(parts[:len(parts)-1], "/"), true
}

// BaseName returns the last path segment analogous to filepath.Base.
func BaseName(p string) string {
	if !IsSMBDisplay(p) {
		return filepath.Base(p)
	}
	rest := strings.TrimSuffix(p[len("smb://"):], "/")
	_, last := path.Split(rest)
	return last
}

// Canonicalize returns an absolute, symlink-free form of a local path.
// SMB display paths are only cleaned.
func Canonicalize(p string) (string, error) {
	if IsSMBDisplay(p) {
		return "smb://" + strings.TrimPrefix(path.Clean("/"+p[len("smb://"):]), "/"), nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
