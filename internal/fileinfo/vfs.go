package fileinfo

import (
	"io"
	"os"
	"path/filepath"
)

// Capabilities describes what a provider supports beyond listing.
type Capabilities struct {
	Local    bool // paths are host paths
	Symlinks bool
	Watch    bool
}

// VFS is the filesystem surface the classifier and reader depend on.
// Paths are provider-native.
type VFS interface {
	ReadDir(path string) ([]os.DirEntry, error)
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Readlink(path string) (string, error)
	Open(path string) (io.ReadCloser, error)
	Capabilities() Capabilities
	Join(elem ...string) string
	Base(p string) string
}

// LocalFS implements VFS using the host OS.
type LocalFS struct{}

func (LocalFS) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }
func (LocalFS) Stat(path string) (os.FileInfo, error)      { return os.Stat(path) }
func (LocalFS) Lstat(path string) (os.FileInfo, error)     { return os.Lstat(path) }
func (LocalFS) Readlink(path string) (string, error)       { return os.Readlink(path) }
func (LocalFS) Open(path string) (io.ReadCloser, error)    { return os.Open(path) }
func (LocalFS) Capabilities() Capabilities {
	return Capabilities{Local: true, Symlinks: true, Watch: true}
}
func (LocalFS) Join(elem ...string) string { return filepath.Join(elem...) }
func (LocalFS) Base(p string) string       { return filepath.Base(p) }

// ResolveLink returns the absolute target of the symlink at path.
func ResolveLink(fs VFS, path string) (string, error) {
	target, err := fs.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}
