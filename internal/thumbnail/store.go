// Package thumbnail keeps downscaled PNG previews of images on disk.
package thumbnail

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"github.com/disintegration/imaging"

	"github.com/koompi/file-manager/internal/constants"
	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/fsutil"
)

const maxStemLength = 64

// Store maps source images to cached thumbnails in dir. A thumbnail is
// fresh while its mtime is not older than the source's. Images are
// fitted inside a size x size square keeping their aspect ratio and are
// never upscaled.
type Store struct {
	dir  string
	size int
}

// NewStore creates a store writing into dir.
func NewStore(dir string, size int) *Store {
	if size <= 0 {
		size = constants.ThumbnailSize
	}
	return &Store{dir: dir, size: size}
}

// Size returns the bounding square edge in pixels.
func (s *Store) Size() int { return s.size }

// CachePath returns the deterministic cache file for src:
// {stem}_{md5(path)}_{size}.png
func (s *Store) CachePath(src string) string {
	abs, err := filepath.Abs(src)
	if err != nil {
		abs = src
	}
	sum := md5.Sum([]byte(abs))
	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	if len(stem) > maxStemLength {
		cut := maxStemLength
		for cut > 0 && !utf8.RuneStart(stem[cut]) {
			cut--
		}
		stem = stem[:cut]
	}
	name := fmt.Sprintf("%s_%s_%d%s", stem, hex.EncodeToString(sum[:]), s.size, constants.ThumbnailExtension)
	return filepath.Join(s.dir, name)
}

// Cached returns the thumbnail for src when a fresh one exists.
func (s *Store) Cached(src string) (fyne.Resource, bool) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return nil, false
	}
	cachePath := s.CachePath(src)
	cacheInfo, err := os.Stat(cachePath)
	if err != nil || cacheInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil, false
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return fyne.NewStaticResource(filepath.Base(cachePath), data), true
}

// GetOrGenerate returns the cached thumbnail for src, regenerating it
// when missing or stale.
func (s *Store) GetOrGenerate(ctx context.Context, src string) (fyne.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res, ok := s.Cached(src); ok {
		return res, nil
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewItemNotFoundError("thumbnail", src)
		}
		return nil, apperrors.NewDecodeError(src, err)
	}
	thumb := imaging.Fit(img, s.size, s.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, apperrors.NewDecodeError(src, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cachePath := s.CachePath(src)
	if err := fsutil.WriteFileAtomic(cachePath, buf.Bytes(), 0o644); err != nil {
		return nil, apperrors.NewCacheIOError("save_thumbnail", cachePath, err)
	}
	return fyne.NewStaticResource(filepath.Base(cachePath), buf.Bytes()), nil
}
