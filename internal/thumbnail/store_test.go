package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/koompi/file-manager/internal/errors"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestCachePathIsDeterministic(t *testing.T) {
	s := NewStore("/cache", 128)
	a := s.CachePath("/photos/holiday.jpg")
	assert.Equal(t, a, s.CachePath("/photos/holiday.jpg"))
	assert.NotEqual(t, a, s.CachePath("/other/holiday.jpg"))
	assert.NotEqual(t, a, NewStore("/cache", 64).CachePath("/photos/holiday.jpg"))

	base := filepath.Base(a)
	assert.True(t, strings.HasPrefix(base, "holiday_"))
	assert.True(t, strings.HasSuffix(base, "_128.png"))
	assert.Len(t, strings.Split(base, "_")[1], 32)
}

func TestCachePathTruncatesOnRuneBoundary(t *testing.T) {
	s := NewStore("/cache", 128)
	long := strings.Repeat("a", 63) + strings.Repeat("é", 8)

	base := filepath.Base(s.CachePath("/photos/" + long + ".jpg"))
	assert.True(t, utf8.ValidString(base))
	assert.True(t, strings.HasPrefix(base, strings.Repeat("a", 63)+"_"))

	base = filepath.Base(s.CachePath("/photos/" + strings.Repeat("日", 30) + ".jpg"))
	assert.True(t, utf8.ValidString(base))
	assert.True(t, strings.HasPrefix(base, strings.Repeat("日", 21)+"_"))
}

func TestGenerateKeepsAspectRatio(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	writePNG(t, src, 256, 128, color.NRGBA{R: 255, A: 255})

	s := NewStore(filepath.Join(dir, "thumbs"), 128)
	res, err := s.GetOrGenerate(context.Background(), src)
	require.NoError(t, err)

	img := decode(t, res.Content())
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	onDisk, err := os.ReadFile(s.CachePath(src))
	require.NoError(t, err)
	assert.Equal(t, res.Content(), onDisk)
}

func TestGenerateDoesNotUpscale(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "icon.png")
	writePNG(t, src, 32, 16, color.NRGBA{G: 255, A: 255})

	res, err := NewStore(dir, 128).GetOrGenerate(context.Background(), src)
	require.NoError(t, err)
	img := decode(t, res.Content())
	assert.Equal(t, image.Pt(32, 16), img.Bounds().Size())
}

func TestFreshCacheReturnedUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 200, 200, color.NRGBA{B: 255, A: 255})

	s := NewStore(filepath.Join(dir, "thumbs"), 128)
	sentinel := []byte("not really a png")
	cachePath := s.CachePath(src)
	require.NoError(t, os.MkdirAll(filepath.Dir(cachePath), 0o755))
	require.NoError(t, os.WriteFile(cachePath, sentinel, 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(cachePath, future, future))

	res, err := s.GetOrGenerate(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, sentinel, res.Content())

	cached, ok := s.Cached(src)
	require.True(t, ok)
	assert.Equal(t, sentinel, cached.Content())
}

func TestStaleCacheRegenerated(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, 64, 64, color.NRGBA{R: 255, A: 255})

	s := NewStore(filepath.Join(dir, "thumbs"), 128)
	_, err := s.GetOrGenerate(context.Background(), src)
	require.NoError(t, err)

	cachePath := s.CachePath(src)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cachePath, past, past))
	writePNG(t, src, 64, 64, color.NRGBA{B: 255, A: 255})

	_, ok := s.Cached(src)
	assert.False(t, ok, "older cache entry must not be served")

	res, err := s.GetOrGenerate(context.Background(), src)
	require.NoError(t, err)
	r, g, b, _ := decode(t, res.Content()).At(10, 10).RGBA()
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.NotZero(t, b)

	info, err := os.Stat(cachePath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(past))
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "thumbs"), 128)

	bogus := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(bogus, []byte("definitely not an image"), 0o644))
	_, err := s.GetOrGenerate(context.Background(), bogus)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecodeFailure))
	_, statErr := os.Stat(s.CachePath(bogus))
	assert.True(t, os.IsNotExist(statErr), "failed decode must not leave a cache file")

	_, err = s.GetOrGenerate(context.Background(), filepath.Join(dir, "missing.png"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeItemNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GetOrGenerate(ctx, bogus)
	assert.ErrorIs(t, err, context.Canceled)
}
