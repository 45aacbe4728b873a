package fileinfo

import (
	"context"
	"os"

	"fyne.io/fyne/v2"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/logging"
)

// IconResolver maps an icon name to a file path.
type IconResolver interface {
	Resolve(name string) (string, bool)
}

// ThumbnailSource provides thumbnails for image entries.
type ThumbnailSource interface {
	Cached(path string) (fyne.Resource, bool)
	GetOrGenerate(ctx context.Context, path string) (fyne.Resource, error)
}

// ClassifierOptions tunes the optional, more expensive steps.
type ClassifierOptions struct {
	// GenerateThumbnails decodes missing thumbnails inline instead of
	// only picking up fresh cached ones.
	GenerateThumbnails bool
	// SniffArchives reads the head of extensionless files to spot archives.
	SniffArchives bool
	// Locale selects localized desktop entry names.
	Locale string
}

// Classifier turns directory children into DirEntry values. It is safe
// for concurrent use.
type Classifier struct {
	icons  IconResolver
	thumbs ThumbnailSource
	opts   ClassifierOptions
}

// NewClassifier creates a classifier. icons and thumbs may be nil.
func NewClassifier(icons IconResolver, thumbs ThumbnailSource, opts ClassifierOptions) *Classifier {
	return &Classifier{icons: icons, thumbs: thumbs, opts: opts}
}

// Child identifies one entry to classify.
type Child struct {
	Path   string // display path, the entry's identity
	Native string // provider-native path; defaults to Path
	FS     VFS    // defaults to LocalFS
}

// Classify builds the DirEntry for child. It reports false when the entry
// is hidden and showHidden is off. Per-entry failures degrade the entry
// instead of returning an error.
func (c *Classifier) Classify(ctx context.Context, child Child, showHidden, inApplicationsDir bool) (DirEntry, bool) {
	fs := child.FS
	if fs == nil {
		fs = LocalFS{}
	}
	native := child.Native
	if native == "" {
		native = child.Path
	}

	name := BaseName(child.Path)
	if !showHidden && IsHidden(name, native) {
		return DirEntry{}, false
	}

	entry := DirEntry{
		Path:        child.Path,
		DisplayName: norm.NFC.String(name),
	}

	info, err := fs.Stat(native)
	if err != nil {
		logging.Debug("entry metadata unavailable",
			logging.Err(apperrors.NewEntryStatError(child.Path, err)))
	} else {
		entry.IsDir = info.IsDir()
		if !entry.IsDir {
			size := info.Size()
			entry.Size = &size
		}
		modified := info.ModTime()
		entry.Modified = &modified
	}

	if inApplicationsDir && fs.Capabilities().Symlinks {
		c.attachApplication(fs, native, &entry)
	}

	if !entry.IsDir {
		entry.MimeGroup = MimeGroupForPath(name)
		if entry.MimeGroup == "" && c.opts.SniffArchives && entry.SizeOr(0) > 0 {
			entry.MimeGroup = sniffGroup(ctx, fs, native, name)
		}
	}

	if entry.IsImage() && c.thumbs != nil && fs.Capabilities().Local {
		c.attachThumbnail(ctx, &entry)
	}

	return entry, true
}

// ClassifyPath classifies a local path.
func (c *Classifier) ClassifyPath(ctx context.Context, path string, showHidden, inApplicationsDir bool) (DirEntry, bool) {
	return c.Classify(ctx, Child{Path: path}, showHidden, inApplicationsDir)
}

func (c *Classifier) attachApplication(fs VFS, native string, entry *DirEntry) {
	linfo, err := fs.Lstat(native)
	if err != nil || linfo.Mode()&os.ModeSymlink == 0 {
		return
	}
	target, err := ResolveLink(fs, native)
	if err != nil || !IsDesktopFile(target) {
		return
	}
	desktop, err := ParseDesktopFile(target, c.opts.Locale)
	if err != nil {
		logging.Debug("desktop entry parse failed",
			logging.String("path", target), logging.Err(err))
		return
	}

	app := &ApplicationLink{
		OriginalDesktopPath: target,
		IconName:            desktop.Icon,
	}
	if desktop.Icon != "" && c.icons != nil {
		if resolved, ok := c.icons.Resolve(desktop.Icon); ok {
			app.ResolvedIconPath = resolved
		}
	}
	entry.App = app
	entry.DisplayName = norm.NFC.String(desktop.Name)
}

func (c *Classifier) attachThumbnail(ctx context.Context, entry *DirEntry) {
	if res, ok := c.thumbs.Cached(entry.Path); ok {
		entry.Thumbnail = res
		return
	}
	if !c.opts.GenerateThumbnails {
		return
	}
	res, err := c.thumbs.GetOrGenerate(ctx, entry.Path)
	if err != nil {
		logging.Debug("thumbnail unavailable", logging.String("path", entry.Path), logging.Err(err))
		return
	}
	entry.Thumbnail = res
}

func sniffGroup(ctx context.Context, fs VFS, native, name string) string {
	f, err := fs.Open(native)
	if err != nil {
		return ""
	}
	defer f.Close()
	group, _ := SniffArchiveGroup(ctx, name, f)
	return group
}
