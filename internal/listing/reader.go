// Package listing reads a directory into a classified, ordered snapshot.
package listing

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/koompi/file-manager/internal/constants"
	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/logging"
	"github.com/koompi/file-manager/internal/sorting"
)

// Request describes one directory read.
type Request struct {
	Path       string
	ShowHidden bool
	Options    sorting.Options
	// Filter is a doublestar pattern matched against file names.
	// Directories are never filtered out.
	Filter string
}

// Reader lists directories. It holds no per-read state and is safe for
// concurrent use.
type Reader struct {
	resolver        *fileinfo.Resolver
	classifier      *fileinfo.Classifier
	workers         int
	applicationsDir []string // as configured and with symlinks resolved
}

// NewReader creates a Reader. workers bounds concurrent classifications.
func NewReader(resolver *fileinfo.Resolver, classifier *fileinfo.Classifier, workers int, applicationsDir string) *Reader {
	if resolver == nil {
		resolver = fileinfo.NewResolver(nil, nil)
	}
	if workers <= 0 {
		workers = constants.DefaultClassifyWorkers
	}
	var appsDirs []string
	if applicationsDir != "" {
		appsDirs = append(appsDirs, filepath.Clean(applicationsDir))
		if resolved, err := filepath.EvalSymlinks(applicationsDir); err == nil && resolved != appsDirs[0] {
			appsDirs = append(appsDirs, resolved)
		}
	}
	return &Reader{
		resolver:        resolver,
		classifier:      classifier,
		workers:         workers,
		applicationsDir: appsDirs,
	}
}

// IsApplicationsDir reports whether path is the applications directory.
func (r *Reader) IsApplicationsDir(path string) bool {
	if fileinfo.IsSMBDisplay(path) {
		return false
	}
	path = filepath.Clean(path)
	for _, dir := range r.applicationsDir {
		if path == dir {
			return true
		}
	}
	return false
}

// ReadDir lists req.Path, classifying children concurrently, and returns
// them ordered by req.Options. It fails only when the directory itself
// cannot be read.
func (r *Reader) ReadDir(ctx context.Context, req Request) ([]fileinfo.DirEntry, error) {
	start := time.Now()

	fs, loc, err := r.resolver.Resolve(req.Path)
	if err != nil {
		return nil, apperrors.NewDirectoryUnreadableError(req.Path, err)
	}
	children, err := fs.ReadDir(loc.Native)
	if err != nil {
		return nil, apperrors.NewDirectoryUnreadableError(req.Path, err)
	}

	display := req.Path
	if loc.Scheme == fileinfo.SchemeSMB {
		display = loc.Display
	}
	inApps := r.IsApplicationsDir(req.Path)

	slots := make([]*fileinfo.DirEntry, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, child := range children {
		i, name := i, child.Name()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, ok := r.classifier.Classify(gctx, fileinfo.Child{
				Path:   fileinfo.JoinPath(display, name),
				Native: fs.Join(loc.Native, name),
				FS:     fs,
			}, req.ShowHidden, inApps)
			if ok && keep(entry, req.Filter) {
				slots[i] = &entry
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]fileinfo.DirEntry, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	sorting.Sort(entries, req.Options)

	logging.Debug("directory read",
		logging.String("path", req.Path),
		logging.Int("children", len(children)),
		logging.Int("entries", len(entries)),
		logging.Duration("elapsed", time.Since(start)))
	return entries, nil
}

func keep(entry fileinfo.DirEntry, pattern string) bool {
	if pattern == "" || entry.IsDir {
		return true
	}
	ok, err := doublestar.Match(pattern, entry.Name())
	if err != nil {
		return true
	}
	return ok
}

// ValidFilter reports whether pattern is a usable filter.
func ValidFilter(pattern string) bool {
	return pattern == "" || doublestar.ValidatePattern(pattern)
}
