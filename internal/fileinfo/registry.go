package fileinfo

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/koompi/file-manager/internal/logging"
)

// DesktopApp is one installed application descriptor.
type DesktopApp struct {
	Name      string
	Source    string
	NoDisplay bool
	Hidden    bool
}

// Visible reports whether the application should appear in menus.
func (a DesktopApp) Visible() bool {
	return !a.NoDisplay && !a.Hidden
}

// ListDesktopApps enumerates descriptors in dirs. The first directory
// defining a file name wins, matching XDG data dir precedence.
func ListDesktopApps(ctx context.Context, dirs []string, locale string) []DesktopApp {
	seen := map[string]bool{}
	var apps []DesktopApp
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if ctx.Err() != nil {
				return apps
			}
			if e.IsDir() || !IsDesktopFile(e.Name()) || seen[e.Name()] {
				continue
			}
			seen[e.Name()] = true
			source := filepath.Join(dir, e.Name())
			entry, err := ParseDesktopFile(source, locale)
			if err != nil {
				logging.Debug("skipping desktop entry", logging.String("path", source), logging.Err(err))
				continue
			}
			apps = append(apps, DesktopApp{
				Name:      entry.Name,
				Source:    source,
				NoDisplay: entry.NoDisplay,
				Hidden:    entry.Hidden,
			})
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Source < apps[j].Source })
	return apps
}

// SetupApplicationsDir ensures appsDir holds one symlink per visible
// application. Existing entries are left untouched. It returns the
// number of links created.
func SetupApplicationsDir(ctx context.Context, appsDir string, apps []DesktopApp) (int, error) {
	if err := os.MkdirAll(appsDir, 0o755); err != nil {
		return 0, err
	}
	created := 0
	for _, app := range apps {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}
		if !app.Visible() {
			continue
		}
		link := filepath.Join(appsDir, filepath.Base(app.Source))
		if _, err := os.Lstat(link); err == nil {
			continue
		}
		if err := os.Symlink(app.Source, link); err != nil {
			logging.Debug("failed to link application", logging.String("source", app.Source), logging.Err(err))
			continue
		}
		created++
	}
	return created, nil
}
