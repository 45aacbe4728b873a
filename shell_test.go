package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koompi/file-manager/internal/config"
	"github.com/koompi/file-manager/internal/fileinfo"
)

func newTestShell(t *testing.T, dir string) (*shell, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	cfg.Paths.ApplicationsDir = ""
	cfg.Paths.IconDirs = nil
	cfg.UI.PrefetchThumbnails = false

	start, err := resolveStartPath(dir)
	require.NoError(t, err)
	fm, err := NewFileManager(cfg, start)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fm.runtime.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		fm.Close()
	})

	out := &bytes.Buffer{}
	sh := newShell(fm.runtime, fm.jobs, out, t.TempDir())
	sh.wait(context.Background())
	return sh, out
}

func TestShellListAndNavigate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	sh, out := newTestShell(t, dir)
	ctx := context.Background()

	assert.False(t, sh.exec(ctx, "ls"))
	assert.Contains(t, out.String(), "a.txt")
	assert.Contains(t, out.String(), "sub/")

	out.Reset()
	assert.False(t, sh.exec(ctx, "cd sub"))
	assert.True(t, strings.HasSuffix(sh.rt.Snapshot().CurrentPath, "sub"))
	assert.Contains(t, out.String(), "(empty)")

	assert.False(t, sh.exec(ctx, "back"))
	assert.False(t, strings.HasSuffix(sh.rt.Snapshot().CurrentPath, "sub"))
}

func TestShellFileOperations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	sh, out := newTestShell(t, dir)
	ctx := context.Background()

	sh.exec(ctx, "rename a.txt b.txt")
	assert.FileExists(t, filepath.Join(dir, "b.txt"))

	sh.exec(ctx, "copy b.txt")
	sh.exec(ctx, "cd sub")
	sh.exec(ctx, "paste")
	assert.FileExists(t, filepath.Join(dir, "sub", "b.txt"))
	assert.FileExists(t, filepath.Join(dir, "b.txt"))

	out.Reset()
	sh.exec(ctx, "paste")
	assert.Contains(t, out.String(), "Failed to paste item")

	sh.exec(ctx, "rm b.txt")
	assert.NoFileExists(t, filepath.Join(dir, "sub", "b.txt"))

	out.Reset()
	sh.exec(ctx, "jobs")
	assert.Contains(t, out.String(), "copy")
}

func TestShellViewCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	sh, out := newTestShell(t, dir)
	ctx := context.Background()

	sh.exec(ctx, "hidden")
	assert.Contains(t, out.String(), ".hidden")

	out.Reset()
	sh.exec(ctx, "group type")
	assert.Contains(t, out.String(), "Folders (1)")
	assert.Contains(t, out.String(), "Files (2)")

	out.Reset()
	sh.exec(ctx, "collapse files")
	assert.NotContains(t, out.String(), "a.txt")

	out.Reset()
	sh.exec(ctx, "sort bogus")
	assert.Contains(t, out.String(), "unknown sort criteria")

	assert.True(t, sh.exec(ctx, "quit"))
}

func TestFormatRow(t *testing.T) {
	size := int64(1536)
	mod := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	row := formatRow(fileinfo.DirEntry{
		Path:        "/x/report.pdf",
		DisplayName: "report.pdf",
		Size:        &size,
		Modified:    &mod,
		MimeGroup:   fileinfo.GroupDocuments,
	}, true)

	assert.True(t, strings.HasPrefix(row, "* report.pdf"))
	assert.Contains(t, row, "1.5 KB")
	assert.Contains(t, row, "2024-03-01 09:30")
	assert.Contains(t, row, fileinfo.GroupDocuments)

	dirRow := formatRow(fileinfo.DirEntry{Path: "/x/d", DisplayName: "d", IsDir: true}, false)
	assert.True(t, strings.HasPrefix(dirRow, "  d/"))
}
