//go:build !windows

package fileinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesUserDirs(t *testing.T) {
	home := t.TempDir()
	configDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "Desktop"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(home, "Dokumente"), 0o755))
	dirs := "XDG_DOCUMENTS_DIR=\"$HOME/Dokumente\"\nXDG_MUSIC_DIR=\"$HOME/Musik\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "user-dirs.dirs"), []byte(dirs), 0o644))

	places := Places(home, configDir)

	assert.Equal(t, []Place{
		{Label: "Home", Path: home},
		{Label: "Root", Path: "/"},
		{Label: "Desktop", Path: filepath.Join(home, "Desktop")},
		{Label: "Documents", Path: filepath.Join(home, "Dokumente")},
	}, places)
}

func TestPlacesWithoutUserDirsFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "Downloads"), 0o755))

	places := Places(home, t.TempDir())

	require.Len(t, places, 3)
	assert.Equal(t, "Downloads", places[2].Label)
}
