package fileinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDesktopAppsAndSetup(t *testing.T) {
	root := t.TempDir()
	user := filepath.Join(root, "user")
	system := filepath.Join(root, "system")
	require.NoError(t, os.MkdirAll(user, 0o755))
	require.NoError(t, os.MkdirAll(system, 0o755))

	write := func(dir, name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(user, "editor.desktop", "[Desktop Entry]\nName=My Editor\n")
	write(system, "editor.desktop", "[Desktop Entry]\nName=System Editor\n")
	write(system, "daemon.desktop", "[Desktop Entry]\nName=Daemon\nNoDisplay=true\n")
	write(system, "gone.desktop", "[Desktop Entry]\nName=Gone\nHidden=true\n")
	write(system, "junk.desktop", "garbage")
	write(system, "readme.txt", "[Desktop Entry]\nName=Nope\n")

	apps := ListDesktopApps(context.Background(), []string{user, system, filepath.Join(root, "absent")}, "")
	require.Len(t, apps, 3)
	byName := map[string]DesktopApp{}
	for _, a := range apps {
		byName[a.Name] = a
	}
	assert.Contains(t, byName, "My Editor")
	assert.NotContains(t, byName, "System Editor")
	assert.False(t, byName["Daemon"].Visible())
	assert.False(t, byName["Gone"].Visible())

	appsDir := filepath.Join(root, "Applications")
	created, err := SetupApplicationsDir(context.Background(), appsDir, apps)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	target, err := os.Readlink(filepath.Join(appsDir, "editor.desktop"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, "editor.desktop"), target)

	created, err = SetupApplicationsDir(context.Background(), appsDir, apps)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestPlaces(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "Documents"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(home, "Bilder"), 0o755))
	cfg := filepath.Join(home, ".config")
	require.NoError(t, os.MkdirAll(cfg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg, "user-dirs.dirs"),
		[]byte("# generated\nXDG_PICTURES_DIR=\"$HOME/Bilder\"\nXDG_MUSIC_DIR=\"$HOME/\"\n"), 0o644))

	places := Places(home, cfg)
	var labels []string
	for _, p := range places {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Home", "Root", "Documents", "Pictures"}, labels)
	assert.Equal(t, filepath.Join(home, "Bilder"), places[3].Path)
}
