package fileinfo

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/koompi/file-manager/internal/constants"
)

// Place is a sidebar shortcut.
type Place struct {
	Label string
	Path  string
}

// userDirs maps labels to their user-dirs.dirs keys and fallbacks.
var userDirs = []struct {
	label, key, fallback string
}{
	{"Desktop", "XDG_DESKTOP_DIR", "Desktop"},
	{"Documents", "XDG_DOCUMENTS_DIR", "Documents"},
	{"Downloads", "XDG_DOWNLOAD_DIR", "Downloads"},
	{"Music", "XDG_MUSIC_DIR", "Music"},
	{"Pictures", "XDG_PICTURES_DIR", "Pictures"},
	{"Videos", "XDG_VIDEOS_DIR", "Videos"},
}

// Places returns Home and Root followed by the user directories that
// exist. configDir holds user-dirs.dirs; empty means $XDG_CONFIG_HOME.
func Places(home, configDir string) []Place {
	places := []Place{{Label: "Home", Path: home}, {Label: "Root", Path: constants.RootPath}}

	overrides := readUserDirs(home, configDir)
	for _, d := range userDirs {
		p, ok := overrides[d.key]
		if !ok {
			p = filepath.Join(home, d.fallback)
		}
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			places = append(places, Place{Label: d.label, Path: p})
		}
	}
	return places
}

func readUserDirs(home, configDir string) map[string]string {
	if configDir == "" {
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			configDir = filepath.Join(home, ".config")
		}
	}
	out := map[string]string{}
	file, err := ini.Load(filepath.Join(configDir, "user-dirs.dirs"))
	if err != nil {
		return out
	}
	for _, key := range file.Section(ini.DefaultSection).Keys() {
		v := strings.Trim(key.String(), `"`)
		v = strings.ReplaceAll(v, "$HOME", home)
		if v == "" || filepath.Clean(v) == filepath.Clean(home) {
			continue
		}
		out[key.Name()] = filepath.Clean(v)
	}
	return out
}
