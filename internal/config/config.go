package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/koompi/file-manager/internal/constants"
	apperrors "github.com/koompi/file-manager/internal/errors"
	"github.com/koompi/file-manager/internal/logging"
)

// Config represents the application configuration
type Config struct {
	UI      UIConfig      `json:"ui"`
	Cache   CacheConfig   `json:"cache"`
	Paths   PathsConfig   `json:"paths"`
	Workers WorkersConfig `json:"workers"`
	Logging LoggingConfig `json:"logging"`
}

// UIConfig represents the initial view settings of a session
type UIConfig struct {
	ShowHiddenFiles    bool       `json:"showHiddenFiles"`
	Sort               SortConfig `json:"sort"`
	GroupBy            string     `json:"groupBy"`            // "none", "type", "mime"
	Filter             string     `json:"filter"`             // doublestar pattern on entry names
	DoubleClickMillis  int        `json:"doubleClickMillis"`  // second-click window
	PrefetchThumbnails bool       `json:"prefetchThumbnails"` // queue image thumbnails after each read
	WatchDirectory     bool       `json:"watchDirectory"`     // re-read on filesystem changes
}

// SortConfig represents file sorting settings
type SortConfig struct {
	SortBy    string `json:"sortBy"`    // "name", "size", "modified", "type"
	SortOrder string `json:"sortOrder"` // "asc", "desc"
}

// CacheConfig locates the icon and thumbnail caches
type CacheConfig struct {
	Dir           string `json:"dir"`
	ThumbnailSize int    `json:"thumbnailSize"`
	IconSize      int    `json:"iconSize"`
}

// PathsConfig lists well-known directories the engine consults
type PathsConfig struct {
	ApplicationsDir string   `json:"applicationsDir"`
	IconThemes      []string `json:"iconThemes"`
	IconDirs        []string `json:"iconDirs"`
	DesktopDirs     []string `json:"desktopDirs"`
}

// WorkersConfig bounds background concurrency
type WorkersConfig struct {
	Classify   int `json:"classify"`
	Thumbnails int `json:"thumbnails"`
}

// LoggingConfig mirrors logging.Config
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// Manager provides configuration loading
type Manager struct {
	configPath string
}

// NewManager creates a manager for the platform config location
func NewManager() *Manager {
	return &Manager{
		configPath: getConfigPath(),
	}
}

// NewManagerWithPath creates a manager reading an explicit file
func NewManagerWithPath(path string) *Manager {
	return &Manager{configPath: path}
}

// Path returns the configuration file location
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration file over the defaults. A missing file
// yields the defaults; a malformed one is an error.
func (m *Manager) Load() (*Config, error) {
	config := getDefaultConfig()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		logging.Debug("config file not found, using defaults",
			logging.String("path", m.configPath), logging.Err(err))
		return config, nil
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, apperrors.NewConfigError("load_config", "error parsing config file", err)
	}

	applyDefaults(config)
	return config, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return getDefaultConfig()
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		UI: UIConfig{
			ShowHiddenFiles: constants.DefaultShowHiddenFiles,
			Sort: SortConfig{
				SortBy:    constants.DefaultSortBy,
				SortOrder: constants.DefaultSortOrder,
			},
			GroupBy:            constants.DefaultGroupBy,
			DoubleClickMillis:  int(constants.DoubleClickWindow.Milliseconds()),
			PrefetchThumbnails: true,
			WatchDirectory:     false,
		},
		Cache: CacheConfig{
			Dir:           getCacheDir(),
			ThumbnailSize: constants.ThumbnailSize,
			IconSize:      constants.IconSize,
		},
		Paths: PathsConfig{
			ApplicationsDir: filepath.Join(home, constants.ApplicationsDirName),
			IconThemes:      []string{constants.IconThemeFallback},
			IconDirs:        defaultIconDirs(home),
			DesktopDirs:     defaultDesktopDirs(home),
		},
		Workers: WorkersConfig{
			Classify:   constants.DefaultClassifyWorkers,
			Thumbnails: constants.DefaultThumbnailWorkers,
		},
		Logging: LoggingConfig{
			Level:  constants.DefaultLogLevel,
			Format: constants.DefaultLogFormat,
		},
	}
}

// applyDefaults repairs zero or unknown values left by a partial file
func applyDefaults(c *Config) {
	d := getDefaultConfig()

	switch c.UI.Sort.SortBy {
	case "name", "size", "modified", "type":
	default:
		c.UI.Sort.SortBy = d.UI.Sort.SortBy
	}
	switch c.UI.Sort.SortOrder {
	case "asc", "desc":
	default:
		c.UI.Sort.SortOrder = d.UI.Sort.SortOrder
	}
	switch c.UI.GroupBy {
	case "none", "type", "mime":
	default:
		c.UI.GroupBy = d.UI.GroupBy
	}
	if c.UI.DoubleClickMillis <= 0 {
		c.UI.DoubleClickMillis = d.UI.DoubleClickMillis
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = d.Cache.Dir
	}
	c.Cache.Dir = ExpandHome(c.Cache.Dir)
	if c.Cache.ThumbnailSize <= 0 {
		c.Cache.ThumbnailSize = d.Cache.ThumbnailSize
	}
	if c.Cache.IconSize <= 0 {
		c.Cache.IconSize = d.Cache.IconSize
	}

	if c.Paths.ApplicationsDir == "" {
		c.Paths.ApplicationsDir = d.Paths.ApplicationsDir
	}
	c.Paths.ApplicationsDir = ExpandHome(c.Paths.ApplicationsDir)
	if len(c.Paths.IconThemes) == 0 {
		c.Paths.IconThemes = d.Paths.IconThemes
	}
	if len(c.Paths.IconDirs) == 0 {
		c.Paths.IconDirs = d.Paths.IconDirs
	}
	if len(c.Paths.DesktopDirs) == 0 {
		c.Paths.DesktopDirs = d.Paths.DesktopDirs
	}
	for i, dir := range c.Paths.IconDirs {
		c.Paths.IconDirs[i] = ExpandHome(dir)
	}
	for i, dir := range c.Paths.DesktopDirs {
		c.Paths.DesktopDirs[i] = ExpandHome(dir)
	}

	if c.Workers.Classify <= 0 {
		c.Workers.Classify = d.Workers.Classify
	}
	if c.Workers.Thumbnails <= 0 {
		c.Workers.Thumbnails = d.Workers.Thumbnails
	}

	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getConfigPath returns the path to the configuration file following OS conventions
func getConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// %APPDATA%\koompi\file-manager\config.json
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, constants.ApplicationVendor, constants.ApplicationName)

	case "darwin":
		// ~/Library/Application Support/koompi/file-manager/config.json
		home, err := os.UserHomeDir()
		if err != nil {
			return constants.ConfigFileName
		}
		configDir = filepath.Join(home, "Library", "Application Support", constants.ApplicationVendor, constants.ApplicationName)

	default:
		// $XDG_CONFIG_HOME/koompi/file-manager/config.json or ~/.config/...
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return constants.ConfigFileName
			}
			xdgConfigHome = filepath.Join(home, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, constants.ApplicationVendor, constants.ApplicationName)
	}

	return filepath.Join(configDir, constants.ConfigFileName)
}

// getCacheDir returns the per-application cache directory
func getCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), constants.ApplicationName)
	}
	return filepath.Join(base, constants.ApplicationVendor, constants.ApplicationName)
}

func defaultIconDirs(home string) []string {
	dirs := []string{}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "icons"), filepath.Join(home, ".icons"))
	}
	for _, dir := range xdgDataDirs() {
		dirs = append(dirs, filepath.Join(dir, "icons"))
	}
	return append(dirs, "/usr/share/pixmaps")
}

func defaultDesktopDirs(home string) []string {
	dirs := []string{}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	for _, dir := range xdgDataDirs() {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}
	return dirs
}

func xdgDataDirs() []string {
	value := os.Getenv("XDG_DATA_DIRS")
	if value == "" {
		return []string{"/usr/local/share", "/usr/share"}
	}
	var dirs []string
	for _, dir := range filepath.SplitList(value) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
