package constants

import "time"

// Application constants
const (
	ApplicationName   = "file-manager"
	ApplicationVendor = "koompi"
	ApplicationTitle  = "File Manager"
)

// Interaction constants
const (
	// A second click on the same entry inside this window opens it
	DoubleClickWindow = 500 * time.Millisecond
)

// Cache constants
const (
	ThumbnailSize       = 128
	IconSize            = 48
	IconCacheFileName   = "icon_cache.yaml"
	ThumbnailSubdir     = "thumbnails"
	ThumbnailExtension  = ".png"
	IconThemeFallback   = "hicolor"
	DesktopEntrySuffix  = ".desktop"
	DesktopEntrySection = "Desktop Entry"
)

// Worker constants
const (
	DefaultClassifyWorkers  = 8
	DefaultThumbnailWorkers = 2
	ThumbnailQueueSize      = 64
	SessionEventBufferSize  = 32
)

// Directory watcher constants
const (
	WatcherDebounce   = 300 * time.Millisecond
	WatcherBufferSize = 10
)

// File size constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// File system constants
const (
	RootPath                = "/"
	ApplicationsDirName     = "Applications"
	PartialCopySuffix       = ".part"
	ModifiedTimeLayout      = "2006-01-02 15:04"
	MissingValuePlaceholder = "-"
)

// Configuration constants
const (
	ConfigFileName         = "config.json"
	DefaultSortBy          = "name"
	DefaultSortOrder       = "asc"
	DefaultGroupBy         = "none"
	DefaultShowHiddenFiles = false
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)
