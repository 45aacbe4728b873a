package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/koompi/file-manager/internal/config"
	"github.com/koompi/file-manager/internal/constants"
	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/iconcache"
	"github.com/koompi/file-manager/internal/jobs"
	"github.com/koompi/file-manager/internal/listing"
	"github.com/koompi/file-manager/internal/logging"
	"github.com/koompi/file-manager/internal/secret"
	"github.com/koompi/file-manager/internal/session"
	"github.com/koompi/file-manager/internal/sorting"
	"github.com/koompi/file-manager/internal/thumbnail"
	"github.com/koompi/file-manager/internal/watcher"
)

// Global debug flag
var debugMode bool

// FileManager owns the long-lived components behind one session.
type FileManager struct {
	config  *config.Config
	icons   *iconcache.Cache
	thumbs  *thumbnail.Store
	jobs    *jobs.Manager
	runtime *session.Runtime
}

// NewFileManager wires caches, the directory reader and the session
// runtime for startPath.
func NewFileManager(cfg *config.Config, startPath string) (*FileManager, error) {
	locale := fileinfo.LocaleFromEnv()

	store, keyringOK := secret.Open()
	if !keyringOK {
		logging.Debug("keyring unavailable, smb credentials are kept in memory only")
	}
	resolver := fileinfo.NewResolver(nil, fileinfo.NewCredentialCache(store))

	icons := iconcache.Open(
		filepath.Join(cfg.Cache.Dir, constants.IconCacheFileName),
		iconcache.NewThemeSearcher(cfg.Paths.IconDirs, cfg.Paths.IconThemes, cfg.Cache.IconSize),
	)
	thumbs := thumbnail.NewStore(filepath.Join(cfg.Cache.Dir, constants.ThumbnailSubdir), cfg.Cache.ThumbnailSize)

	classifier := fileinfo.NewClassifier(icons, thumbs, fileinfo.ClassifierOptions{
		SniffArchives: true,
		Locale:        locale,
	})
	reader := listing.NewReader(resolver, classifier, cfg.Workers.Classify, cfg.Paths.ApplicationsDir)

	sortOpts, err := sortOptions(cfg)
	if err != nil {
		return nil, err
	}
	s := session.New(startPath, session.Options{
		ShowHidden:         cfg.UI.ShowHiddenFiles,
		Sort:               sortOpts,
		Filter:             cfg.UI.Filter,
		DoubleClickWindow:  time.Duration(cfg.UI.DoubleClickMillis) * time.Millisecond,
		PrefetchThumbnails: cfg.UI.PrefetchThumbnails,
	})

	manager := jobs.NewManager()
	deps := session.Deps{
		Reader:           reader,
		Resolver:         resolver,
		Jobs:             manager,
		Thumbnails:       thumbs,
		ThumbnailWorkers: cfg.Workers.Thumbnails,
		Open:             fileinfo.OpenWithDefaultApp,
	}
	if cfg.UI.WatchDirectory {
		deps.NewWatcher = func(onChange func()) (session.DirectoryWatcher, error) {
			w, err := watcher.NewDirectoryWatcher(constants.WatcherDebounce, onChange)
			if err != nil {
				return nil, err
			}
			return w, nil
		}
	}

	return &FileManager{
		config:  cfg,
		icons:   icons,
		thumbs:  thumbs,
		jobs:    manager,
		runtime: session.NewRuntime(s, deps),
	}, nil
}

// setupApplications links visible desktop applications into the
// applications directory. Failures are logged only.
func (fm *FileManager) setupApplications(ctx context.Context) {
	dir := fm.config.Paths.ApplicationsDir
	if dir == "" {
		return
	}
	apps := fileinfo.ListDesktopApps(ctx, fm.config.Paths.DesktopDirs, fileinfo.LocaleFromEnv())
	created, err := fileinfo.SetupApplicationsDir(ctx, dir, apps)
	if err != nil {
		logging.Warn("applications directory setup failed", logging.String("path", dir), logging.Err(err))
		return
	}
	logging.Debug("applications directory ready",
		logging.String("path", dir), logging.Int("apps", len(apps)), logging.Int("created", created))
}

// Close flushes the icon cache and stops background jobs.
func (fm *FileManager) Close() {
	fm.jobs.Close()
	if err := fm.icons.Close(); err != nil {
		logging.Warn("icon cache not saved", logging.Err(err))
	}
}

func sortOptions(cfg *config.Config) (sorting.Options, error) {
	var opts sorting.Options
	var err error
	if opts.Sort, err = sorting.ParseSortCriteria(cfg.UI.Sort.SortBy); err != nil {
		return opts, err
	}
	if opts.Order, err = sorting.ParseSortOrder(cfg.UI.Sort.SortOrder); err != nil {
		return opts, err
	}
	if opts.Group, err = sorting.ParseGroupCriteria(cfg.UI.GroupBy); err != nil {
		return opts, err
	}
	return opts, nil
}

// resolveStartPath returns a canonical directory to start in.
func resolveStartPath(startPath string) (string, error) {
	if startPath == "" {
		pwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current directory: %w", err)
		}
		startPath = pwd
	}
	if fileinfo.IsSMBDisplay(startPath) {
		return fileinfo.Canonicalize(startPath)
	}
	startPath = config.ExpandHome(startPath)
	if info, err := os.Stat(startPath); err != nil {
		return "", fmt.Errorf("error accessing path '%s': %w", startPath, err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("path '%s' is not a directory", startPath)
	}
	return fileinfo.Canonicalize(startPath)
}

func main() {
	// Parse command line flags
	var startPath, configPath, sortBy, sortOrder, groupBy, filter string
	var showHidden bool
	flag.BoolVar(&debugMode, "d", false, "Enable debug mode")
	flag.StringVar(&startPath, "path", "", "Starting directory path")
	flag.StringVar(&configPath, "config", "", "Configuration file path")
	flag.StringVar(&sortBy, "sort", "", "Sort criteria: name, size, modified, type")
	flag.StringVar(&sortOrder, "order", "", "Sort order: asc, desc")
	flag.StringVar(&groupBy, "group", "", "Grouping: none, type, mime")
	flag.StringVar(&filter, "filter", "", "Only list files matching this pattern")
	flag.BoolVar(&showHidden, "hidden", false, "Show hidden files")
	flag.Parse()

	// If no path specified via flag, check remaining arguments
	if startPath == "" && flag.NArg() > 0 {
		startPath = flag.Arg(0)
	}

	// Load configuration
	configManager := config.NewManager()
	if configPath != "" {
		configManager = config.NewManagerWithPath(configPath)
	}
	cfg, err := configManager.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	applyFlags(cfg, sortBy, sortOrder, groupBy, filter, showHidden)

	level := cfg.Logging.Level
	if debugMode {
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Format: cfg.Logging.Format, OutputPath: cfg.Logging.Output}); err != nil {
		log.Fatalf("Error initializing logging: %v", err)
	}
	defer logging.Sync()

	start, err := resolveStartPath(startPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fm, err := NewFileManager(cfg, start)
	if err != nil {
		log.Fatalf("Error starting file manager: %v", err)
	}
	defer fm.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go fm.setupApplications(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fm.runtime.Run(ctx)
	}()

	home, _ := os.UserHomeDir()
	sh := newShell(fm.runtime, fm.jobs, os.Stdout, home)
	sh.run(ctx, bufio.NewScanner(os.Stdin))

	stop()
	<-done
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cfg *config.Config, sortBy, sortOrder, groupBy, filter string, showHidden bool) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sort":
			cfg.UI.Sort.SortBy = sortBy
		case "order":
			cfg.UI.Sort.SortOrder = sortOrder
		case "group":
			cfg.UI.GroupBy = groupBy
		case "filter":
			cfg.UI.Filter = filter
		case "hidden":
			cfg.UI.ShowHiddenFiles = showHidden
		}
	})
}
