// Package session holds the navigation state of one file-manager view
// and the event loop that drives it.
package session

import (
	"sort"
	"time"

	"github.com/koompi/file-manager/internal/constants"
	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/sorting"
)

// ClipboardAction says what Paste does with the staged item.
type ClipboardAction int

const (
	ClipboardCopy ClipboardAction = iota
	ClipboardCut
)

func (a ClipboardAction) String() string {
	if a == ClipboardCut {
		return "cut"
	}
	return "copy"
}

// ClipboardItem is a staged path awaiting Paste.
type ClipboardItem struct {
	Path   string
	Action ClipboardAction
}

// errorKind tags the session error with the operation that raised it.
type errorKind int

const (
	errNone errorKind = iota
	errRead
	errNavigate
	errOpen
	errDelete
	errPaste
	errRename
	errClipboard
)

// Options configures a new Session.
type Options struct {
	ShowHidden         bool
	Sort               sorting.Options
	Filter             string
	DoubleClickWindow  time.Duration
	PrefetchThumbnails bool
	// Now overrides the clock used for double-click detection.
	Now func() time.Time
}

type click struct {
	path string
	at   time.Time
}

// Session is the live state of one view. It is not safe for concurrent
// use; a Runtime serializes access to it.
type Session struct {
	currentPath  string
	history      []string
	historyIndex int

	entries  []fileinfo.DirEntry
	err      string
	errKind  errorKind
	loading  bool
	selected string

	renamingPath string
	renameInput  string

	clipboard *ClipboardItem

	showHidden bool
	sort       sorting.Options
	filter     string
	collapsed  map[string]bool

	readToken uint64
	// navToken identifies the latest navigation; older resolutions are dropped.
	navToken  uint64
	lastClick click

	doubleClick time.Duration
	prefetch    bool
	now         func() time.Time
}

// New creates a session positioned at start, which must already be a
// canonical directory path. Call Start to obtain the initial read.
func New(start string, opts Options) *Session {
	if opts.DoubleClickWindow <= 0 {
		opts.DoubleClickWindow = constants.DoubleClickWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		currentPath: start,
		history:     []string{start},
		showHidden:  opts.ShowHidden,
		sort:        opts.Sort,
		filter:      opts.Filter,
		collapsed:   make(map[string]bool),
		doubleClick: opts.DoubleClickWindow,
		prefetch:    opts.PrefetchThumbnails,
		now:         opts.Now,
	}
}

// Start returns the read of the starting directory.
func (s *Session) Start() []Command {
	return []Command{s.readCurrent()}
}

func (s *Session) CurrentPath() string          { return s.currentPath }
func (s *Session) HistoryIndex() int            { return s.historyIndex }
func (s *Session) Entries() []fileinfo.DirEntry { return s.entries }
func (s *Session) Error() string                { return s.err }
func (s *Session) SelectedPath() string         { return s.selected }
func (s *Session) RenamingPath() string         { return s.renamingPath }
func (s *Session) RenameInput() string          { return s.renameInput }
func (s *Session) ShowHidden() bool             { return s.showHidden }
func (s *Session) SortOptions() sorting.Options { return s.sort }
func (s *Session) Filter() string               { return s.filter }
func (s *Session) Loading() bool                { return s.loading }

// IsCollapsed reports whether groupID is collapsed.
func (s *Session) IsCollapsed(groupID string) bool {
	return s.collapsed[groupID]
}

// History returns a copy of the visited paths.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Clipboard returns the staged item, if any.
func (s *Session) Clipboard() (ClipboardItem, bool) {
	if s.clipboard == nil {
		return ClipboardItem{}, false
	}
	return *s.clipboard, true
}

func (s *Session) CanGoBack() bool    { return s.historyIndex > 0 }
func (s *Session) CanGoForward() bool { return s.historyIndex < len(s.history)-1 }

// Entry returns the listed entry with the given path.
func (s *Session) Entry(path string) (fileinfo.DirEntry, bool) {
	if i := s.indexOf(path); i >= 0 {
		return s.entries[i], true
	}
	return fileinfo.DirEntry{}, false
}

func (s *Session) indexOf(path string) int {
	for i := range s.entries {
		if s.entries[i].Path == path {
			return i
		}
	}
	return -1
}

// Snapshot is an immutable copy of the session for renderers.
type Snapshot struct {
	CurrentPath     string
	History         []string
	HistoryIndex    int
	CanGoBack       bool
	CanGoForward    bool
	Entries         []fileinfo.DirEntry
	Error           string
	Loading         bool
	SelectedPath    string
	RenamingPath    string
	RenameInput     string
	Clipboard       *ClipboardItem
	ShowHidden      bool
	Sort            sorting.Options
	Filter          string
	CollapsedGroups []string
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentPath:  s.currentPath,
		History:      s.History(),
		HistoryIndex: s.historyIndex,
		CanGoBack:    s.CanGoBack(),
		CanGoForward: s.CanGoForward(),
		Entries:      append([]fileinfo.DirEntry(nil), s.entries...),
		Error:        s.err,
		Loading:      s.loading,
		SelectedPath: s.selected,
		RenamingPath: s.renamingPath,
		RenameInput:  s.renameInput,
		ShowHidden:   s.showHidden,
		Sort:         s.sort,
		Filter:       s.filter,
	}
	if s.clipboard != nil {
		item := *s.clipboard
		snap.Clipboard = &item
	}
	for id, on := range s.collapsed {
		if on {
			snap.CollapsedGroups = append(snap.CollapsedGroups, id)
		}
	}
	sort.Strings(snap.CollapsedGroups)
	return snap
}

// Groups partitions the snapshot entries by the active group criteria.
func (s Snapshot) Groups() []sorting.Group {
	return sorting.Partition(s.Entries, s.Sort.Group)
}

// IsCollapsed reports whether groupID is collapsed.
func (s Snapshot) IsCollapsed(groupID string) bool {
	for _, id := range s.CollapsedGroups {
		if id == groupID {
			return true
		}
	}
	return false
}
