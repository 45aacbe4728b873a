package session

import (
	"fmt"

	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/listing"
	"github.com/koompi/file-manager/internal/logging"
)

// Update applies one event and returns the work it dispatches. It never
// blocks and never performs I/O.
func (s *Session) Update(ev Event) []Command {
	switch e := ev.(type) {
	// navigation
	case Navigate:
		s.cancelRename()
		s.navToken++
		return []Command{ResolveTarget{Token: s.navToken, Path: e.Path}}
	case TargetResolved:
		return s.onTargetResolved(e)
	case GoUp:
		s.cancelRename()
		s.navToken++
		parent, ok := fileinfo.ParentPath(s.currentPath)
		if !ok {
			return nil
		}
		return s.navigateTo(parent)
	case GoBack:
		s.cancelRename()
		s.navToken++
		if !s.CanGoBack() {
			return nil
		}
		s.historyIndex--
		return s.jumpToHistory()
	case GoForward:
		s.cancelRename()
		s.navToken++
		if !s.CanGoForward() {
			return nil
		}
		s.historyIndex++
		return s.jumpToHistory()
	case ToggleHiddenFiles:
		s.cancelRename()
		s.showHidden = !s.showHidden
		return []Command{s.readCurrent()}
	case Refresh:
		if s.renamingPath != "" {
			return nil
		}
		return []Command{s.readCurrent()}

	// selection
	case ItemClicked:
		return s.onItemClicked(e.Path)

	// file operations
	case DeleteItem:
		s.cancelRename()
		return []Command{DeletePath{Path: e.Path}}
	case ItemDeleted:
		s.selected = ""
		if e.Err != nil {
			s.setError(errDelete, fmt.Sprintf("Failed to delete item: %v", e.Err))
			return nil
		}
		if s.clipboard != nil && s.clipboard.Path == e.Path {
			s.clipboard = nil
		}
		return []Command{s.readCurrent()}
	case CopyItem:
		s.clipboard = &ClipboardItem{Path: e.Path, Action: ClipboardCopy}
		return nil
	case CutItem:
		s.clipboard = &ClipboardItem{Path: e.Path, Action: ClipboardCut}
		return nil
	case Paste:
		if s.clipboard == nil {
			s.setError(errClipboard, "Clipboard is empty.")
			return nil
		}
		s.clearError(errClipboard)
		return []Command{PasteItem{Item: *s.clipboard, DestDir: s.currentPath}}
	case PasteCompleted:
		if e.Err != nil {
			s.setError(errPaste, fmt.Sprintf("Failed to paste item: %v", e.Err))
			return nil
		}
		if e.Item.Action == ClipboardCut && s.clipboard != nil && *s.clipboard == e.Item {
			s.clipboard = nil
		}
		return []Command{s.readCurrent()}
	case StartRename:
		if s.indexOf(e.Path) < 0 {
			return nil
		}
		s.renamingPath = e.Path
		s.renameInput = fileinfo.BaseName(e.Path)
		return nil
	case RenameInputChanged:
		if s.renamingPath != "" {
			s.renameInput = e.Value
		}
		return nil
	case CancelRename:
		s.cancelRename()
		return nil
	case ConfirmRename:
		if s.renamingPath == "" {
			return nil
		}
		path, name := s.renamingPath, s.renameInput
		s.cancelRename()
		if name == "" || name == fileinfo.BaseName(path) {
			return nil
		}
		return []Command{RenamePath{Path: path, NewName: name}}
	case RenameCompleted:
		if e.Err != nil {
			s.setError(errRename, fmt.Sprintf("Failed to rename item: %v", e.Err))
			return nil
		}
		if s.clipboard != nil && s.clipboard.Path == e.Path {
			s.clipboard.Path = e.NewPath
		}
		return []Command{s.readCurrent()}
	case OpenCompleted:
		if e.Err != nil {
			s.setError(errOpen, fmt.Sprintf("Failed to open file: %v", e.Err))
			return nil
		}
		s.clearError(errOpen)
		return nil

	// view configuration
	case SetSortCriteria:
		s.cancelRename()
		if e.Criteria == s.sort.Sort {
			s.sort.Order = s.sort.Order.Toggle()
		} else {
			s.sort.Sort = e.Criteria
		}
		return []Command{s.readCurrent()}
	case ToggleSortOrder:
		s.cancelRename()
		s.sort.Order = s.sort.Order.Toggle()
		return []Command{s.readCurrent()}
	case SetGroupCriteria:
		s.cancelRename()
		if e.Criteria == s.sort.Group {
			return nil
		}
		s.sort.Group = e.Criteria
		s.collapsed = make(map[string]bool)
		return []Command{s.readCurrent()}
	case ToggleGroupCollapse:
		if s.collapsed[e.GroupID] {
			delete(s.collapsed, e.GroupID)
		} else {
			s.collapsed[e.GroupID] = true
		}
		return nil
	case SetFilter:
		s.cancelRename()
		if e.Pattern == s.filter {
			return nil
		}
		s.filter = e.Pattern
		return []Command{s.readCurrent()}

	// completions
	case LoadEntries:
		return s.onLoadEntries(e)
	case ThumbnailLoaded:
		i := s.indexOf(e.Path)
		if i < 0 {
			return nil
		}
		if e.Err != nil {
			logging.Debug("thumbnail unavailable", logging.String("path", e.Path), logging.Err(e.Err))
			return nil
		}
		s.entries[i].Thumbnail = e.Thumbnail
		return nil
	}
	return nil
}

func (s *Session) onTargetResolved(e TargetResolved) []Command {
	if e.Token != s.navToken {
		logging.Debug("discarding superseded navigation",
			logging.String("path", e.Requested), logging.Int64("token", int64(e.Token)))
		return nil
	}
	if e.Err != nil {
		s.setError(errNavigate, fmt.Sprintf("Failed to open %s: %v", e.Requested, e.Err))
		return nil
	}
	if !e.IsDir {
		return []Command{OpenExternally{Path: e.Path}}
	}
	return s.navigateTo(e.Path)
}

func (s *Session) onItemClicked(path string) []Command {
	i := s.indexOf(path)
	if i < 0 {
		return nil
	}
	now := s.now()
	if s.lastClick.path == path {
		if d := now.Sub(s.lastClick.at); d >= 0 && d <= s.doubleClick {
			s.lastClick = click{}
			return s.Update(Navigate{Path: path})
		}
	}
	s.lastClick = click{path: path, at: now}
	s.selected = path

	if e := s.entries[i]; e.IsImage() && e.Thumbnail == nil {
		return []Command{FetchThumbnail{Path: path}}
	}
	return nil
}

func (s *Session) onLoadEntries(e LoadEntries) []Command {
	if e.Token != s.readToken {
		logging.Debug("discarding stale directory read",
			logging.String("path", e.Path), logging.Int64("token", int64(e.Token)))
		return nil
	}
	s.loading = false
	s.selected = ""
	s.cancelRename()
	if e.Err != nil {
		s.entries = nil
		s.setError(errRead, e.Err.Error())
		return nil
	}
	s.entries = e.Entries
	s.err, s.errKind = "", errNone

	if !s.prefetch {
		return nil
	}
	var cmds []Command
	for _, entry := range s.entries {
		if entry.IsImage() && entry.Thumbnail == nil {
			cmds = append(cmds, FetchThumbnail{Path: entry.Path})
		}
	}
	return cmds
}

// navigateTo moves to a directory that differs from the current one.
func (s *Session) navigateTo(path string) []Command {
	if path == s.currentPath {
		return nil
	}
	s.updateHistory(path)
	s.currentPath = path
	return s.beginRead()
}

func (s *Session) jumpToHistory() []Command {
	s.currentPath = s.history[s.historyIndex]
	return s.beginRead()
}

func (s *Session) beginRead() []Command {
	s.err, s.errKind = "", errNone
	s.selected = ""
	s.lastClick = click{}
	return []Command{s.readCurrent()}
}

// updateHistory drops forward entries and appends path unless it is
// already the tail.
func (s *Session) updateHistory(path string) {
	s.history = s.history[:s.historyIndex+1]
	if s.history[len(s.history)-1] != path {
		s.history = append(s.history, path)
	}
	s.historyIndex = len(s.history) - 1
}

func (s *Session) readCurrent() Command {
	s.readToken++
	s.loading = true
	return ReadDirectory{
		Token: s.readToken,
		Request: listing.Request{
			Path:       s.currentPath,
			ShowHidden: s.showHidden,
			Options:    s.sort,
			Filter:     s.filter,
		},
	}
}

func (s *Session) cancelRename() {
	s.renamingPath = ""
	s.renameInput = ""
}

func (s *Session) setError(kind errorKind, msg string) {
	s.err, s.errKind = msg, kind
}

func (s *Session) clearError(kind errorKind) {
	if s.errKind == kind {
		s.err, s.errKind = "", errNone
	}
}
