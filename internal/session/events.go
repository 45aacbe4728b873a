package session

import (
	"fyne.io/fyne/v2"

	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/sorting"
)

// Event is an input to the session: a user action or the completion of
// dispatched work.
type Event interface {
	isEvent()
}

// ===== NAVIGATION EVENTS =====

type Navigate struct{ Path string }
type GoUp struct{}
type GoBack struct{}
type GoForward struct{}
type ToggleHiddenFiles struct{}

// Refresh re-reads the current directory unless a rename is in progress.
type Refresh struct{}

// ===== SELECTION EVENTS =====

type ItemClicked struct{ Path string }

// ===== FILE OPERATION EVENTS =====

type DeleteItem struct{ Path string }
type CopyItem struct{ Path string }
type CutItem struct{ Path string }
type Paste struct{}

type StartRename struct{ Path string }
type RenameInputChanged struct{ Value string }
type ConfirmRename struct{}
type CancelRename struct{}

// ===== VIEW EVENTS =====

type SetSortCriteria struct{ Criteria sorting.SortCriteria }
type ToggleSortOrder struct{}
type SetGroupCriteria struct{ Criteria sorting.GroupCriteria }
type ToggleGroupCollapse struct{ GroupID string }
type SetFilter struct{ Pattern string }

// ===== COMPLETION EVENTS =====

// LoadEntries completes the ReadDirectory command carrying the same Token.
type LoadEntries struct {
	Token   uint64
	Path    string
	Entries []fileinfo.DirEntry
	Err     error
}

// TargetResolved completes a ResolveTarget command.
type TargetResolved struct {
	Token     uint64
	Requested string
	Path      string // canonical
	IsDir     bool
	Err       error
}

type OpenCompleted struct {
	Path string
	Err  error
}

type ItemDeleted struct {
	Path string
	Err  error
}

type PasteCompleted struct {
	Item    ClipboardItem
	NewPath string
	Err     error
}

type RenameCompleted struct {
	Path    string
	NewPath string
	Err     error
}

type ThumbnailLoaded struct {
	Path      string
	Thumbnail fyne.Resource
	Err       error
}

func (Navigate) isEvent()            {}
func (GoUp) isEvent()                {}
func (GoBack) isEvent()              {}
func (GoForward) isEvent()           {}
func (ToggleHiddenFiles) isEvent()   {}
func (Refresh) isEvent()             {}
func (ItemClicked) isEvent()         {}
func (DeleteItem) isEvent()          {}
func (CopyItem) isEvent()            {}
func (CutItem) isEvent()             {}
func (Paste) isEvent()               {}
func (StartRename) isEvent()         {}
func (RenameInputChanged) isEvent()  {}
func (ConfirmRename) isEvent()       {}
func (CancelRename) isEvent()        {}
func (SetSortCriteria) isEvent()     {}
func (ToggleSortOrder) isEvent()     {}
func (SetGroupCriteria) isEvent()    {}
func (ToggleGroupCollapse) isEvent() {}
func (SetFilter) isEvent()           {}
func (LoadEntries) isEvent()         {}
func (TargetResolved) isEvent()      {}
func (OpenCompleted) isEvent()       {}
func (ItemDeleted) isEvent()         {}
func (PasteCompleted) isEvent()      {}
func (RenameCompleted) isEvent()     {}
func (ThumbnailLoaded) isEvent()     {}
