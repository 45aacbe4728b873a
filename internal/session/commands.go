package session

import "github.com/koompi/file-manager/internal/listing"

// Command is work the session asks its runtime to perform. Each command
// except FetchThumbnail reports back with exactly one completion event.
type Command interface {
	isCommand()
}

// ReadDirectory reads a directory; completes with LoadEntries.
type ReadDirectory struct {
	Token   uint64
	Request listing.Request
}

// ResolveTarget canonicalizes and stats a path; completes with
// TargetResolved carrying the same Token.
type ResolveTarget struct {
	Token uint64
	Path  string
}

// OpenExternally hands a file to the default application; completes with
// OpenCompleted.
type OpenExternally struct{ Path string }

// FetchThumbnail queues a thumbnail; may complete with ThumbnailLoaded.
type FetchThumbnail struct{ Path string }

// DeletePath completes with ItemDeleted.
type DeletePath struct{ Path string }

// PasteItem copies or moves Item into DestDir; completes with PasteCompleted.
type PasteItem struct {
	Item    ClipboardItem
	DestDir string
}

// RenamePath completes with RenameCompleted.
type RenamePath struct {
	Path    string
	NewName string
}

func (ReadDirectory) isCommand()  {}
func (ResolveTarget) isCommand()  {}
func (OpenExternally) isCommand() {}
func (FetchThumbnail) isCommand() {}
func (DeletePath) isCommand()     {}
func (PasteItem) isCommand()      {}
func (RenamePath) isCommand()     {}
