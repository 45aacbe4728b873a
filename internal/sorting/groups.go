package sorting

import "github.com/koompi/file-manager/internal/fileinfo"

// Group identifiers and labels used by renderers.
const (
	FoldersGroupID = "folders"
	FilesGroupID   = "files"
	OtherGroupID   = "Other"
	AllGroupID     = "all"
)

// Group is a contiguous run of sorted entries sharing a group key.
type Group struct {
	ID      string
	Label   string
	Entries []fileinfo.DirEntry
}

// GroupKey returns the group id and label of e under criteria.
func GroupKey(e fileinfo.DirEntry, criteria GroupCriteria) (id, label string) {
	switch criteria {
	case GroupByType:
		if e.IsDir {
			return FoldersGroupID, "Folders"
		}
		return FilesGroupID, "Files"
	case GroupByMime:
		if e.IsDir {
			return FoldersGroupID, "Folders"
		}
		if e.MimeGroup == "" {
			return OtherGroupID, OtherGroupID
		}
		return e.MimeGroup, e.MimeGroup
	}
	return AllGroupID, ""
}

// Partition splits entries, already ordered by Sort with the same group
// criteria, into groups in display order. Empty groups are omitted.
func Partition(entries []fileinfo.DirEntry, criteria GroupCriteria) []Group {
	var groups []Group
	for _, e := range entries {
		id, label := GroupKey(e, criteria)
		if n := len(groups); n > 0 && groups[n-1].ID == id {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, Group{ID: id, Label: label, Entries: []fileinfo.DirEntry{e}})
	}
	return groups
}
