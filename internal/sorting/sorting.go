// Package sorting orders classified entries by a group stage followed by
// a sort stage.
package sorting

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/koompi/file-manager/internal/fileinfo"
)

// SortCriteria selects the sort key within a group.
type SortCriteria int

const (
	SortByName SortCriteria = iota
	SortBySize
	SortByModified
	SortByType
)

func (c SortCriteria) String() string {
	switch c {
	case SortBySize:
		return "size"
	case SortByModified:
		return "modified"
	case SortByType:
		return "type"
	default:
		return "name"
	}
}

// SortOrder applies to the sort stage only.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// GroupCriteria selects the group stage.
type GroupCriteria int

const (
	GroupNone GroupCriteria = iota
	GroupByType
	GroupByMime
)

func (g GroupCriteria) String() string {
	switch g {
	case GroupByType:
		return "type"
	case GroupByMime:
		return "mime"
	default:
		return "none"
	}
}

// ParseSortCriteria accepts the names produced by SortCriteria.String.
func ParseSortCriteria(s string) (SortCriteria, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "size":
		return SortBySize, nil
	case "modified", "date":
		return SortByModified, nil
	case "type", "extension":
		return SortByType, nil
	}
	return SortByName, fmt.Errorf("unknown sort criteria %q", s)
}

// ParseSortOrder accepts "asc" and "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort order %q", s)
}

// ParseGroupCriteria accepts "none", "type" and "mime".
func ParseGroupCriteria(s string) (GroupCriteria, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return GroupNone, nil
	case "type":
		return GroupByType, nil
	case "mime", "mimetype":
		return GroupByMime, nil
	}
	return GroupNone, fmt.Errorf("unknown group criteria %q", s)
}

// Options parameterizes the comparator.
type Options struct {
	Sort  SortCriteria
	Order SortOrder
	Group GroupCriteria
}

var epoch = time.Unix(0, 0)

// Compare orders a before b (<0), after (>0), or equal (0). Equal sort
// keys fall back to the path so distinct entries never compare equal.
func Compare(a, b fileinfo.DirEntry, opts Options) int {
	if c := compareGroup(a, b, opts.Group); c != 0 {
		return c
	}
	if opts.Sort == SortByType && a.IsDir != b.IsDir {
		// directories lead regardless of order
		return dirsFirst(a, b)
	}
	c := compareSort(a, b, opts.Sort)
	if opts.Order == Descending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// Sort orders entries in place.
func Sort(entries []fileinfo.DirEntry, opts Options) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i], entries[j], opts) < 0
	})
}

func dirsFirst(a, b fileinfo.DirEntry) int {
	switch {
	case a.IsDir == b.IsDir:
		return 0
	case a.IsDir:
		return -1
	default:
		return 1
	}
}

func compareGroup(a, b fileinfo.DirEntry, group GroupCriteria) int {
	switch group {
	case GroupByType:
		return dirsFirst(a, b)
	case GroupByMime:
		if c := dirsFirst(a, b); c != 0 || a.IsDir {
			return c
		}
		return compareMimeLabel(a.MimeGroup, b.MimeGroup)
	}
	return 0
}

// compareMimeLabel orders labels lexicographically with no label last.
func compareMimeLabel(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(a, b)
}

func compareSort(a, b fileinfo.DirEntry, criteria SortCriteria) int {
	byName := strings.Compare(a.DisplayName, b.DisplayName)
	switch criteria {
	case SortBySize:
		as, bs := sizeKey(a), sizeKey(b)
		if as == bs {
			return byName
		}
		if as < bs {
			return -1
		}
		return 1
	case SortByModified:
		am, bm := a.ModifiedOr(epoch), b.ModifiedOr(epoch)
		if c := am.Compare(bm); c != 0 {
			return c
		}
		return byName
	case SortByType:
		if c := strings.Compare(extension(a.Path), extension(b.Path)); c != 0 {
			return c
		}
		return byName
	}
	return byName
}

func sizeKey(e fileinfo.DirEntry) int64 {
	if e.IsDir {
		return 0
	}
	return e.SizeOr(0)
}

// extension returns the suffix after the last dot of the base name;
// dot-files without a further dot have none.
func extension(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
