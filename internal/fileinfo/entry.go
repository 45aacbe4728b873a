package fileinfo

import (
	"time"

	"fyne.io/fyne/v2"
)

// MIME group labels
const (
	GroupText         = "Text Files"
	GroupImages       = "Images"
	GroupVideos       = "Videos"
	GroupAudio        = "Audio"
	GroupDocuments    = "Documents & Archives"
	GroupApplications = "Applications & Others"
)

// EntryVariant distinguishes plain entries from application launchers
type EntryVariant int

const (
	PlainEntry EntryVariant = iota
	ApplicationLinkEntry
)

func (v EntryVariant) String() string {
	if v == ApplicationLinkEntry {
		return "application"
	}
	return "plain"
}

// ApplicationLink is the metadata of a symlink to a desktop descriptor
// inside the applications directory.
type ApplicationLink struct {
	OriginalDesktopPath string
	IconName            string
	ResolvedIconPath    string // empty when the icon could not be found
}

// DirEntry is one classified child of a listed directory.
type DirEntry struct {
	Path        string
	DisplayName string
	IsDir       bool
	Size        *int64 // nil for directories and on stat failure
	Modified    *time.Time
	MimeGroup   string // empty when no group applies
	App         *ApplicationLink
	Thumbnail   fyne.Resource
}

// Variant reports whether the entry carries application metadata.
func (e DirEntry) Variant() EntryVariant {
	if e.App != nil {
		return ApplicationLinkEntry
	}
	return PlainEntry
}

// Name returns the on-disk file name.
func (e DirEntry) Name() string {
	return BaseName(e.Path)
}

// IsImage reports whether the entry is a thumbnail candidate.
func (e DirEntry) IsImage() bool {
	return !e.IsDir && e.MimeGroup == GroupImages
}

// SizeOr returns the size or def when absent.
func (e DirEntry) SizeOr(def int64) int64 {
	if e.Size == nil {
		return def
	}
	return *e.Size
}

// ModifiedOr returns the modification time or def when absent.
func (e DirEntry) ModifiedOr(def time.Time) time.Time {
	if e.Modified == nil {
		return def
	}
	return *e.Modified
}
