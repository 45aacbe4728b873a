package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/koompi/file-manager/internal/config"
	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/jobs"
	"github.com/koompi/file-manager/internal/logging"
	"github.com/koompi/file-manager/internal/session"
	"github.com/koompi/file-manager/internal/sorting"
)

const (
	nameColumnWidth = 40
	idleTimeout     = 30 * time.Second
)

const helpText = `commands:
  ls                      list the current directory
  cd <path>               navigate (relative to the current directory)
  up | back | forward     move through the hierarchy or history
  refresh                 re-read the current directory
  hidden                  toggle hidden files
  sort <name|size|modified|type>
  order                   toggle ascending/descending
  group <none|type|mime>
  collapse <group>        toggle a group
  filter [pattern]        list only matching files; no pattern clears
  click <name>            select; a second click within the window opens
  open <name>             open a directory or hand a file to its application
  copy <name> | cut <name> | paste
  rm <name>
  rename <name> <new>
  places                  show well-known directories
  jobs                    show copy/move jobs
  quit`

// shell plays the renderer: it turns input lines into session events and
// prints snapshots.
type shell struct {
	rt   *session.Runtime
	jobs *jobs.Manager
	out  io.Writer
	home string
}

func newShell(rt *session.Runtime, manager *jobs.Manager, out io.Writer, home string) *shell {
	return &shell{rt: rt, jobs: manager, out: out, home: home}
}

func (sh *shell) run(ctx context.Context, in *bufio.Scanner) {
	sh.wait(ctx)
	sh.list()
	for {
		fmt.Fprintf(sh.out, "%s> ", sh.rt.Snapshot().CurrentPath)
		if !in.Scan() {
			fmt.Fprintln(sh.out)
			return
		}
		if quit := sh.exec(ctx, in.Text()); quit || ctx.Err() != nil {
			return
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	arg := strings.Join(args, " ")

	var events []session.Event
	relist := true
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, helpText)
		return false
	case "ls":
		sh.list()
		return false
	case "places":
		sh.places()
		return false
	case "jobs":
		sh.listJobs()
		return false
	case "cd":
		if arg == "" {
			arg = sh.home
		}
		events = append(events, session.Navigate{Path: sh.absolute(arg)})
	case "up":
		events = append(events, session.GoUp{})
	case "back":
		events = append(events, session.GoBack{})
	case "forward":
		events = append(events, session.GoForward{})
	case "refresh":
		events = append(events, session.Refresh{})
	case "hidden":
		events = append(events, session.ToggleHiddenFiles{})
	case "sort":
		c, err := sorting.ParseSortCriteria(arg)
		if err != nil {
			fmt.Fprintln(sh.out, err)
			return false
		}
		events = append(events, session.SetSortCriteria{Criteria: c})
	case "order":
		events = append(events, session.ToggleSortOrder{})
	case "group":
		c, err := sorting.ParseGroupCriteria(arg)
		if err != nil {
			fmt.Fprintln(sh.out, err)
			return false
		}
		events = append(events, session.SetGroupCriteria{Criteria: c})
	case "collapse":
		events = append(events, session.ToggleGroupCollapse{GroupID: arg})
	case "filter":
		events = append(events, session.SetFilter{Pattern: arg})
	case "click":
		events = append(events, session.ItemClicked{Path: sh.entryPath(arg)})
	case "open":
		events = append(events, session.Navigate{Path: sh.entryPath(arg)})
	case "copy":
		events = append(events, session.CopyItem{Path: sh.entryPath(arg)})
		relist = false
	case "cut":
		events = append(events, session.CutItem{Path: sh.entryPath(arg)})
		relist = false
	case "paste":
		events = append(events, session.Paste{})
	case "rm":
		events = append(events, session.DeleteItem{Path: sh.entryPath(arg)})
	case "rename":
		if len(args) < 2 {
			fmt.Fprintln(sh.out, "usage: rename <name> <new>")
			return false
		}
		path := sh.entryPath(args[0])
		events = append(events,
			session.StartRename{Path: path},
			session.RenameInputChanged{Value: strings.Join(args[1:], " ")},
			session.ConfirmRename{})
	default:
		fmt.Fprintf(sh.out, "unknown command %q (try help)\n", cmd)
		return false
	}

	for _, ev := range events {
		if !sh.rt.Post(ev) {
			return true
		}
	}
	sh.wait(ctx)

	snap := sh.rt.Snapshot()
	if snap.Error != "" {
		fmt.Fprintln(sh.out, "error:", snap.Error)
		return false
	}
	if relist {
		sh.list()
	}
	return false
}

func (sh *shell) wait(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, idleTimeout)
	defer cancel()
	if err := sh.rt.WaitIdle(ctx); err != nil {
		logging.Debug("shell wait interrupted", logging.Err(err))
	}
}

// absolute resolves arg against the current directory.
func (sh *shell) absolute(arg string) string {
	if fileinfo.IsSMBDisplay(arg) || strings.HasPrefix(arg, "//") {
		return arg
	}
	arg = config.ExpandHome(arg)
	if filepath.IsAbs(arg) {
		return arg
	}
	return fileinfo.JoinPath(sh.rt.Snapshot().CurrentPath, arg)
}

// entryPath maps a listed name (display or on-disk) to its path.
func (sh *shell) entryPath(name string) string {
	snap := sh.rt.Snapshot()
	for _, e := range snap.Entries {
		if e.DisplayName == name || e.Name() == name {
			return e.Path
		}
	}
	return sh.absolute(name)
}

func (sh *shell) list() {
	snap := sh.rt.Snapshot()
	fmt.Fprintf(sh.out, "%s  [sort=%s %s group=%s hidden=%t", snap.CurrentPath,
		snap.Sort.Sort, snap.Sort.Order, snap.Sort.Group, snap.ShowHidden)
	if snap.Filter != "" {
		fmt.Fprintf(sh.out, " filter=%s", snap.Filter)
	}
	if snap.Clipboard != nil {
		fmt.Fprintf(sh.out, " clipboard=%s:%s", snap.Clipboard.Action, fileinfo.BaseName(snap.Clipboard.Path))
	}
	fmt.Fprintln(sh.out, "]")
	if snap.Error != "" {
		fmt.Fprintln(sh.out, "error:", snap.Error)
		return
	}
	if len(snap.Entries) == 0 {
		fmt.Fprintln(sh.out, "  (empty)")
		return
	}
	for _, g := range snap.Groups() {
		collapsed := snap.IsCollapsed(g.ID)
		if snap.Sort.Group != sorting.GroupNone {
			marker := "v"
			if collapsed {
				marker = ">"
			}
			fmt.Fprintf(sh.out, "%s %s (%d)  [%s]\n", marker, g.Label, len(g.Entries), g.ID)
		}
		if collapsed {
			continue
		}
		for _, e := range g.Entries {
			fmt.Fprintln(sh.out, formatRow(e, e.Path == snap.SelectedPath))
		}
	}
}

// formatRow lays out one entry with display-width aware padding.
func formatRow(e fileinfo.DirEntry, selected bool) string {
	mark := " "
	if selected {
		mark = "*"
	}
	name := e.DisplayName
	if e.IsDir {
		name += "/"
	}
	name = runewidth.FillRight(runewidth.Truncate(name, nameColumnWidth, "…"), nameColumnWidth)

	size := fileinfo.FormatEntrySize(e.Size)
	if e.IsDir {
		size = fileinfo.FormatEntrySize(nil)
	}
	var extra []string
	if e.MimeGroup != "" {
		extra = append(extra, e.MimeGroup)
	}
	if e.Variant() == fileinfo.ApplicationLinkEntry {
		extra = append(extra, "app:"+fileinfo.BaseName(e.App.OriginalDesktopPath))
	}
	if e.Thumbnail != nil {
		extra = append(extra, "thumb")
	}
	return strings.TrimRight(fmt.Sprintf("%s %s %10s  %s  %s", mark, name, size,
		fileinfo.FormatModified(e.Modified), strings.Join(extra, ", ")), " ")
}

func (sh *shell) places() {
	for _, p := range fileinfo.Places(sh.home, "") {
		fmt.Fprintf(sh.out, "  %s %s\n", runewidth.FillRight(p.Label, 10), p.Path)
	}
}

func (sh *shell) listJobs() {
	list := sh.jobs.List()
	if len(list) == 0 {
		fmt.Fprintln(sh.out, "  (no jobs)")
		return
	}
	for _, j := range list {
		line := fmt.Sprintf("  #%d %-4s %-9s %d/%d -> %s", j.ID, j.Type, j.Status, j.DoneItems, j.TotalItems, j.DestDir)
		if j.Error != "" {
			line += "  " + j.Error
		}
		fmt.Fprintln(sh.out, line)
	}
}
