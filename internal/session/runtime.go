package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/koompi/file-manager/internal/constants"
	"github.com/koompi/file-manager/internal/fileinfo"
	"github.com/koompi/file-manager/internal/jobs"
	"github.com/koompi/file-manager/internal/listing"
	"github.com/koompi/file-manager/internal/logging"
	"github.com/koompi/file-manager/internal/thumbnail"
)

var errReadOnlyLocation = errors.New("smb locations are read-only")

// DirectoryReader lists a directory.
type DirectoryReader interface {
	ReadDir(ctx context.Context, req listing.Request) ([]fileinfo.DirEntry, error)
}

// DirectoryWatcher follows one directory at a time.
type DirectoryWatcher interface {
	Watch(path string) error
	Close() error
}

// Deps are the executors a Runtime dispatches commands to.
type Deps struct {
	Reader     DirectoryReader
	Resolver   *fileinfo.Resolver
	Jobs       *jobs.Manager
	Thumbnails thumbnail.Generator
	// ThumbnailWorkers sizes the thumbnail pool.
	ThumbnailWorkers int
	// Open hands a file to the default application.
	Open func(path string) error
	// NewWatcher, when set, builds a watcher whose onChange posts Refresh.
	NewWatcher func(onChange func()) (DirectoryWatcher, error)
}

// Runtime owns a Session and applies events to it one at a time on the
// goroutine running Run. Commands run on their own goroutines and report
// back through Post.
type Runtime struct {
	session *Session
	deps    Deps
	log     *zap.Logger

	events  chan Event
	stopped chan struct{}
	pool    *thumbnail.Pool
	watcher DirectoryWatcher
	watched string

	mu          sync.Mutex
	subscribers []func(Snapshot)
	latest      atomic.Pointer[Snapshot]

	busy tracker
	wg   sync.WaitGroup
}

// NewRuntime wires s to its executors.
func NewRuntime(s *Session, deps Deps) *Runtime {
	if deps.Resolver == nil {
		deps.Resolver = fileinfo.NewResolver(nil, nil)
	}
	if deps.Open == nil {
		deps.Open = fileinfo.OpenWithDefaultApp
	}
	rt := &Runtime{
		session: s,
		deps:    deps,
		log:     logging.Named("session"),
		events:  make(chan Event, constants.SessionEventBufferSize),
		stopped: make(chan struct{}),
	}
	if deps.Thumbnails != nil {
		rt.pool = thumbnail.NewPool(deps.Thumbnails, deps.ThumbnailWorkers, constants.ThumbnailQueueSize,
			func(r thumbnail.Result) {
				rt.Post(ThumbnailLoaded{Path: r.Path, Thumbnail: r.Thumbnail, Err: r.Err})
			})
	}
	if deps.NewWatcher != nil {
		w, err := deps.NewWatcher(func() { rt.Post(Refresh{}) })
		if err != nil {
			rt.log.Warn("directory watcher unavailable", zap.Error(err))
		} else {
			rt.watcher = w
		}
	}
	snap := s.Snapshot()
	rt.latest.Store(&snap)
	// released by Run once the initial read is dispatched
	rt.busy.add()
	return rt
}

// Subscribe registers fn to receive a snapshot after every event. fn runs
// on the event loop and must not block or call Post synchronously.
func (rt *Runtime) Subscribe(fn func(Snapshot)) {
	rt.mu.Lock()
	rt.subscribers = append(rt.subscribers, fn)
	rt.mu.Unlock()
}

// Snapshot returns the state published after the last processed event.
func (rt *Runtime) Snapshot() Snapshot {
	return *rt.latest.Load()
}

// Post queues ev for the event loop. It reports false once Run has
// returned.
func (rt *Runtime) Post(ev Event) bool {
	select {
	case <-rt.stopped:
		return false
	default:
	}
	rt.busy.add()
	select {
	case rt.events <- ev:
		return true
	case <-rt.stopped:
		rt.busy.done()
		return false
	}
}

// WaitIdle blocks until every posted event and every dispatched command
// except thumbnail generation has been processed.
func (rt *Runtime) WaitIdle(ctx context.Context) error {
	return rt.busy.wait(ctx)
}

// Run processes events until ctx is canceled, then releases the
// thumbnail pool and the watcher.
func (rt *Runtime) Run(ctx context.Context) error {
	defer rt.shutdown()

	rt.execute(ctx, rt.session.Start())
	rt.publish()
	rt.busy.done()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-rt.events:
			cmds := rt.session.Update(ev)
			rt.publish()
			rt.execute(ctx, cmds)
			rt.busy.done()
		}
	}
}

func (rt *Runtime) shutdown() {
	close(rt.stopped)
	rt.wg.Wait()
	// drain events posted before stopped closed
	for drained := false; !drained; {
		select {
		case <-rt.events:
			rt.busy.done()
		default:
			drained = true
		}
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
	if rt.watcher != nil {
		if err := rt.watcher.Close(); err != nil {
			rt.log.Debug("watcher close failed", zap.Error(err))
		}
	}
}

func (rt *Runtime) publish() {
	snap := rt.session.Snapshot()
	rt.latest.Store(&snap)
	rt.mu.Lock()
	subs := append([]func(Snapshot){}, rt.subscribers...)
	rt.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (rt *Runtime) execute(ctx context.Context, cmds []Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case FetchThumbnail:
			if rt.pool != nil {
				rt.pool.Request(c.Path)
			}
		case ReadDirectory:
			rt.follow(c.Request.Path)
			rt.spawn(func() Event {
				entries, err := rt.deps.Reader.ReadDir(ctx, c.Request)
				return LoadEntries{Token: c.Token, Path: c.Request.Path, Entries: entries, Err: err}
			})
		case ResolveTarget:
			rt.spawn(func() Event { return rt.resolveTarget(c) })
		case OpenExternally:
			rt.spawn(func() Event {
				err := rt.deps.Open(c.Path)
				if err != nil {
					rt.log.Warn("open failed", zap.String("path", c.Path), zap.Error(err))
				}
				return OpenCompleted{Path: c.Path, Err: err}
			})
		case DeletePath:
			rt.spawn(func() Event {
				if fileinfo.IsSMBDisplay(c.Path) {
					return ItemDeleted{Path: c.Path, Err: errReadOnlyLocation}
				}
				return ItemDeleted{Path: c.Path, Err: jobs.DeleteItem(c.Path)}
			})
		case RenamePath:
			rt.spawn(func() Event {
				if fileinfo.IsSMBDisplay(c.Path) {
					return RenameCompleted{Path: c.Path, Err: errReadOnlyLocation}
				}
				newPath, err := jobs.RenameItem(c.Path, c.NewName)
				return RenameCompleted{Path: c.Path, NewPath: newPath, Err: err}
			})
		case PasteItem:
			rt.spawn(func() Event { return rt.paste(ctx, c) })
		}
	}
}

// spawn runs fn off the loop and posts its completion event.
func (rt *Runtime) spawn(fn func() Event) {
	rt.busy.add()
	rt.wg.Add(1)
	go func() {
		defer rt.wg.Done()
		defer rt.busy.done()
		rt.Post(fn())
	}()
}

func (rt *Runtime) paste(ctx context.Context, c PasteItem) Event {
	if fileinfo.IsSMBDisplay(c.Item.Path) || fileinfo.IsSMBDisplay(c.DestDir) {
		return PasteCompleted{Item: c.Item, Err: errReadOnlyLocation}
	}
	if rt.deps.Jobs == nil {
		var dst string
		var err error
		if c.Item.Action == ClipboardCut {
			dst, err = jobs.MoveItem(ctx, c.Item.Path, c.DestDir)
		} else {
			dst, err = jobs.CopyItem(ctx, c.Item.Path, c.DestDir)
		}
		return PasteCompleted{Item: c.Item, NewPath: dst, Err: err}
	}

	var j *jobs.Job
	if c.Item.Action == ClipboardCut {
		j = rt.deps.Jobs.EnqueueMove([]string{c.Item.Path}, c.DestDir)
	} else {
		j = rt.deps.Jobs.EnqueueCopy([]string{c.Item.Path}, c.DestDir)
	}
	if err := j.Wait(ctx); err != nil {
		return PasteCompleted{Item: c.Item, Err: err}
	}
	var dst string
	if res := j.Snapshot().Results; len(res) > 0 {
		dst = res[0]
	}
	return PasteCompleted{Item: c.Item, NewPath: dst}
}

func (rt *Runtime) resolveTarget(c ResolveTarget) Event {
	path := c.Path
	fs, loc, err := rt.deps.Resolver.Resolve(path)
	if err != nil {
		return TargetResolved{Token: c.Token, Requested: path, Err: err}
	}
	info, err := fs.Stat(loc.Native)
	if err != nil {
		return TargetResolved{Token: c.Token, Requested: path, Err: err}
	}
	canonical := loc.Display
	if loc.Scheme == fileinfo.SchemeFile {
		if canonical, err = fileinfo.Canonicalize(path); err != nil {
			return TargetResolved{Token: c.Token, Requested: path, Err: err}
		}
	}
	return TargetResolved{Token: c.Token, Requested: path, Path: canonical, IsDir: info.IsDir()}
}

// follow points the watcher at the directory being read.
func (rt *Runtime) follow(path string) {
	if rt.watcher == nil || path == rt.watched {
		return
	}
	rt.watched = path
	if fileinfo.IsSMBDisplay(path) {
		return
	}
	if err := rt.watcher.Watch(path); err != nil {
		rt.log.Debug("watch failed", zap.String("path", path), zap.Error(err))
	}
}

// tracker counts outstanding work and wakes waiters when it reaches zero.
type tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (t *tracker) add() {
	t.mu.Lock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
	t.mu.Unlock()
}

func (t *tracker) done() {
	t.mu.Lock()
	t.n--
	if t.n == 0 && t.idle != nil {
		close(t.idle)
	}
	t.mu.Unlock()
}

func (t *tracker) wait(ctx context.Context) error {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return nil
	}
	idle := t.idle
	t.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
