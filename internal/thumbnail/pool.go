package thumbnail

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/koompi/file-manager/internal/logging"
)

// Generator is the work a Pool performs.
type Generator interface {
	GetOrGenerate(ctx context.Context, path string) (fyne.Resource, error)
}

// Result is delivered once per processed request.
type Result struct {
	Path      string
	Thumbnail fyne.Resource
	Err       error
}

// Pool generates thumbnails on background workers. Requests for a path
// already queued are dropped, and so are requests arriving while the
// queue is full.
type Pool struct {
	gen     Generator
	deliver func(Result)
	jobs    chan string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// NewPool starts workers goroutines. deliver runs on a worker goroutine.
func NewPool(gen Generator, workers, queueSize int, deliver func(Result)) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		gen:     gen,
		deliver: deliver,
		jobs:    make(chan string, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Request queues path and reports whether it was accepted.
func (p *Pool) Request(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	if _, exists := p.pending[path]; exists {
		return false
	}
	select {
	case p.jobs <- path:
		p.pending[path] = struct{}{}
		return true
	default:
		logging.Debug("thumbnail queue full, dropping request", logging.String("path", path))
		return false
	}
}

// Close cancels in-flight work and waits for the workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for path := range p.jobs {
		if p.ctx.Err() != nil {
			continue
		}
		res, err := p.gen.GetOrGenerate(p.ctx, path)

		p.mu.Lock()
		delete(p.pending, path)
		p.mu.Unlock()

		if p.ctx.Err() != nil {
			continue
		}
		if p.deliver != nil {
			p.deliver(Result{Path: path, Thumbnail: res, Err: err})
		}
	}
}
