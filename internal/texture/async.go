package texture

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"
)

// State is the load state of one media src as seen by the frame loop.
type State int

const (
	Unrequested State = iota
	Pending
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unrequested"
}

type slot struct {
	state State
	img   *image.NRGBA
}

type completion struct {
	src string
	img *image.NRGBA
	err error
}

// Loader decodes media on worker goroutines and hands finished textures to
// the frame loop. Request, Poll and Lookup belong to the frame loop and never
// block; workers only touch the queue and the completion list.
type Loader struct {
	resolver Resolver
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu    sync.Mutex
	queue []string
	done  []completion
	wake  chan struct{}

	// frame-loop state
	slots   map[string]*slot
	pending int
}

// NewLoader starts workers resolving through r. Close stops them.
func NewLoader(ctx context.Context, r Resolver, workers int) *Loader {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &Loader{
		resolver: r,
		ctx:      ctx,
		cancel:   cancel,
		wake:     make(chan struct{}, 1),
		slots:    make(map[string]*slot),
	}

	for w := 0; w < workers; w++ {
		l.wg.Add(1)
		go l.work()
	}
	return l
}

// Request queues src unless it was requested before.
func (l *Loader) Request(src string) {
	if _, ok := l.slots[src]; ok {
		return
	}
	l.slots[src] = &slot{state: Pending}
	l.pending++

	l.mu.Lock()
	l.queue = append(l.queue, src)
	l.mu.Unlock()
	l.signal()
}

// Poll applies finished loads and returns how many changed state.
func (l *Loader) Poll() int {
	l.mu.Lock()
	done := l.done
	l.done = nil
	l.mu.Unlock()

	for _, c := range done {
		s := l.slots[c.src]
		if s == nil || s.state != Pending {
			continue
		}
		l.pending--
		if c.err != nil {
			s.state = Failed
			continue
		}
		s.state, s.img = Ready, c.img
	}
	return len(done)
}

// Lookup returns the texture for src and its state. The image is nil unless
// the state is Ready.
func (l *Loader) Lookup(src string) (*image.NRGBA, State) {
	s, ok := l.slots[src]
	if !ok {
		return nil, Unrequested
	}
	return s.img, s.state
}

// Pending returns the number of requested sources still loading.
func (l *Loader) Pending() int {
	return l.pending
}

// Wait polls until nothing is pending or ctx ends. It blocks and must not be
// called from inside a frame tick.
func (l *Loader) Wait(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		l.Poll()
		if l.pending == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ctx.Done():
			return l.ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops the workers and waits for them to exit. Textures already
// handed out stay valid; the loader forgets them.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
	l.slots = make(map[string]*slot)
	l.pending = 0
}

func (l *Loader) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loader) work() {
	defer l.wg.Done()
	for {
		src, ok := l.next()
		if !ok {
			select {
			case <-l.ctx.Done():
				return
			case <-l.wake:
				continue
			}
		}

		img, err := l.resolver.Resolve(l.ctx, src)
		if err != nil {
			if errors.Is(err, context.Canceled) && l.ctx.Err() != nil {
				return
			}
			log.Printf("%v (showing placeholder)", err)
		}

		l.mu.Lock()
		l.done = append(l.done, completion{src: src, img: img, err: err})
		l.mu.Unlock()
	}
}

// next pops the queue head and passes the wake token on if work remains.
func (l *Loader) next() (string, bool) {
	if l.ctx.Err() != nil {
		return "", false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return "", false
	}
	src := l.queue[0]
	l.queue = l.queue[1:]
	if len(l.queue) > 0 {
		l.signal()
	}
	return src, true
}
