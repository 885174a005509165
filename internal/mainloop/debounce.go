package mainloop

import (
	"sync"
	"time"

	"github.com/bnema/webbridge/internal/application/port"
)

// Debouncer runs the latest task posted under a key once the key has been
// quiet for a while. File watchers report one save as several events; the
// config reload keys its tasks by file so each file reloads once per burst.
type Debouncer struct {
	mu      sync.Mutex
	sched   port.Scheduler
	quiet   time.Duration
	entries map[string]*debounced
	closed  bool
}

type debounced struct {
	fn  func()
	gen uint64
}

// NewDebouncer panics on a nil scheduler. A zero quiet period coalesces only
// the posts that arrive before the loop gets to the key.
func NewDebouncer(sched port.Scheduler, quiet time.Duration) *Debouncer {
	if sched == nil {
		panic("mainloop.NewDebouncer: scheduler cannot be nil")
	}
	return &Debouncer{
		sched:   sched,
		quiet:   quiet,
		entries: make(map[string]*debounced),
	}
}

// Post replaces the task pending under key with fn and restarts its quiet
// period. Safe from any goroutine.
func (d *Debouncer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	e, ok := d.entries[key]
	if !ok {
		e = &debounced{}
		d.entries[key] = e
	}
	e.fn = fn
	e.gen++
	gen := e.gen
	d.mu.Unlock()

	fire := func() { d.fire(key, e, gen) }
	if d.quiet <= 0 {
		d.sched.Post(fire)
		return
	}
	if err := d.sched.PostAfter(d.quiet, fire); err != nil {
		d.forget(key, e)
	}
}

// Pending returns the number of keys waiting to run.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Close drops pending work; later posts are ignored.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	clear(d.entries)
	d.mu.Unlock()
}

func (d *Debouncer) fire(key string, e *debounced, gen uint64) {
	d.mu.Lock()
	if d.closed || d.entries[key] != e || e.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.entries, key)
	fn := e.fn
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) forget(key string, e *debounced) {
	d.mu.Lock()
	if d.entries[key] == e {
		delete(d.entries, key)
	}
	d.mu.Unlock()
}
