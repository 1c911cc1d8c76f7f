// Package resource keeps a local view of server-owned collections consistent
// under concurrent reads, mutations and a fallible network.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/juju/clock"
	"golang.org/x/sync/singleflight"

	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/metrics"
)

// DefaultMaxEntries bounds the number of cached keys.
const DefaultMaxEntries = 256

// ErrClosed is returned by reads against a closed engine.
var ErrClosed = errors.New("resource engine closed")

// LoadFunc is the untyped loader the engine drives.
type LoadFunc func(ctx context.Context) (any, error)

// Options configures an Engine.
type Options struct {
	Clock      clock.Clock
	MaxEntries int
	// Stale maps a resource type to its staleness window. Types not listed use zero.
	Stale map[string]time.Duration
	// Dependents maps a resource type to the types a successful mutation of it also invalidates.
	Dependents map[string][]string
	Metrics    *metrics.Collector
	Logger     *slog.Logger
}

// Engine owns every cache entry. All entry state sits behind mu; loaders and
// performers run outside it.
type Engine struct {
	mu      sync.Mutex
	entries *lru.Cache[Key, *entry]
	flights singleflight.Group
	seq     uint64
	closed  bool

	subs   map[Key]map[uint64]chan Entry
	subSeq uint64

	clock      clock.Clock
	stale      map[string]time.Duration
	dependents map[string][]string
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// outcome is the shared result of one loading cycle.
type outcome struct {
	entry   Entry
	applied bool
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Engine{
		subs:       make(map[Key]map[uint64]chan Entry),
		clock:      opts.Clock,
		stale:      make(map[string]time.Duration, len(opts.Stale)),
		dependents: make(map[string][]string, len(opts.Dependents)),
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	for t, d := range opts.Stale {
		e.stale[t] = d
	}
	for t, deps := range opts.Dependents {
		e.dependents[t] = append([]string(nil), deps...)
	}

	// Size is validated above so the constructor cannot fail.
	e.entries, _ = lru.NewWithEvict[Key, *entry](opts.MaxEntries, e.onEvict)
	return e
}

// onEvict runs with mu held, from within entries.Add or entries.Purge.
func (e *Engine) onEvict(key Key, ent *entry) {
	ent.evicted = true
	e.logger.Debug("cache entry evicted", "key", key.String())
}

// StaleWindow returns the staleness window configured for resourceType.
func (e *Engine) StaleWindow(resourceType string) time.Duration {
	return e.stale[resourceType]
}

// Read returns the settled entry for key, starting or joining a loading cycle
// when the cached state is missing, stale or invalidated. The returned error is
// only ever ctx.Err() or ErrClosed; load failures are reported in Entry.Err.
func (e *Engine) Read(ctx context.Context, key Key, load LoadFunc) (Entry, error) {
	for {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return Entry{Key: key}, ErrClosed
		}
		ent, ch := e.acquire(ctx, key, load)
		if ch == nil {
			snap := ent.Entry
			e.mu.Unlock()
			return snap, nil
		}
		e.mu.Unlock()

		select {
		case res := <-ch:
			out := res.Val.(outcome)
			if out.applied {
				return out.entry, nil
			}
			// Superseded by an invalidation or eviction; read again.
		case <-ctx.Done():
			snap, _ := e.Peek(key)
			return snap, ctx.Err()
		}
	}
}

// Observe returns the current entry without blocking. It starts a loading
// cycle under the same rules as Read; the returned snapshot is then Loading.
func (e *Engine) Observe(ctx context.Context, key Key, load LoadFunc) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Entry{Key: key}
	}
	ent, _ := e.acquire(ctx, key, load)
	return ent.Entry
}

// acquire returns the entry for key and, when the caller must wait, the
// channel of the in-flight cycle. mu must be held.
func (e *Engine) acquire(ctx context.Context, key Key, load LoadFunc) (*entry, <-chan singleflight.Result) {
	ent, ok := e.entries.Get(key)
	if !ok {
		ent = &entry{Entry: Entry{Key: key}}
		e.entries.Add(key, ent)
		e.metrics.SetEntries(e.entries.Len())
		return ent, e.start(ctx, ent, load)
	}

	switch {
	case ent.Status == Loading:
		return ent, e.join(ent)
	case e.needsFetch(ent):
		return ent, e.start(ctx, ent, load)
	default:
		e.metrics.RecordHit(key.Type)
		return ent, nil
	}
}

func (e *Engine) needsFetch(ent *entry) bool {
	if ent.Invalidated || ent.Status == Idle || ent.Status == Error {
		return true
	}
	return e.clock.Now().Sub(ent.FetchedAt) > e.stale[ent.Key.Type]
}

func flightKey(ent *entry) string {
	return ent.Key.String() + "#" + strconv.FormatUint(ent.Generation, 10)
}

// start begins a loading cycle for ent. mu must be held. The loader runs
// detached from the caller's cancellation.
func (e *Engine) start(ctx context.Context, ent *entry, load LoadFunc) <-chan singleflight.Result {
	e.seq++
	gen := e.seq
	ent.Generation = gen
	ent.Status = Loading

	loadCtx := context.WithoutCancel(ctx)
	e.logger.DebugContext(ctx, "loading", "key", ent.Key.String(), "generation", gen)

	return e.flights.DoChan(flightKey(ent), func() (any, error) {
		data, err := load(loadCtx)
		return e.resolve(ent, gen, data, err), nil
	})
}

// join attaches to the in-flight cycle of ent. mu must be held, which
// guarantees the cycle has not resolved yet.
func (e *Engine) join(ent *entry) <-chan singleflight.Result {
	gen := ent.Generation
	return e.flights.DoChan(flightKey(ent), func() (any, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		return outcome{entry: ent.Entry, applied: ent.Generation == gen && ent.Settled()}, nil
	})
}

// resolve applies a loader result unless the cycle has been superseded.
func (e *Engine) resolve(ent *entry, gen uint64, data any, err error) outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics.RecordFetch(ent.Key.Type, err)
	if e.closed || ent.evicted || ent.Generation != gen {
		e.metrics.RecordDiscard(ent.Key.Type)
		e.logger.Debug("discarding superseded load", "key", ent.Key.String(), "generation", gen)
		return outcome{}
	}

	if err != nil {
		ent.Status = Error
		ent.Err = err
	} else {
		ent.Status = Success
		ent.Err = nil
		ent.Data = data
		ent.HasData = true
		ent.FetchedAt = e.clock.Now()
	}
	ent.Invalidated = false

	snap := ent.Entry
	e.publish(snap)
	return outcome{entry: snap, applied: true}
}

// Peek returns the cached entry for key without fetching or touching recency.
func (e *Engine) Peek(key Key) (Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries.Peek(key)
	if !ok {
		return Entry{Key: key}, false
	}
	return ent.Entry, true
}

// Entries returns snapshots of every cached key.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, 0, e.entries.Len())
	for _, key := range e.entries.Keys() {
		if ent, ok := e.entries.Peek(key); ok {
			out = append(out, ent.Entry)
		}
	}
	return out
}

// Mutate runs perform and, only once it has succeeded, invalidates every entry
// of intent.Key.Type and of its dependent types. On failure the cache is left
// untouched and the error is returned unchanged.
func (e *Engine) Mutate(ctx context.Context, intent Intent, perform domain.Performer) error {
	err := perform(ctx)
	e.metrics.RecordMutation(intent.Key.Type, err)
	if err != nil {
		e.logger.DebugContext(ctx, "mutation failed",
			"type", intent.Key.Type, "op", intent.Op.String(), "name", intent.Name, "error", err)
		return err
	}

	types := append([]string{intent.Key.Type}, e.dependents[intent.Key.Type]...)
	n := e.Invalidate(types...)
	e.logger.DebugContext(ctx, "mutation applied",
		"type", intent.Key.Type, "op", intent.Op.String(), "name", intent.Name, "invalidated", n)
	return nil
}

// Invalidate marks every entry of the given types for refetch and supersedes
// any in-flight load for them. It returns the number of entries touched.
func (e *Engine) Invalidate(types ...string) int {
	want := make(map[string]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, key := range e.entries.Keys() {
		if _, ok := want[key.Type]; !ok {
			continue
		}
		ent, ok := e.entries.Peek(key)
		if !ok {
			continue
		}
		e.seq++
		ent.Generation = e.seq
		ent.Invalidated = true
		if ent.Status == Loading {
			ent.Status = settledStatus(ent)
		}
		n++
	}
	return n
}

// settledStatus is the status an entry falls back to when its load is superseded.
func settledStatus(ent *entry) Status {
	switch {
	case ent.Err != nil:
		return Error
	case ent.HasData:
		return Success
	default:
		return Idle
	}
}

// Subscribe delivers each settled snapshot for key. Only the latest unread
// snapshot is kept. The returned cancel func closes the channel; it is safe to
// call more than once.
func (e *Engine) Subscribe(key Key) (<-chan Entry, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan Entry, 1)
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	e.subSeq++
	id := e.subSeq
	if e.subs[key] == nil {
		e.subs[key] = make(map[uint64]chan Entry)
	}
	e.subs[key][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if sub, ok := e.subs[key][id]; ok {
				delete(e.subs[key], id)
				if len(e.subs[key]) == 0 {
					delete(e.subs, key)
				}
				close(sub)
			}
		})
	}
}

// publish fans snap out to subscribers of its key. mu must be held.
func (e *Engine) publish(snap Entry) {
	for _, ch := range e.subs[snap.Key] {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close drops every entry and subscriber. Loads still in flight are discarded
// when they resolve.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.entries.Purge()
	for key, subs := range e.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(e.subs, key)
	}
	e.metrics.SetEntries(0)
}
