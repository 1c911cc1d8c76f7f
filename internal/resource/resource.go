package resource

import (
	"context"
	"sync"
	"time"

	"github.com/alt-project/adminctl/internal/domain"
)

// Snapshot is the typed view of an Entry.
type Snapshot[T any] struct {
	Key         Key
	Data        T
	HasData     bool
	Status      Status
	Err         error
	FetchedAt   time.Time
	Generation  uint64
	Invalidated bool
}

// Settled reports whether the snapshot is not waiting on a fetch.
func (s Snapshot[T]) Settled() bool {
	return s.Status == Success || s.Status == Error
}

func typed[T any](e Entry) Snapshot[T] {
	s := Snapshot[T]{
		Key:         e.Key,
		HasData:     e.HasData,
		Status:      e.Status,
		Err:         e.Err,
		FetchedAt:   e.FetchedAt,
		Generation:  e.Generation,
		Invalidated: e.Invalidated,
	}
	if e.HasData {
		if data, ok := e.Data.(T); ok {
			s.Data = data
		}
	}
	return s
}

// Resource binds a key and a typed loader to an Engine. Every screen is a
// Resource configuration; mutations go through the same Resource so their
// invalidation covers all query variants of its type.
type Resource[T any] struct {
	engine *Engine
	key    Key
	load   domain.Loader[T]
}

// New creates a Resource for key.
func New[T any](engine *Engine, key Key, load func(ctx context.Context) (T, error)) *Resource[T] {
	return &Resource[T]{engine: engine, key: key, load: load}
}

// Key returns the cache key.
func (r *Resource[T]) Key() Key { return r.key }

func (r *Resource[T]) loadFunc() LoadFunc {
	return func(ctx context.Context) (any, error) {
		return r.load(ctx)
	}
}

// Read blocks until the entry is settled. See Engine.Read.
func (r *Resource[T]) Read(ctx context.Context) (Snapshot[T], error) {
	e, err := r.engine.Read(ctx, r.key, r.loadFunc())
	return typed[T](e), err
}

// Observe returns the current snapshot without blocking. See Engine.Observe.
func (r *Resource[T]) Observe(ctx context.Context) Snapshot[T] {
	return typed[T](r.engine.Observe(ctx, r.key, r.loadFunc()))
}

// Peek returns the cached snapshot without fetching.
func (r *Resource[T]) Peek() (Snapshot[T], bool) {
	e, ok := r.engine.Peek(r.key)
	return typed[T](e), ok
}

// Mutate runs perform and invalidates this resource's type on success.
func (r *Resource[T]) Mutate(ctx context.Context, op Op, name string, payload any, perform domain.Performer) error {
	return r.engine.Mutate(ctx, Intent{Key: r.key, Op: op, Name: name, Payload: payload}, perform)
}

// Subscribe delivers typed settled snapshots until cancel is called.
func (r *Resource[T]) Subscribe() (<-chan Snapshot[T], func()) {
	src, cancelSrc := r.engine.Subscribe(r.key)
	out := make(chan Snapshot[T], 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case e, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- typed[T](e):
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			cancelSrc()
			close(done)
		})
	}
}
