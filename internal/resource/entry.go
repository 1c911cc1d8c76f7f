package resource

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Key identifies one cached collection: a resource type plus an encoded query.
type Key struct {
	Type  string
	Query string
}

func (k Key) String() string {
	if k.Query == "" {
		return k.Type
	}
	return k.Type + "?" + k.Query
}

// Entry is a snapshot of the cached state for one key. Data is retained from
// the last success while Loading or in Error.
type Entry struct {
	Key         Key
	Data        any
	HasData     bool
	Status      Status
	Err         error
	FetchedAt   time.Time
	Generation  uint64
	Invalidated bool
}

// Settled reports whether the entry is not waiting on a fetch.
func (e Entry) Settled() bool {
	return e.Status == Success || e.Status == Error
}

// Op classifies a mutation.
type Op int

const (
	Create Op = iota
	Update
	Delete
	Action
)

func (o Op) String() string {
	switch o {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Action:
		return "action"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Intent describes a mutation against the collection at Key. Name labels
// actions such as "approve" or "ban".
type Intent struct {
	Key     Key
	Op      Op
	Name    string
	Payload any
}

// entry is the engine-owned mutable state behind an Entry.
type entry struct {
	Entry
	evicted bool
}
