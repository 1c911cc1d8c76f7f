package interaction

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

// Notification defaults.
const (
	DefaultCapacity = 3
	DefaultDuration = 4 * time.Second
)

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelFailure
)

func (l Level) String() string {
	if l == LevelFailure {
		return "failure"
	}
	return "success"
}

// Notification is one transient message about a mutation outcome.
type Notification struct {
	ID        string
	Text      string
	Level     Level
	CreatedAt time.Time
}

type pending struct {
	Notification
	timer clock.Timer
}

// Notifications is a bounded FIFO of messages. Each message is dismissed
// after the display duration or by Dismiss. When full, the oldest is dropped.
type Notifications struct {
	mu       sync.Mutex
	items    []*pending
	clock    clock.Clock
	capacity int
	duration time.Duration
	onPush   func(Notification)
}

// NotificationOption configures Notifications.
type NotificationOption func(*Notifications)

// WithCapacity sets the queue size.
func WithCapacity(n int) NotificationOption {
	return func(q *Notifications) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithDuration sets how long a notification stays visible.
func WithDuration(d time.Duration) NotificationOption {
	return func(q *Notifications) {
		if d > 0 {
			q.duration = d
		}
	}
}

// OnPush registers a listener invoked for every new notification.
func OnPush(fn func(Notification)) NotificationOption {
	return func(q *Notifications) { q.onPush = fn }
}

// NewNotifications creates an empty queue.
func NewNotifications(clk clock.Clock, opts ...NotificationOption) *Notifications {
	if clk == nil {
		clk = clock.WallClock
	}
	q := &Notifications{
		clock:    clk,
		capacity: DefaultCapacity,
		duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Success enqueues a success message.
func (q *Notifications) Success(text string) Notification {
	return q.Push(LevelSuccess, text)
}

// Failure enqueues a failure message.
func (q *Notifications) Failure(text string) Notification {
	return q.Push(LevelFailure, text)
}

// Push enqueues a message and schedules its dismissal.
func (q *Notifications) Push(level Level, text string) Notification {
	n := &pending{Notification: Notification{
		ID:        uuid.NewString(),
		Text:      text,
		Level:     level,
		CreatedAt: q.clock.Now(),
	}}

	q.mu.Lock()
	q.items = append(q.items, n)
	var stale []clock.Timer
	for len(q.items) > q.capacity {
		if t := q.items[0].timer; t != nil {
			stale = append(stale, t)
		}
		q.items = q.items[1:]
	}
	q.mu.Unlock()

	// Timers are managed outside mu: the clock may run expiry callbacks while
	// holding its own lock, and those callbacks take mu.
	for _, t := range stale {
		t.Stop()
	}

	id := n.ID
	timer := q.clock.AfterFunc(q.duration, func() { q.expire(id) })

	q.mu.Lock()
	if q.indexOf(id) >= 0 {
		n.timer = timer
		q.mu.Unlock()
	} else {
		q.mu.Unlock()
		timer.Stop()
	}

	if q.onPush != nil {
		q.onPush(n.Notification)
	}
	return n.Notification
}

// Dismiss removes a message early. It reports whether the message was visible.
func (q *Notifications) Dismiss(id string) bool {
	q.mu.Lock()
	i := q.indexOf(id)
	if i < 0 {
		q.mu.Unlock()
		return false
	}
	timer := q.items[i].timer
	q.items = append(q.items[:i], q.items[i+1:]...)
	q.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	return true
}

// expire is the timer callback. It must not call into the clock.
func (q *Notifications) expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.indexOf(id); i >= 0 {
		q.items = append(q.items[:i], q.items[i+1:]...)
	}
}

// Active returns the visible messages, oldest first.
func (q *Notifications) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	for i, n := range q.items {
		out[i] = n.Notification
	}
	return out
}

// indexOf returns the position of id. mu must be held.
func (q *Notifications) indexOf(id string) int {
	for i, n := range q.items {
		if n.ID == id {
			return i
		}
	}
	return -1
}
