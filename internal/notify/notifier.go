// Package notify delivers the single user-visible outcome each asynchronous
// operation must produce. The dashboard renders these as toasts; the server
// records them structurally.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes success from failure notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one delivered outcome.
type Notification struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives operation outcomes. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Success(title, message string) {
	n.Logger.Info("notification", "kind", KindSuccess, "id", uuid.NewString(), "title", title, "message", message)
}

func (n LogNotifier) Error(title, message string) {
	n.Logger.Warn("notification", "kind", KindError, "id", uuid.NewString(), "title", title, "message", message)
}

// MemoryNotifier collects notifications for assertions in tests.
type MemoryNotifier struct {
	mu    sync.Mutex
	items []Notification
	nowFn func() time.Time
}

// NewMemoryNotifier constructs an empty collector.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{nowFn: time.Now}
}

func (n *MemoryNotifier) Success(title, message string) {
	n.record(KindSuccess, title, message)
}

func (n *MemoryNotifier) Error(title, message string) {
	n.record(KindError, title, message)
}

func (n *MemoryNotifier) record(kind Kind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		At:      n.nowFn(),
	})
}

// Items returns a snapshot of recorded notifications.
func (n *MemoryNotifier) Items() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.items...)
}
