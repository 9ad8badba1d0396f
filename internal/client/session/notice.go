package session

import (
	"sync"

	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
)

// Level classifies a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-visible message.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices as they are raised.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// Inbox is a Notifier that queues notices until they are drained.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify queues n.
func (i *Inbox) Notify(n Notice) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.notices = append(i.notices, n)
}

// Drain returns queued notices and empties the queue.
func (i *Inbox) Drain() []Notice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	return out
}

// levelFor maps an error code to the notice level shown for it.
func levelFor(code apperrors.Code) Level {
	if code.IsWarning() {
		return LevelWarning
	}
	return LevelError
}
