package view

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notification is a time-limited, non-blocking user notice (the toast
// analog). It expires on its own; nothing waits on it.
type Notification struct {
	ID        string      `json:"id"`
	Level     NoticeLevel `json:"level"`
	Message   string      `json:"message"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NotificationCenter holds the currently visible notices and drops them once
// their display window lapses.
type NotificationCenter struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notices []Notification
}

func NewNotificationCenter(ttl time.Duration) *NotificationCenter {
	return &NotificationCenter{
		ttl: ttl,
		now: time.Now,
	}
}

// Push adds a notice and returns it.
func (n *NotificationCenter) Push(level NoticeLevel, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	notice := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		ExpiresAt: n.now().Add(n.ttl),
	}
	n.notices = append(n.notices, notice)
	return notice
}

// Active returns the notices still inside their display window and prunes
// the rest.
func (n *NotificationCenter) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	active := n.notices[:0]
	for _, notice := range n.notices {
		if notice.ExpiresAt.After(now) {
			active = append(active, notice)
		}
	}
	n.notices = active

	out := make([]Notification, len(active))
	copy(out, active)
	return out
}
