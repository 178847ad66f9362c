package refresh

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

const NotificationTTL = 5 * time.Second

type Notification struct {
	ID      string
	Level   Level
	Message string
	Created time.Time
}

// Notifier keeps transient user notifications until they expire or are
// dismissed.
type Notifier struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = NotificationTTL
	}
	return &Notifier{
		cache: cache.New(ttl, 2*ttl),
		now:   time.Now,
	}
}

func (notifier *Notifier) Notify(level Level, message string) Notification {
	notification := Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Created: notifier.now(),
	}
	notifier.cache.Set(notification.ID, notification, cache.DefaultExpiration)
	return notification
}

// Active returns the unexpired notifications, oldest first.
func (notifier *Notifier) Active() []Notification {
	items := notifier.cache.Items()

	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if notification, ok := item.Object.(Notification); ok {
			out = append(out, notification)
		}
	}

	slices.SortFunc(out, func(a, b Notification) int {
		return a.Created.Compare(b.Created)
	})
	return out
}

func (notifier *Notifier) Dismiss(id string) bool {
	if _, ok := notifier.cache.Get(id); !ok {
		return false
	}
	notifier.cache.Delete(id)
	return true
}
