package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_ActiveIsOrderedByCreation(t *testing.T) {
	notifier := NewNotifier(time.Minute)
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	notifier.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first := notifier.Notify(LevelSuccess, "first")
	second := notifier.Notify(LevelDanger, "second")

	active := notifier.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNotifier_Dismiss(t *testing.T) {
	notifier := NewNotifier(time.Minute)
	notification := notifier.Notify(LevelInfo, "hello")

	assert.True(t, notifier.Dismiss(notification.ID))
	assert.False(t, notifier.Dismiss(notification.ID))
	assert.Empty(t, notifier.Active())
}

func TestNotifier_Expires(t *testing.T) {
	notifier := NewNotifier(50 * time.Millisecond)
	notifier.Notify(LevelWarning, "short lived")
	require.Len(t, notifier.Active(), 1)

	assert.Eventually(t, func() bool {
		return len(notifier.Active()) == 0
	}, time.Second, 10*time.Millisecond)
}
