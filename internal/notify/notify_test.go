package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Notification) Notification {
	t.Helper()
	select {
	case n, ok := <-ch:
		require.True(t, ok, "channel closed before notification arrived")
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return Notification{}
	}
}

func TestNotifyDeliversInOrder(t *testing.T) {
	s := NewService(nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	s.Notify("Entry saved", "")
	s.Notify("Streak +1 🎉", "You're on a 3 day streak!")
	s.Notify("Deleted", "Entry removed.")

	first := receive(t, ch)
	second := receive(t, ch)
	third := receive(t, ch)

	assert.Equal(t, "Entry saved", first.Title)
	assert.Equal(t, "Streak +1 🎉", second.Title)
	assert.Equal(t, "You're on a 3 day streak!", second.Description)
	assert.Equal(t, "Deleted", third.Title)
}

func TestNotificationIDsAreMonotonic(t *testing.T) {
	s := NewService(nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	const total = 20
	for i := 0; i < total; i++ {
		s.Notify("n", "")
	}

	var prev int64
	for i := 0; i < total; i++ {
		n := receive(t, ch)
		assert.Greater(t, n.ID, prev, "ids must strictly increase")
		prev = n.ID
	}
}

func TestSubscribeStopsOnContextCancel(t *testing.T) {
	s := NewService(nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	s.Notify("before cancel", "")
	receive(t, ch)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
