package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := NewBus()
	s1 := b.Subscribe()
	s2 := b.Subscribe()
	defer s1.Close()
	defer s2.Close()

	b.Publish("hello")

	require.Equal(t, "hello", <-s1.C())
	require.Equal(t, "hello", <-s2.C())
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	b := NewBus()
	s := b.Subscribe()
	defer s.Close()

	for i := 0; i < backlog+10; i++ {
		b.Publish(i)
	}

	require.Positive(t, s.Dropped())

	first := <-s.C()
	require.NotEqual(t, 0, first, "oldest events should have been dropped")
}

func TestCloseStopsDelivery(t *testing.T) {
	b := NewBus()
	s := b.Subscribe()
	s.Close()

	b.Publish("after-close")

	select {
	case _, ok := <-s.C():
		require.False(t, ok, "channel should be closed")
	case <-time.After(50 * time.Millisecond):
		t.Fatal("expected closed channel to return immediately")
	}
}

func TestSubscriberCount(t *testing.T) {
	b := NewBus()
	require.Equal(t, 0, b.SubscriberCount())
	s := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())
	s.Close()
	require.Equal(t, 0, b.SubscriberCount())
}
