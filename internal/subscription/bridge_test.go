package subscription

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type store struct {
	mu    sync.Mutex
	items []string
}

func (s *store) query(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.items...), nil
}

func (s *store) set(items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func receive(t *testing.T, sub *Subscription[string]) []string {
	t.Helper()
	select {
	case list, ok := <-sub.Updates():
		require.True(t, ok, "updates channel closed unexpectedly")
		return list
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return nil
	}
}

func TestSubscribeDeliversInitialList(t *testing.T) {
	broker := NewBroker()
	s := &store{items: []string{"a", "b"}}

	sub := Subscribe(context.Background(), broker, s.query, "goals:u1")
	defer sub.Cancel()

	require.Equal(t, []string{"a", "b"}, receive(t, sub))
}

func TestPublishDeliversFreshList(t *testing.T) {
	broker := NewBroker()
	s := &store{items: []string{"a", "b"}}

	sub := Subscribe(context.Background(), broker, s.query, "goals:u1")
	defer sub.Cancel()
	receive(t, sub)

	// One change through the write path: exactly one further delivery with
	// the removed item missing.
	s.set("a")
	broker.Publish("goals:u1")

	require.Equal(t, []string{"a"}, receive(t, sub))

	select {
	case extra := <-sub.Updates():
		t.Fatalf("unexpected extra delivery: %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	broker := NewBroker()
	s := &store{items: []string{"a"}}

	sub := Subscribe(context.Background(), broker, s.query, "goals:u1")
	receive(t, sub)

	sub.Cancel()

	// The channel drains and closes; no further lists arrive.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("updates channel never closed after Cancel")
		}
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	broker := NewBroker()
	s := &store{}

	sub := Subscribe(context.Background(), broker, s.query, "goals:u1")
	sub.Cancel()
	sub.Cancel()
	broker.Publish("goals:u1") // must not panic or deliver
}

func TestIndependentSubscriptions(t *testing.T) {
	broker := NewBroker()
	goals := &store{items: []string{"g1"}}
	workouts := &store{items: []string{"w1"}}

	gsub := Subscribe(context.Background(), broker, goals.query, "goals:u1")
	defer gsub.Cancel()
	wsub := Subscribe(context.Background(), broker, workouts.query, "workouts:u1")
	defer wsub.Cancel()

	receive(t, gsub)
	receive(t, wsub)

	goals.set("g1", "g2")
	broker.Publish("goals:u1")

	require.Equal(t, []string{"g1", "g2"}, receive(t, gsub))

	select {
	case list := <-wsub.Updates():
		t.Fatalf("workout subscription saw goal change: %v", list)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSameQuerySubscribedTwice(t *testing.T) {
	broker := NewBroker()
	s := &store{items: []string{"a"}}

	first := Subscribe(context.Background(), broker, s.query, "goals:u1")
	second := Subscribe(context.Background(), broker, s.query, "goals:u1")
	receive(t, first)
	receive(t, second)

	first.Cancel()

	s.set("a", "b")
	broker.Publish("goals:u1")

	// The surviving subscription keeps its own lifecycle.
	require.Equal(t, []string{"a", "b"}, receive(t, second))
	second.Cancel()
}
