// Package subscription provides the in-process real-time bridge: repositories
// publish change notifications per topic, and subscribers receive the full,
// freshly queried result list on every change. Cancellation is explicit via
// Subscription.Cancel, so the unsubscribe contract is type-checked instead of
// convention-based.
package subscription

import (
	"context"
	"log/slog"
	"sync"
)

// Topic identifies one changeable result set, typically collection + user id.
type Topic string

// Broker fans change notifications out to active subscriptions. Notifications
// are coalesced per subscription: while a refresh is pending, further
// publishes fold into it.
type Broker struct {
	mu   sync.RWMutex
	subs map[Topic]map[uint64]chan struct{}
	next uint64
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[Topic]map[uint64]chan struct{})}
}

// Publish signals that the result set behind topic changed. It never blocks.
func (b *Broker) Publish(topic Topic) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, notify := range b.subs[topic] {
		select {
		case notify <- struct{}{}:
		default: // a refresh is already pending
		}
	}
}

func (b *Broker) attach(topics []Topic) (uint64, chan struct{}) {
	notify := make(chan struct{}, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	for _, t := range topics {
		if b.subs[t] == nil {
			b.subs[t] = make(map[uint64]chan struct{})
		}
		b.subs[t][id] = notify
	}
	return id, notify
}

func (b *Broker) detach(id uint64, topics []Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range topics {
		delete(b.subs[t], id)
		if len(b.subs[t]) == 0 {
			delete(b.subs, t)
		}
	}
}

// Query loads the current full result set for a subscription.
type Query[T any] func(ctx context.Context) ([]T, error)

// Subscription is one live watch over a query. Updates carries the full list
// after every change; Cancel stops delivery and releases the watch.
type Subscription[T any] struct {
	updates chan []T
	cancel  context.CancelFunc
	once    sync.Once
}

// Updates returns the delivery channel. It is closed after Cancel.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.updates
}

// Cancel stops the subscription. Safe to call more than once; deliveries
// racing Cancel are dropped, never sent after the channel closes.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers query against the given topics. The current result set
// is delivered immediately, then again after every Publish on any of the
// topics. Each subscription is served by its own goroutine, so deliveries
// within one subscription are ordered; independent subscriptions are fully
// independent, and the same query may be subscribed many times.
func Subscribe[T any](ctx context.Context, b *Broker, query Query[T], topics ...Topic) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		updates: make(chan []T, 1),
		cancel:  cancel,
	}

	id, notify := b.attach(topics)

	go func() {
		defer func() {
			b.detach(id, topics)
			close(sub.updates)
		}()

		deliver := func() bool {
			list, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				// Keep previously delivered data intact; the failure is
				// observable in the log.
				slog.Error("subscription query failed", "error", err)
				return true
			}
			select {
			case sub.updates <- list:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !deliver() {
			return
		}
		for {
			select {
			case <-notify:
				if !deliver() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}
