package kernel

import (
	"context"
	"sync"
	"time"
)

// DefaultInboxSlots is the capacity used by NewInbox when n <= 0.
const DefaultInboxSlots = 32

// Send retries a full inbox with a doubling pause between these bounds.
const (
	sendBackoffMin = 50 * time.Microsecond
	sendBackoffMax = 5 * time.Millisecond
)

// Inbox is a fixed-size multi-producer, single-consumer queue.
//
// Producers are background goroutines (asset loaders, file watchers); the
// consumer is the frame loop, which drains it once per frame so that all
// scene mutation stays on one goroutine.
type Inbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	mu    sync.Mutex
	head  uint32
	tail  uint32
	slots []T
}

// NewInbox returns an inbox with n slots.
func NewInbox[T any](n int) *Inbox[T] {
	if n <= 0 {
		n = DefaultInboxSlots
	}
	return &Inbox[T]{slots: make([]T, n)}
}

// Cap returns the number of slots.
func (mb *Inbox[T]) Cap() int { return len(mb.slots) }

// Len returns the number of queued messages.
func (mb *Inbox[T]) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return int(mb.head - mb.tail)
}

// TrySend attempts to enqueue a message, returning false if the inbox is full.
func (mb *Inbox[T]) TrySend(msg T) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := uint32(len(mb.slots))
	if n == 0 || mb.head-mb.tail >= n {
		return false
	}
	mb.slots[mb.head%n] = msg
	mb.head++
	return true
}

// Send enqueues a message, sleeping between retries until it succeeds or
// ctx is done.
func (mb *Inbox[T]) Send(ctx context.Context, msg T) error {
	wait := sendBackoffMin
	for !mb.TrySend(msg) {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if wait < sendBackoffMax {
			wait *= 2
		}
	}
	return nil
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (mb *Inbox[T]) TryRecv() (T, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var zero T
	if mb.tail == mb.head {
		return zero, false
	}
	n := uint32(len(mb.slots))
	msg := mb.slots[mb.tail%n]
	mb.slots[mb.tail%n] = zero
	mb.tail++
	return msg, true
}

// Drain calls fn for every queued message, in arrival order, and returns the count.
// Messages sent while draining are left for the next call.
func (mb *Inbox[T]) Drain(fn func(T)) int {
	n := mb.Len()
	for i := 0; i < n; i++ {
		msg, ok := mb.TryRecv()
		if !ok {
			return i
		}
		fn(msg)
	}
	return n
}
