package kernel

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestInboxTryRecvEmpty(t *testing.T) {
	mb := NewInbox[int](4)

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestInboxTrySendFull(t *testing.T) {
	mb := NewInbox[int](4)

	for i := 0; i < mb.Cap(); i++ {
		if ok := mb.TrySend(i); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(99); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}

	for i := 0; i < mb.Cap(); i++ {
		got, ok := mb.TryRecv()
		if !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
		if got != i {
			t.Fatalf("TryRecv() = %d, want %d", got, i)
		}
	}
}

func TestInboxDrainOrder(t *testing.T) {
	mb := NewInbox[string](0)
	if mb.Cap() != DefaultInboxSlots {
		t.Fatalf("Cap() = %d, want %d", mb.Cap(), DefaultInboxSlots)
	}
	mb.TrySend("a")
	mb.TrySend("b")
	mb.TrySend("c")

	var got []string
	n := mb.Drain(func(s string) { got = append(got, s) })
	if n != 3 || len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("Drain() = %d %v, want 3 [a b c]", n, got)
	}
	if mb.Len() != 0 {
		t.Fatalf("Len() = %d after drain, want 0", mb.Len())
	}
}

func TestInboxSendHonorsContext(t *testing.T) {
	mb := NewInbox[int](1)
	mb.TrySend(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := mb.Send(ctx, 2); err == nil {
		t.Fatalf("Send() on full inbox err = nil, want context error")
	}
}

func TestInboxSendWaitsForRoom(t *testing.T) {
	mb := NewInbox[int](1)
	mb.TrySend(1)

	done := make(chan error, 1)
	go func() { done <- mb.Send(context.Background(), 2) }()

	time.Sleep(20 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Send() on full inbox returned early, err = %v", err)
	default:
	}

	if got, ok := mb.TryRecv(); !ok || got != 1 {
		t.Fatalf("TryRecv() = %d, %v, want 1, true", got, ok)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Send() err = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Send() still blocked after a slot was freed")
	}
	if got, ok := mb.TryRecv(); !ok || got != 2 {
		t.Fatalf("TryRecv() = %d, %v, want 2, true", got, ok)
	}
}

func TestInboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 2_000
		total     = producers * perProd
	)

	mb := NewInbox[uint32](8)
	ctx := context.Background()

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				_ = mb.Send(ctx, uint32(producerID*perProd+i))
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	for i := 0; i < total; {
		id, ok := mb.TryRecv()
		if !ok {
			runtime.Gosched()
			continue
		}
		if int(id) >= total {
			t.Fatalf("TryRecv() id = %d, want < %d", id, total)
		}
		if seen[id] {
			t.Fatalf("TryRecv() duplicate id %d", id)
		}
		seen[id] = true
		i++
	}

	wg.Wait()
}

func TestClockTickToIsMonotonic(t *testing.T) {
	var c Clock
	c.TickTo(10)
	c.TickTo(5)
	if got := c.Ticks(); got != 10 {
		t.Fatalf("Ticks() = %d, want 10", got)
	}
	if got := c.Now(); got != 10*time.Millisecond {
		t.Fatalf("Now() = %v, want 10ms", got)
	}
}

func TestClockPoll(t *testing.T) {
	var c Clock
	ch := make(chan uint64, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	c.Poll(ch)
	if got := c.Ticks(); got != 3 {
		t.Fatalf("Ticks() = %d, want 3", got)
	}

	close(ch)
	c.Poll(ch)
	c.Poll(nil)
	if got := c.Ticks(); got != 3 {
		t.Fatalf("Ticks() after closed poll = %d, want 3", got)
	}
}
