package hal

import "time"

type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step advances by the wall-clock time since the previous call.
func (t *hostTime) step(n uint64) {
	now := time.Now()
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.stepN(n)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.stepN(ticks)
}

// advance adds a fixed simulated duration, ignoring the wall clock.
func (t *hostTime) advance(d time.Duration) {
	t.stepN(uint64(d / time.Millisecond))
}

// now returns the simulated time of the last emitted tick.
func (t *hostTime) now() time.Duration {
	return time.Duration(t.seq) * time.Millisecond
}

// stepN advances the sequence by n and publishes the newest value. Readers
// only care about the latest tick, so stale entries are skipped when the
// channel is full.
func (t *hostTime) stepN(n uint64) {
	if n == 0 {
		return
	}
	t.seq += n
	select {
	case t.ch <- t.seq:
	default:
	}
}
