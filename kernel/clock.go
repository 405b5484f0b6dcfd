package kernel

import (
	"sync/atomic"
	"time"
)

// TickDuration is the length of one time-base tick.
const TickDuration = time.Millisecond

// Clock is the frame-loop timebase: a monotonic tick counter (1ms per tick)
// advanced from the HAL tick stream.
type Clock struct {
	ticks atomic.Uint64
}

// TickTo advances the clock to seq. Older sequence numbers are ignored.
func (c *Clock) TickTo(seq uint64) {
	for {
		cur := c.ticks.Load()
		if seq <= cur {
			return
		}
		if c.ticks.CompareAndSwap(cur, seq) {
			return
		}
	}
}

// Poll drains every pending sequence number from ch without blocking and
// advances the clock to the newest one.
func (c *Clock) Poll(ch <-chan uint64) {
	if ch == nil {
		return
	}
	for {
		select {
		case seq, ok := <-ch:
			if !ok {
				return
			}
			c.TickTo(seq)
		default:
			return
		}
	}
}

// Ticks returns the current tick count.
func (c *Clock) Ticks() uint64 {
	return c.ticks.Load()
}

// Now returns the elapsed time since the first tick.
func (c *Clock) Now() time.Duration {
	return time.Duration(c.ticks.Load()) * TickDuration
}
