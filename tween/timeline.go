// Package tween animates float properties over time.
//
// A Timeline owns every running tween and is advanced by the frame loop with
// the current time. Tweens update in creation order, so when two tweens drive
// the same property the newer one wins for that frame. Start values are read
// when a tween becomes active, which makes relative targets ("+=", "-=")
// relative to the property at that moment.
package tween

import "time"

// Timing holds the duration, delay and ease shared by all tracks of a tween.
type Timing struct {
	Duration time.Duration
	Delay    time.Duration
	Ease     Ease
}

// Tween is one running animation.
type Tween struct {
	timing  Timing
	start   time.Duration
	tracks  []Track
	from    []float64
	to      []float64
	fromDir bool
	started bool
	done    bool
}

// Done reports whether the tween has reached its end value.
func (t *Tween) Done() bool { return t.done }

// Start returns the timeline time at which the tween becomes active.
func (t *Tween) Start() time.Duration { return t.start }

// Timeline is a set of tweens driven by an external clock.
//
// It is not safe for concurrent use; it belongs to the frame loop.
type Timeline struct {
	now    time.Duration
	tweens []*Tween
}

// NewTimeline returns a timeline starting at now.
func NewTimeline(now time.Duration) *Timeline {
	return &Timeline{now: now}
}

// Now returns the time of the last Advance.
func (tl *Timeline) Now() time.Duration { return tl.now }

// Active returns the number of unfinished tweens.
func (tl *Timeline) Active() int { return len(tl.tweens) }

// To animates each track from its current value to its Value.
// Tracks with invalid props are dropped; a tween with no tracks is a no-op
// and returns nil.
func (tl *Timeline) To(timing Timing, tracks ...Track) *Tween {
	return tl.add(timing, tracks, false)
}

// From animates each track from its Value back to the value the property
// has now. The start value is applied immediately, before any delay.
func (tl *Timeline) From(timing Timing, tracks ...Track) *Tween {
	return tl.add(timing, tracks, true)
}

// Stagger creates n tweens whose delays grow by step, one per index.
func (tl *Timeline) Stagger(n int, step time.Duration, timing Timing, from bool, tracks func(i int) []Track) []*Tween {
	out := make([]*Tween, 0, n)
	for i := 0; i < n; i++ {
		s := timing
		s.Delay += time.Duration(i) * step
		if tw := tl.add(s, tracks(i), from); tw != nil {
			out = append(out, tw)
		}
	}
	return out
}

func (tl *Timeline) add(timing Timing, tracks []Track, fromDir bool) *Tween {
	valid := make([]Track, 0, len(tracks))
	for _, tr := range tracks {
		if tr.Prop.valid() {
			valid = append(valid, tr)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	if timing.Ease == nil {
		timing.Ease = Linear
	}
	tw := &Tween{
		timing:  timing,
		start:   tl.now + timing.Delay,
		tracks:  valid,
		from:    make([]float64, len(valid)),
		to:      make([]float64, len(valid)),
		fromDir: fromDir,
	}
	if fromDir {
		for i, tr := range valid {
			end := tr.Prop.Get()
			tw.to[i] = end
			tw.from[i] = tr.Value.resolve(end)
			tr.Prop.Set(tw.from[i])
		}
		tw.started = true
	}
	tl.tweens = append(tl.tweens, tw)
	return tw
}

// Advance moves the timeline to now and renders every active tween.
// Finished tweens are removed.
func (tl *Timeline) Advance(now time.Duration) {
	if now > tl.now {
		tl.now = now
	}
	live := tl.tweens[:0]
	for _, tw := range tl.tweens {
		tw.render(tl.now)
		if !tw.done {
			live = append(live, tw)
		}
	}
	for i := len(live); i < len(tl.tweens); i++ {
		tl.tweens[i] = nil
	}
	tl.tweens = live
}

func (t *Tween) render(now time.Duration) {
	if t.done || now < t.start {
		return
	}
	if !t.started {
		for i, tr := range t.tracks {
			t.from[i] = tr.Prop.Get()
			t.to[i] = tr.Value.resolve(t.from[i])
		}
		t.started = true
	}

	p := 1.0
	if t.timing.Duration > 0 {
		p = float64(now-t.start) / float64(t.timing.Duration)
	}
	if p >= 1 {
		for i, tr := range t.tracks {
			tr.Prop.Set(t.to[i])
		}
		t.done = true
		return
	}
	e := t.timing.Ease(p)
	for i, tr := range t.tracks {
		tr.Prop.Set(t.from[i] + (t.to[i]-t.from[i])*e)
	}
}
