package app

import (
	"math"
	"time"

	"orrery/page"
	"orrery/tween"
)

// Animation timings.
const (
	headingSlide    = 1 * time.Second
	groupTurn       = 1500 * time.Millisecond
	sphereFade      = 2 * time.Second
	sphereFadeDelay = 1500 * time.Millisecond
	introDuration   = 1 * time.Second
	introDelay      = 1 * time.Second
	navDuration     = 2 * time.Second
	navStagger      = 500 * time.Millisecond
	loaderShrink    = 1500 * time.Millisecond
	introOffset     = 100
)

func yPercent(e *page.Element) tween.Prop { return tween.Float64(&e.YPercent) }
func yOffset(e *page.Element) tween.Prop  { return tween.Float64(&e.Y) }
func opacity(e *page.Element) tween.Prop  { return tween.Float64(&e.Opacity) }
func scale(e *page.Element) tween.Prop    { return tween.Float64(&e.Scale) }

// tracks builds one track per element matched by sel.
func (s *State) tracks(sel string, props ...func(*page.Element) tween.Track) []tween.Track {
	var out []tween.Track
	for _, e := range s.Page.Query(sel) {
		for _, p := range props {
			out = append(out, p(e))
		}
	}
	return out
}

func to(prop func(*page.Element) tween.Prop, v tween.Value) func(*page.Element) tween.Track {
	return func(e *page.Element) tween.Track { return tween.Track{Prop: prop(e), Value: v} }
}

// scroll runs the sequence for one accepted wheel event. The counter has
// already been advanced.
func (s *State) scroll() {
	ease := tween.Power2InOut
	s.Timeline.To(tween.Timing{Duration: headingSlide, Ease: ease},
		s.tracks(".headings", to(yPercent, tween.By(-100)))...)

	s.Timeline.To(tween.Timing{Duration: groupTurn, Ease: tween.BackInOut},
		tween.Track{Prop: tween.Float32(&s.Group.Rotation.Z), Value: tween.By(math.Pi / 2)})

	if s.counter == 0 {
		// Created after the slide so it wins on YPercent.
		s.Timeline.To(tween.Timing{Duration: headingSlide, Ease: ease},
			s.tracks(".headings", to(yPercent, tween.Abs(0)))...)
	}
	s.logf("scroll %d", s.counter)
}

// startup queues the entrance animations.
func (s *State) startup() {
	ease := tween.Power2InOut

	for _, m := range s.Spheres {
		m.Material.Transparent = true
		m.Material.Opacity = 0
		delay := time.Duration(s.rng.Float64() * float64(sphereFadeDelay))
		s.Timeline.To(tween.Timing{Duration: sphereFade, Delay: delay, Ease: ease},
			tween.Track{Prop: tween.Float32(&m.Material.Opacity), Value: tween.Abs(1)})
	}

	intro := tween.Timing{Duration: introDuration, Delay: introDelay, Ease: ease}
	s.Timeline.From(intro, s.tracks(".headings-container",
		to(yOffset, tween.Abs(introOffset)), to(opacity, tween.Abs(0)))...)
	s.Timeline.From(intro, s.tracks(".para p",
		to(yOffset, tween.Abs(introOffset)), to(opacity, tween.Abs(0)))...)
	s.Timeline.From(intro, s.tracks(".line",
		to(opacity, tween.Abs(0)), to(scale, tween.Abs(0)))...)

	nav := s.Page.Query("nav h1, nav a")
	s.Timeline.Stagger(len(nav), navStagger, tween.Timing{Duration: navDuration, Ease: ease}, true,
		func(i int) []tween.Track {
			return []tween.Track{
				{Prop: yOffset(nav[i]), Value: tween.Abs(-introOffset)},
				{Prop: opacity(nav[i]), Value: tween.Abs(0)},
			}
		})
}

// onLoad runs once every startup texture has settled: the loader overlay
// shrinks away after LoaderDelay.
func (s *State) onLoad() {
	s.logf("assets loaded, hiding loader in %v", LoaderDelay)
	// The timeline still holds the previous frame's time here.
	delay := LoaderDelay
	if s.now > s.Timeline.Now() {
		delay += s.now - s.Timeline.Now()
	}
	s.Timeline.To(tween.Timing{Duration: loaderShrink, Delay: delay, Ease: tween.Power2InOut},
		s.tracks(".loader", to(scale, tween.Abs(0)))...)
}
