package tween

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEaseEndpoints(t *testing.T) {
	for name, e := range map[string]Ease{
		"linear":       Linear,
		"power2.inOut": Power2InOut,
		"back.inOut":   BackInOut,
	} {
		if got := e(0); !approx(got, 0) {
			t.Fatalf("%s(0) = %v, want 0", name, got)
		}
		if got := e(1); !approx(got, 1) {
			t.Fatalf("%s(1) = %v, want 1", name, got)
		}
		if got := e(0.5); !approx(got, 0.5) {
			t.Fatalf("%s(0.5) = %v, want 0.5", name, got)
		}
	}
}

func TestBackInOutOvershoots(t *testing.T) {
	if got := BackInOut(0.1); got >= 0 {
		t.Fatalf("BackInOut(0.1) = %v, want < 0 (anticipation)", got)
	}
	if got := BackInOut(0.9); got <= 1 {
		t.Fatalf("BackInOut(0.9) = %v, want > 1 (overshoot)", got)
	}
}

func TestPower2InOutIsCubic(t *testing.T) {
	if got, want := Power2InOut(0.25), 4*0.25*0.25*0.25; !approx(got, want) {
		t.Fatalf("Power2InOut(0.25) = %v, want %v", got, want)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{"12.5", Abs(12.5)},
		{"+=2", By(2)},
		{"-=100", By(-100)},
		{"-=100%", By(-100)},
		{" 0 ", Abs(0)},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if err != nil {
			t.Fatalf("ParseValue(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseValue(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseValue("+=x"); err == nil {
		t.Fatalf("ParseValue(+=x) err = nil, want error")
	}
}

func TestToInterpolatesAndFinishes(t *testing.T) {
	var v float64
	tl := NewTimeline(0)
	tw := tl.To(Timing{Duration: time.Second}, Track{Prop: Float64(&v), Value: Abs(10)})

	tl.Advance(500 * time.Millisecond)
	if !approx(v, 5) {
		t.Fatalf("v at 0.5s = %v, want 5", v)
	}
	tl.Advance(2 * time.Second)
	if v != 10 || !tw.Done() || tl.Active() != 0 {
		t.Fatalf("v = %v done = %v active = %d, want 10 true 0", v, tw.Done(), tl.Active())
	}
}

func TestDelayHoldsValue(t *testing.T) {
	v := 3.0
	tl := NewTimeline(0)
	tl.To(Timing{Duration: time.Second, Delay: time.Second}, Track{Prop: Float64(&v), Value: Abs(0)})

	tl.Advance(900 * time.Millisecond)
	if v != 3 {
		t.Fatalf("v before delay = %v, want 3", v)
	}
	tl.Advance(1500 * time.Millisecond)
	if !approx(v, 1.5) {
		t.Fatalf("v mid tween = %v, want 1.5", v)
	}
}

func TestRelativeCapturesAtStart(t *testing.T) {
	var v float64
	tl := NewTimeline(0)
	tl.To(Timing{Duration: time.Second, Delay: time.Second}, Track{Prop: Float64(&v), Value: By(math.Pi / 2)})

	v = 1 // changed during the delay
	tl.Advance(time.Second)
	tl.Advance(3 * time.Second)
	if !approx(v, 1+math.Pi/2) {
		t.Fatalf("v = %v, want %v", v, 1+math.Pi/2)
	}
}

func TestFromAppliesImmediately(t *testing.T) {
	opacity := float32(1)
	tl := NewTimeline(0)
	tl.From(Timing{Duration: time.Second, Delay: time.Second}, Track{Prop: Float32(&opacity), Value: Abs(0)})

	if opacity != 0 {
		t.Fatalf("opacity after From = %v, want 0", opacity)
	}
	tl.Advance(5 * time.Second)
	if opacity != 1 {
		t.Fatalf("opacity after From completes = %v, want 1", opacity)
	}
}

func TestLaterTweenWins(t *testing.T) {
	y := 0.0
	tl := NewTimeline(0)
	tl.To(Timing{Duration: time.Second}, Track{Prop: Float64(&y), Value: By(-100)})
	tl.To(Timing{Duration: time.Second}, Track{Prop: Float64(&y), Value: Abs(0)})

	for ms := 0; ms <= 1000; ms += 100 {
		tl.Advance(time.Duration(ms) * time.Millisecond)
		if y != 0 {
			t.Fatalf("y at %dms = %v, want 0", ms, y)
		}
	}
}

func TestStaggerDelays(t *testing.T) {
	vals := make([]float64, 3)
	tl := NewTimeline(0)
	tws := tl.Stagger(3, 500*time.Millisecond, Timing{Duration: time.Second}, false, func(i int) []Track {
		return []Track{{Prop: Float64(&vals[i]), Value: Abs(1)}}
	})
	if len(tws) != 3 {
		t.Fatalf("len(Stagger()) = %d, want 3", len(tws))
	}
	for i, tw := range tws {
		if got, want := tw.Start(), time.Duration(i)*500*time.Millisecond; got != want {
			t.Fatalf("tween %d start = %v, want %v", i, got, want)
		}
	}
}

func TestInvalidTracksAreNoop(t *testing.T) {
	tl := NewTimeline(0)
	if tw := tl.To(Timing{Duration: time.Second}, Track{}); tw != nil {
		t.Fatalf("To() with no valid props = %v, want nil", tw)
	}
	if tl.Active() != 0 {
		t.Fatalf("Active() = %d, want 0", tl.Active())
	}
}
