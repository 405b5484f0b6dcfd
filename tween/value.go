package tween

import (
	"fmt"
	"strconv"
	"strings"
)

// Prop is an animatable float property.
type Prop struct {
	Get func() float64
	Set func(float64)
}

// Float32 exposes a float32 field as a Prop.
func Float32(p *float32) Prop {
	return Prop{
		Get: func() float64 { return float64(*p) },
		Set: func(v float64) { *p = float32(v) },
	}
}

// Float64 exposes a float64 field as a Prop.
func Float64(p *float64) Prop {
	return Prop{
		Get: func() float64 { return *p },
		Set: func(v float64) { *p = v },
	}
}

func (p Prop) valid() bool { return p.Get != nil && p.Set != nil }

// Value is a tween end point: absolute, or relative to the value the
// property has when the tween starts.
type Value struct {
	V        float64
	Relative bool
}

// Abs returns an absolute value.
func Abs(v float64) Value { return Value{V: v} }

// By returns a relative value ("+=d"; negative d for "-=").
func By(d float64) Value { return Value{V: d, Relative: true} }

func (v Value) resolve(from float64) float64 {
	if v.Relative {
		return from + v.V
	}
	return v.V
}

// ParseValue parses "12.5", "+=1.57" or "-=100". A trailing "%" is accepted
// and ignored: percentages are expressed through percent-based props.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	rel := 0.0
	switch {
	case strings.HasPrefix(s, "+="):
		rel = 1
		s = s[2:]
	case strings.HasPrefix(s, "-="):
		rel = -1
		s = s[2:]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("tween: parse value %q: %w", s, err)
	}
	if rel != 0 {
		return By(rel * f), nil
	}
	return Abs(f), nil
}

// Track pairs a property with its end value.
type Track struct {
	Prop  Prop
	Value Value
}
