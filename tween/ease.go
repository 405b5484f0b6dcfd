package tween

import "math"

// Ease maps linear progress in [0,1] to eased progress.
// Overshooting curves may leave [0,1] in between, but must map 0->0 and 1->1.
type Ease func(p float64) float64

// Linear is the identity curve.
func Linear(p float64) float64 { return p }

// InOutFromOut mirrors an ease-out curve into a symmetric in-out curve.
func InOutFromOut(out Ease) Ease {
	return func(p float64) float64 {
		if p < 0.5 {
			return (1 - out(1-p*2)) / 2
		}
		return 0.5 + out((p-0.5)*2)/2
	}
}

// PowerOut returns an ease-out curve of the given power (1 = quad, 2 = cubic).
func PowerOut(power int) Ease {
	exp := float64(power + 1)
	return func(p float64) float64 {
		return 1 - math.Pow(1-p, exp)
	}
}

// BackOut returns an ease-out curve overshooting by s (1.70158 is the usual amount).
func BackOut(s float64) Ease {
	return func(p float64) float64 {
		p--
		return p*p*((s+1)*p+s) + 1
	}
}

var (
	// Power2InOut is a cubic in-out curve.
	Power2InOut = InOutFromOut(PowerOut(2))
	// BackInOut anticipates, then overshoots the target.
	BackInOut = InOutFromOut(BackOut(1.70158))
)

// ByName resolves "linear", "power2.inOut" and "back.inOut".
func ByName(name string) (Ease, bool) {
	switch name {
	case "", "none", "linear":
		return Linear, true
	case "power2.inOut":
		return Power2InOut, true
	case "back.inOut":
		return BackInOut, true
	case "power2.out":
		return PowerOut(2), true
	case "back.out":
		return BackOut(1.70158), true
	}
	return nil, false
}
