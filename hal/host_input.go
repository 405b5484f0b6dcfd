package hal

type hostInput struct {
	ch chan Event

	// last emitted viewport, so Layout-driven polling only reports changes.
	w, h int
	dpr  float64
}

func newHostInput() *hostInput {
	return &hostInput{ch: make(chan Event, 64)}
}

func (in *hostInput) Events() <-chan Event { return in.ch }

func (in *hostInput) emit(ev Event) {
	select {
	case in.ch <- ev:
	default:
	}
}

// resize reports a viewport change. Repeated identical sizes are ignored.
func (in *hostInput) resize(w, h int, dpr float64) {
	if w == in.w && h == in.h && dpr == in.dpr {
		return
	}
	in.w, in.h, in.dpr = w, h, dpr
	in.emit(Event{Kind: EventResize, Width: w, Height: h, PixelRatio: dpr})
}

func (in *hostInput) wheel(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	in.emit(Event{Kind: EventWheel, DeltaX: dx, DeltaY: dy})
}
