package clock

import "time"

// Manual is a device whose time only moves when told to
type Manual struct {
	Now       time.Duration
	Scheduled bool
	Held      bool
}

func (m *Manual) ScheduleStart(delay time.Duration) (time.Duration, error) {
	m.Scheduled = true
	return m.Now, nil
}

func (m *Manual) DeviceNow() time.Duration {
	return m.Now
}

func (m *Manual) Stop() {
	m.Scheduled = false
}

func (m *Manual) SetPaused(paused bool) {
	m.Held = paused
}

func (m *Manual) Advance(d time.Duration) {
	if d > 0 {
		m.Now += d
	}
}

// Wall keeps time with the monotonic system clock, for playing without
// audio output
type Wall struct {
	origin time.Time
}

func NewWall() *Wall {
	return &Wall{origin: time.Now()}
}

func (w *Wall) ScheduleStart(delay time.Duration) (time.Duration, error) {
	return w.DeviceNow(), nil
}

func (w *Wall) DeviceNow() time.Duration {
	return time.Since(w.origin)
}

func (w *Wall) Stop() {}
