// Package clock derives the song position from the audio device clock.
// The position is recomputed from the device on every read, never
// accumulated from frame deltas.
package clock

import (
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrNoTrack = errors.New("no track loaded")

// Device is the audio output the song plays on
type Device interface {
	// ScheduleStart begins audible playback exactly delay after the
	// returned device time
	ScheduleStart(delay time.Duration) (time.Duration, error)
	// DeviceNow is monotonic and in the same domain as ScheduleStart
	DeviceNow() time.Duration
	Stop()
}

// Loader is implemented by devices that need a track before they can play
type Loader interface {
	Loaded() bool
}

// Pauser is implemented by devices that can hold playback
type Pauser interface {
	SetPaused(paused bool)
}

type Clock struct {
	device Device
	delay  time.Duration
	offset time.Duration // Output latency, positive when audio is heard late

	start    time.Duration // Device time playback was scheduled at
	pausedAt time.Duration
	playing  bool
	paused   bool
}

func New(device Device, delay time.Duration) *Clock {
	return &Clock{device: device, delay: delay}
}

// Play schedules the track to start after the lead in delay. The song
// position is negative until then.
func (c *Clock) Play() error {
	if nil == c.device {
		return ErrNoTrack
	}
	start, err := c.device.ScheduleStart(c.delay)
	if nil != err {
		return fmt.Errorf("unable to schedule playback: %w", err)
	}
	c.start = start
	c.playing = true
	c.paused = false
	log.Printf("playback scheduled at device time %v with %v delay", start, c.delay)
	return nil
}

func (c *Clock) Stop() {
	if !c.playing {
		return
	}
	c.device.Stop()
	c.playing = false
	c.paused = false
}

func (c *Clock) Pause() {
	if !c.playing || c.paused {
		return
	}
	c.pausedAt = c.device.DeviceNow()
	c.paused = true
	if p, ok := c.device.(Pauser); ok {
		p.SetPaused(true)
	}
}

func (c *Clock) Resume() {
	if !c.playing || !c.paused {
		return
	}
	c.start += c.device.DeviceNow() - c.pausedAt
	c.paused = false
	if p, ok := c.device.(Pauser); ok {
		p.SetPaused(false)
	}
}

// SetOffset shifts the position to line up with what is heard
func (c *Clock) SetOffset(offset time.Duration) {
	c.offset = offset
}

func (c *Clock) Playing() bool {
	return c.playing
}

// Position is 0 while stopped
func (c *Clock) Position() time.Duration {
	if !c.playing {
		return 0
	}
	now := c.pausedAt
	if !c.paused {
		now = c.device.DeviceNow()
	}
	return now - c.start - c.delay - c.offset
}
