package audio

import (
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
)

type stamp struct {
	samples int64         // Samples pulled by the speaker so far
	chunk   int64         // Size of the last pull
	at      time.Duration // When the last pull happened
}

// counter sits between the speaker and the mixer. The speaker goroutine
// pulls samples through it, everything else only reads the stamp.
type counter struct {
	streamer beep.Streamer
	now      func() time.Duration
	stamp    atomic.Pointer[stamp]
}

func newCounter(s beep.Streamer, now func() time.Duration) *counter {
	c := &counter{streamer: s, now: now}
	c.stamp.Store(&stamp{at: now()})
	return c
}

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.streamer.Stream(samples)
	prev := c.stamp.Load()
	c.stamp.Store(&stamp{
		samples: prev.samples + int64(n),
		chunk:   int64(n),
		at:      c.now(),
	})
	return n, ok
}

func (c *counter) Err() error {
	return c.streamer.Err()
}

func (c *counter) pulled() int64 {
	return c.stamp.Load().samples
}

// playhead estimates the sample being heard: everything before the last
// pull, plus how far into the last chunk the device should be by now
func (c *counter) playhead(rate beep.SampleRate) time.Duration {
	st := c.stamp.Load()
	played := rate.D(int(st.samples - st.chunk))
	into := c.now() - st.at
	if chunk := rate.D(int(st.chunk)); into > chunk {
		into = chunk
	}
	if into < 0 {
		into = 0
	}
	return played + into
}
