// Package audio plays the song through beep and exposes the speaker's
// sample clock as the device clock for the song position.
package audio

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"git.lost.host/meutraa/notefall/internal/clock"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Extensions that Load can decode
var Extensions = []string{".mp3", ".ogg", ".wav"}

type Player struct {
	rate    beep.SampleRate
	buffer  time.Duration
	mixer   *beep.Mixer
	counter *counter
	origin  time.Time
	last    time.Duration

	track  beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	ready  bool
}

func NewPlayer(rate beep.SampleRate, buffer time.Duration) *Player {
	p := &Player{
		rate:   rate,
		buffer: buffer,
		mixer:  &beep.Mixer{},
		origin: time.Now(),
	}
	p.counter = newCounter(p.mixer, func() time.Duration {
		return time.Since(p.origin)
	})
	return p
}

// Init opens the speaker. The mixer streams silence while no track plays,
// so the device clock runs from here on.
func (p *Player) Init() error {
	if p.ready {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(p.buffer)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	speaker.Play(p.counter)
	p.ready = true
	log.Printf("speaker open at %vHz with %v buffer", p.rate, p.buffer)
	return nil
}

func decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	f.Close()
	return nil, beep.Format{}, fmt.Errorf("unsupported audio file %v", file)
}

// Load decodes the track that ScheduleStart will play
func (p *Player) Load(file string) error {
	s, format, err := decode(file)
	if nil != err {
		return fmt.Errorf("unable to decode %v: %w", file, err)
	}
	p.SetTrack(s, format)
	log.Printf("loaded %v (%vHz, %v channels)", file, format.SampleRate, format.NumChannels)
	return nil
}

func (p *Player) SetTrack(s beep.StreamSeekCloser, format beep.Format) {
	p.Stop()
	if nil != p.track {
		p.track.Close()
	}
	p.track = s
	p.format = format
}

func (p *Player) Loaded() bool {
	return nil != p.track
}

// Length of the loaded track
func (p *Player) Length() time.Duration {
	if nil == p.track {
		return 0
	}
	return p.format.SampleRate.D(p.track.Len())
}

// ScheduleStart queues delay worth of silence ahead of the track. The
// speaker cannot pull while it is locked, so the returned sample position
// is exactly where the silence begins.
func (p *Player) ScheduleStart(delay time.Duration) (time.Duration, error) {
	if nil == p.track {
		return 0, clock.ErrNoTrack
	}
	if delay < 0 {
		delay = 0
	}

	speaker.Lock()
	defer speaker.Unlock()

	if nil != p.ctrl {
		p.ctrl.Streamer = nil
	}
	if err := p.track.Seek(0); nil != err {
		return 0, fmt.Errorf("unable to rewind track: %w", err)
	}
	var s beep.Streamer = p.track
	if p.format.SampleRate != p.rate {
		s = beep.Resample(4, p.format.SampleRate, p.rate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: beep.Seq(beep.Silence(p.rate.N(delay)), s)}
	p.mixer.Add(p.ctrl)
	return p.rate.D(int(p.counter.pulled())), nil
}

// DeviceNow never goes backwards
func (p *Player) DeviceNow() time.Duration {
	now := p.counter.playhead(p.rate)
	if now < p.last {
		return p.last
	}
	p.last = now
	return now
}

func (p *Player) SetPaused(paused bool) {
	speaker.Lock()
	defer speaker.Unlock()
	if nil != p.ctrl {
		p.ctrl.Paused = paused
	}
}

func (p *Player) Stop() {
	speaker.Lock()
	defer speaker.Unlock()
	if nil != p.ctrl {
		// A nil streamer drains the control and the mixer drops it
		p.ctrl.Streamer = nil
		p.ctrl = nil
	}
}

func (p *Player) Close() error {
	p.Stop()
	if nil == p.track {
		return nil
	}
	err := p.track.Close()
	p.track = nil
	return err
}
