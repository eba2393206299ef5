// Package generate fills charts with notes on a beat grid. Lanes are drawn
// from the given source so a seed reproduces a chart exactly.
package generate

import (
	"errors"
	"log"
	"math"
	"math/rand"

	"git.lost.host/meutraa/notefall/internal/game"
)

var (
	ErrBPM       = errors.New("chart bpm must be positive")
	ErrStartBeat = errors.New("start beat must not be negative")
)

func randomLane(rng *rand.Rand) game.Lane {
	return game.Lane(rng.Intn(game.NLanes))
}

// Uniform replaces the chart notes with count notes starting at startBeat,
// beatsInterval beats apart
func Uniform(c *game.Chart, rng *rand.Rand, count, startBeat, beatsInterval int) error {
	if c.BPM <= 0 {
		return ErrBPM
	}
	if startBeat < 0 {
		return ErrStartBeat
	}
	c.Clear()
	for i := 0; i < count; i++ {
		c.AddNoteAtBeat(randomLane(rng), startBeat+i*beatsInterval)
	}
	c.Sort()
	log.Printf("generated %v notes from beat %v", count, startBeat)
	return nil
}

// Sections replaces the chart notes with notes on every beatsInterval'th
// beat boundary inside each section. Overlapping sections produce
// duplicate target times.
func Sections(c *game.Chart, rng *rand.Rand, sections []game.Section) error {
	if c.BPM <= 0 {
		return ErrBPM
	}
	c.Clear()
	if len(sections) == 0 {
		log.Println("no sections to generate notes from")
		return nil
	}

	secondsPerBeat := 60.0 / c.BPM
	for _, s := range sections {
		if s.BeatsInterval <= 0 {
			continue
		}
		startBeat := int(math.Ceil(s.Start.Seconds() / secondsPerBeat))
		endBeat := int(math.Floor(s.End.Seconds() / secondsPerBeat))
		for beat := startBeat; beat <= endBeat; beat += s.BeatsInterval {
			c.AddNoteAtBeat(randomLane(rng), beat)
		}
	}
	c.Sort()
	log.Printf("generated %v notes from %v sections", len(c.Notes), len(sections))
	return nil
}
