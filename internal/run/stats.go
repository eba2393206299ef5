package run

import (
	"math"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

// Stats collects timing analytics from the signed error of every note
// resolved by input
type Stats struct {
	Counts [game.NTiers]int
	Whiffs int
	Hits   int

	mean float64 // Welford running mean and sum of squares, nanoseconds
	m2   float64
}

func (s *Stats) Record(j game.Judgement) {
	if j.Tier < game.NTiers {
		s.Counts[j.Tier]++
	}
	if j.Late {
		return
	}
	s.Hits++
	x := float64(j.Error)
	d := x - s.mean
	s.mean += d / float64(s.Hits)
	s.m2 += d * (x - s.mean)
}

func (s *Stats) Whiff() {
	s.Whiffs++
}

// Mean is positive when the player is late on average
func (s *Stats) Mean() time.Duration {
	return time.Duration(math.Round(s.mean))
}

func (s *Stats) Stdev() time.Duration {
	if s.Hits < 2 {
		return 0
	}
	return time.Duration(math.Round(math.Sqrt(s.m2 / float64(s.Hits-1))))
}

func (s *Stats) Reset() {
	*s = Stats{}
}
