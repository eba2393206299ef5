// Package run keeps score, combo and life for a round. State only changes
// through Apply and Reset.
package run

import (
	"math"

	"git.lost.host/meutraa/notefall/internal/game"
)

type Scoring struct {
	ExactBase       int
	NearBase        int
	ComboMultiplier float64
}

func DefaultScoring() Scoring {
	return Scoring{ExactBase: 100, NearBase: 50, ComboMultiplier: 0.2}
}

type State struct {
	scoring Scoring

	score    int
	combo    int
	maxCombo int
	life     int
	maxLife  int
	over     bool
}

// Snapshot is a copy of the state for presentation
type Snapshot struct {
	Score    int
	Combo    int
	MaxCombo int
	Life     int
	MaxLife  int
	Over     bool
}

func New(maxLife int, scoring Scoring) *State {
	if maxLife < 1 {
		maxLife = 1
	}
	s := &State{scoring: scoring, maxLife: maxLife}
	s.Reset()
	return s
}

// Apply changes the state for one judgement. changed is false once the
// round is over, ended is true only for the judgement that ends it.
func (s *State) Apply(tier game.Tier) (changed, ended bool) {
	if s.over {
		return false, false
	}

	switch tier {
	case game.Exact:
		s.hit(s.scoring.ExactBase)
	case game.Near:
		s.hit(s.scoring.NearBase)
	case game.Missed:
		s.combo = 0
		s.life--
		if s.life <= 0 {
			s.life = 0
			s.over = true
			return true, true
		}
	default:
		return false, false
	}
	return true, false
}

func (s *State) hit(base int) {
	s.combo++
	s.score += base + int(math.Floor(float64(s.combo)*s.scoring.ComboMultiplier))
	if s.combo > s.maxCombo {
		s.maxCombo = s.combo
	}
}

// Reset is the only way back from a finished round
func (s *State) Reset() {
	s.score = 0
	s.combo = 0
	s.maxCombo = 0
	s.life = s.maxLife
	s.over = false
}

func (s *State) Over() bool {
	return s.over
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Score:    s.score,
		Combo:    s.combo,
		MaxCombo: s.maxCombo,
		Life:     s.life,
		MaxLife:  s.maxLife,
		Over:     s.over,
	}
}
