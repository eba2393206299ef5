package judge

import (
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

var ErrWindows = errors.New("judgement windows must satisfy 0 <= exact < near <= accept <= miss timeout")

// Windows are the tolerances around a note's target time. They are fixed
// for the length of a round.
type Windows struct {
	Exact       time.Duration
	Near        time.Duration
	Accept      time.Duration // Furthest an input may be from a note and still hit it
	MissTimeout time.Duration // How late a note may be before it is missed
}

func DefaultWindows() Windows {
	return Windows{
		Exact:       50 * time.Millisecond,
		Near:        100 * time.Millisecond,
		Accept:      150 * time.Millisecond,
		MissTimeout: 150 * time.Millisecond,
	}
}

// Validate rejects windows where a late hit could be taken away by the
// miss timeout before the matcher accepts it
func (w Windows) Validate() error {
	if w.Exact < 0 || w.Exact >= w.Near || w.Near > w.Accept || w.Accept > w.MissTimeout {
		return fmt.Errorf("%w: got %v, %v, %v, %v", ErrWindows, w.Exact, w.Near, w.Accept, w.MissTimeout)
	}
	return nil
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// Classify only looks at the magnitude of the error
func (w Windows) Classify(err time.Duration) game.Tier {
	d := abs(err)
	switch {
	case d <= w.Exact:
		return game.Exact
	case d <= w.Near:
		return game.Near
	}
	return game.Missed
}
