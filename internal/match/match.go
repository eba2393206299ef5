// Package match resolves an input against the closest in flight note of
// its lane.
package match

import (
	"log"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/judge"
	"git.lost.host/meutraa/notefall/internal/schedule"
)

type Matcher struct {
	scheduler *schedule.Scheduler
	windows   judge.Windows
}

func New(s *schedule.Scheduler, w judge.Windows) *Matcher {
	return &Matcher{scheduler: s, windows: w}
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// Closest finds the note of the lane nearest to the input time within the
// accept window. Equal distances go to the earlier note.
func (m *Matcher) Closest(lane game.Lane, inputTime time.Duration) *schedule.Note {
	var closest *schedule.Note
	best := m.windows.Accept

	// in flight notes are in chart order, so a strict comparison keeps
	// the earliest of equally distant notes
	for _, note := range m.scheduler.InFlight() {
		if note.Lane != lane {
			continue
		}
		d := abs(inputTime - note.Time)
		if d > best || (nil != closest && d == best) {
			continue
		}
		best = d
		closest = note
	}
	return closest
}

// Resolve judges the input against the closest note and resolves it. The
// second result is false for an input that hits nothing.
func (m *Matcher) Resolve(lane game.Lane, inputTime time.Duration) (game.Judgement, bool) {
	note := m.Closest(lane, inputTime)
	if nil == note {
		return game.Judgement{}, false
	}

	distance := inputTime - note.Time
	j := game.Judgement{
		Tier:   m.windows.Classify(distance),
		Lane:   lane,
		Handle: note.Handle,
		Index:  note.Index,
		Error:  distance,
	}
	if err := m.scheduler.Resolve(note, j); nil != err {
		log.Println("unable to resolve note", note.Index, err)
		return game.Judgement{}, false
	}
	return j, true
}
