// Package schedule moves chart notes through Pending, InFlight and
// Resolved as the song position advances.
package schedule

import (
	"errors"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

var (
	ErrNoChart  = errors.New("chart has no notes")
	ErrTravel   = errors.New("travel duration and distance must be positive")
	ErrUnsorted = errors.New("chart is not sorted by target time")
	ErrResolved = errors.New("note already resolved")

	ErrNegativeTime = errors.New("note target time is before the start of the track")
)

type State uint8

const (
	Pending State = iota
	InFlight
	Resolved
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in flight"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Note is the runtime state of a chart note once it has spawned
type Note struct {
	game.Note
	Index     int           // Position in the chart, breaks ties
	Spawn     time.Duration // Target time minus travel duration
	State     State
	Position  float64     // Distance left to the judge line, negative once past it
	Handle    game.Handle // Weak, zero when the presenter has no object for it
	Judgement game.Judgement
}

// Travel is how far and for how long every note moves before its target
// time. It is the same for the whole round.
type Travel struct {
	Duration time.Duration
	Distance float64
}

// Speed in distance per second
func (t Travel) Speed() float64 {
	return t.Distance / t.Duration.Seconds()
}

// Presenter receives note objects, it may invalidate a handle at any time
// by returning false from NotePositionUpdated
type Presenter interface {
	NoteSpawned(lane game.Lane) game.Handle
	NotePositionUpdated(h game.Handle, position float64) bool
}

type Scheduler struct {
	chart       *game.Chart
	travel      Travel
	speed       float64
	missTimeout time.Duration

	next     int     // First pending chart index
	flight   []*Note // In flight notes in chart order
	resolved int
}

// New expects a sorted chart and does not sort it
func New(chart *game.Chart, travel Travel, missTimeout time.Duration) (*Scheduler, error) {
	if nil == chart || len(chart.Notes) == 0 {
		return nil, ErrNoChart
	}
	if travel.Duration <= 0 || travel.Distance <= 0 {
		return nil, fmt.Errorf("%w: got %v over %v", ErrTravel, travel.Distance, travel.Duration)
	}
	if !chart.Sorted() {
		return nil, ErrUnsorted
	}
	// sorted, so the first note is the earliest
	if first := chart.Notes[0]; first.Time < 0 {
		return nil, fmt.Errorf("%w: %v at %v", ErrNegativeTime, first.Lane, first.Time)
	}
	return &Scheduler{
		chart:       chart,
		travel:      travel,
		speed:       travel.Speed(),
		missTimeout: missTimeout,
	}, nil
}

// Step advances the scheduler to the song position. elapsed is the frame
// time since the previous step. Notes missed by timeout are returned in
// chart order.
func (s *Scheduler) Step(position, elapsed time.Duration, p Presenter) []game.Judgement {
	moving := len(s.flight)

	// Promote everything that should be visible by now
	for s.next < len(s.chart.Notes) {
		n := s.chart.Notes[s.next]
		spawn := n.Time - s.travel.Duration
		if spawn > position {
			break
		}
		note := &Note{
			Note:     n,
			Index:    s.next,
			Spawn:    spawn,
			State:    InFlight,
			Position: s.travel.Distance - s.speed*(position-spawn).Seconds(),
		}
		if nil != p {
			note.Handle = p.NoteSpawned(n.Lane)
			s.publish(note, p)
		}
		s.flight = append(s.flight, note)
		s.next++
	}

	// Notes spawned this step are already in place
	for _, note := range s.flight[:moving] {
		note.Position -= s.speed * elapsed.Seconds()
		s.publish(note, p)
	}

	// Nothing can be missed before the track is audible
	if position < 0 {
		return nil
	}

	var missed []game.Judgement
	kept := s.flight[:0]
	for _, note := range s.flight {
		if position > note.Time+s.missTimeout {
			note.State = Resolved
			note.Judgement = game.Judgement{
				Tier:   game.Missed,
				Lane:   note.Lane,
				Handle: note.Handle,
				Index:  note.Index,
				Late:   true,
			}
			s.resolved++
			missed = append(missed, note.Judgement)
			continue
		}
		kept = append(kept, note)
	}
	for i := len(kept); i < len(s.flight); i++ {
		s.flight[i] = nil
	}
	s.flight = kept
	return missed
}

func (s *Scheduler) publish(note *Note, p Presenter) {
	if nil == p || note.Handle == 0 {
		return
	}
	if !p.NotePositionUpdated(note.Handle, note.Position) {
		note.Handle = 0
	}
}

// InFlight returns the unresolved in flight notes in chart order. The slice
// is only valid until the next Step or Resolve.
func (s *Scheduler) InFlight() []*Note {
	return s.flight
}

// Resolve finalizes an in flight note with the given judgement
func (s *Scheduler) Resolve(note *Note, j game.Judgement) error {
	if note.State != InFlight {
		log.Println("refusing to resolve note", note.Index, "in state", note.State)
		return ErrResolved
	}
	for i, n := range s.flight {
		if n != note {
			continue
		}
		note.State = Resolved
		note.Judgement = j
		s.resolved++
		copy(s.flight[i:], s.flight[i+1:])
		s.flight[len(s.flight)-1] = nil
		s.flight = s.flight[:len(s.flight)-1]
		return nil
	}
	return fmt.Errorf("note %v is not in flight", note.Index)
}

// Done is true once every chart note is resolved
func (s *Scheduler) Done() bool {
	return s.resolved == len(s.chart.Notes)
}

func (s *Scheduler) Remaining() int {
	return len(s.chart.Notes) - s.resolved
}

func (s *Scheduler) MissTimeout() time.Duration {
	return s.missTimeout
}

// Discard drops every note back to pending and returns the handles of the
// notes that were in flight
func (s *Scheduler) Discard() []game.Handle {
	handles := make([]game.Handle, 0, len(s.flight))
	for _, note := range s.flight {
		if note.Handle != 0 {
			handles = append(handles, note.Handle)
		}
	}
	s.flight = nil
	s.next = 0
	s.resolved = 0
	return handles
}
