// Package round owns everything a single play of a chart needs. A Round is
// stepped once per frame from a single goroutine.
package round

import (
	"errors"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/notefall/internal/clock"
	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/judge"
	"git.lost.host/meutraa/notefall/internal/match"
	"git.lost.host/meutraa/notefall/internal/run"
	"git.lost.host/meutraa/notefall/internal/schedule"
)

var ErrLives = errors.New("a round needs at least one life")

type Settings struct {
	Delay   time.Duration // Lead in before the track is audible
	Offset  time.Duration
	Travel  schedule.Travel
	Windows judge.Windows
	Lives   int
	Scoring run.Scoring
}

func DefaultSettings() Settings {
	return Settings{
		Delay:   2 * time.Second,
		Travel:  schedule.Travel{Duration: 2 * time.Second, Distance: 1},
		Windows: judge.DefaultWindows(),
		Lives:   3,
		Scoring: run.DefaultScoring(),
	}
}

func (s Settings) Validate() error {
	if err := s.Windows.Validate(); nil != err {
		return err
	}
	if s.Lives < 1 {
		return ErrLives
	}
	return nil
}

type Phase uint8

const (
	Ready Phase = iota
	Playing
	Paused
	Over    // Life ran out
	Cleared // Every note resolved with life left
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Over:
		return "over"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

// Presenter consumes round events. It must not call back into the round
// and must tolerate handles it no longer knows.
type Presenter interface {
	schedule.Presenter
	NoteResolved(h game.Handle, j game.Judgement)
	NoteDiscarded(h game.Handle)
	InputWhiffed(lane game.Lane)
	RunStateChanged(s run.Snapshot)
}

// Summary is handed to the Recorder once when a round ends
type Summary struct {
	Score    int
	MaxCombo int
	Cleared  bool
	Stats    run.Stats
	Inputs   []game.Input
}

type Recorder interface {
	RoundEnded(s Summary)
}

type Round struct {
	settings  Settings
	chart     *game.Chart
	clock     *clock.Clock
	scheduler *schedule.Scheduler
	matcher   *match.Matcher
	state     *run.State
	stats     run.Stats

	presenter Presenter
	recorder  Recorder

	phase  Phase
	inputs []game.Input
}

// New checks the whole configuration up front, no round exists on error
func New(settings Settings, chart *game.Chart, device clock.Device, p Presenter, r Recorder) (*Round, error) {
	if nil == device {
		return nil, clock.ErrNoTrack
	}
	if l, ok := device.(clock.Loader); ok && !l.Loaded() {
		return nil, clock.ErrNoTrack
	}
	if err := settings.Validate(); nil != err {
		return nil, fmt.Errorf("unable to configure round: %w", err)
	}
	s, err := schedule.New(chart, settings.Travel, settings.Windows.MissTimeout)
	if nil != err {
		return nil, fmt.Errorf("unable to schedule chart: %w", err)
	}
	if nil == p {
		p = nopPresenter{}
	}
	c := clock.New(device, settings.Delay)
	c.SetOffset(settings.Offset)
	return &Round{
		settings:  settings,
		chart:     chart,
		clock:     c,
		scheduler: s,
		matcher:   match.New(s, settings.Windows),
		state:     run.New(settings.Lives, settings.Scoring),
		presenter: p,
		recorder:  r,
	}, nil
}

func (r *Round) Start() error {
	if r.phase != Ready {
		return fmt.Errorf("round is %v, not ready", r.phase)
	}
	if err := r.clock.Play(); nil != err {
		return err
	}
	r.phase = Playing
	r.presenter.RunStateChanged(r.state.Snapshot())
	return nil
}

// Step runs the scheduler at the current song position. elapsed is the
// frame time since the previous step.
func (r *Round) Step(elapsed time.Duration) {
	if r.phase != Playing {
		return
	}
	missed := r.scheduler.Step(r.clock.Position(), elapsed, r.presenter)
	for _, j := range missed {
		r.apply(j)
	}
	if r.phase == Playing && r.scheduler.Done() {
		r.finish(Cleared)
	}
}

// Input resolves a key press at the given song position. A press that hits
// nothing returns false and changes nothing but the whiff count.
func (r *Round) Input(lane game.Lane, at time.Duration) (game.Judgement, bool) {
	if r.phase != Playing {
		log.Println("ignoring", lane, "input while", r.phase)
		return game.Judgement{}, false
	}
	if !lane.Valid() {
		log.Println("ignoring input on", lane)
		return game.Judgement{}, false
	}
	r.inputs = append(r.inputs, game.Input{Lane: lane, Time: at})

	j, ok := r.matcher.Resolve(lane, at)
	if !ok {
		r.stats.Whiff()
		r.presenter.InputWhiffed(lane)
		return j, false
	}
	r.apply(j)
	return j, true
}

// Frame applies the inputs drained for this frame, then steps. Inputs are
// matched first, they were stamped before the clock moved on.
func (r *Round) Frame(elapsed time.Duration, inputs []game.Input) {
	for _, in := range inputs {
		r.Input(in.Lane, in.Time)
	}
	r.Step(elapsed)
}

// InputNow resolves a key press at the current song position
func (r *Round) InputNow(lane game.Lane) (game.Judgement, bool) {
	return r.Input(lane, r.clock.Position())
}

func (r *Round) apply(j game.Judgement) {
	r.stats.Record(j)
	r.presenter.NoteResolved(j.Handle, j)
	changed, ended := r.state.Apply(j.Tier)
	if changed {
		r.presenter.RunStateChanged(r.state.Snapshot())
	}
	if ended {
		r.finish(Over)
	}
}

func (r *Round) finish(phase Phase) {
	r.phase = phase
	if phase == Over {
		r.clock.Stop()
	}
	snap := r.state.Snapshot()
	log.Printf("round %v with score %v, max combo %v", phase, snap.Score, snap.MaxCombo)
	if nil == r.recorder {
		return
	}
	inputs := make([]game.Input, len(r.inputs))
	copy(inputs, r.inputs)
	r.recorder.RoundEnded(Summary{
		Score:    snap.Score,
		MaxCombo: snap.MaxCombo,
		Cleared:  phase == Cleared,
		Stats:    r.stats,
		Inputs:   inputs,
	})
}

func (r *Round) Pause() {
	if r.phase != Playing {
		return
	}
	r.clock.Pause()
	r.phase = Paused
}

func (r *Round) Resume() {
	if r.phase != Paused {
		return
	}
	r.clock.Resume()
	r.phase = Playing
}

// Abort stops the round between steps, drops every in flight note and
// resets the run state. Start plays it again from the beginning.
func (r *Round) Abort() {
	for _, h := range r.scheduler.Discard() {
		r.presenter.NoteDiscarded(h)
	}
	r.clock.Stop()
	r.state.Reset()
	r.stats.Reset()
	r.inputs = nil
	r.phase = Ready
	r.presenter.RunStateChanged(r.state.Snapshot())
}

// Reset is Abort, it is the only way out of Over and Cleared
func (r *Round) Reset() {
	r.Abort()
}

func (r *Round) Phase() Phase {
	return r.phase
}

func (r *Round) Position() time.Duration {
	return r.clock.Position()
}

func (r *Round) Snapshot() run.Snapshot {
	return r.state.Snapshot()
}

func (r *Round) Stats() run.Stats {
	return r.stats
}

func (r *Round) Chart() *game.Chart {
	return r.chart
}

func (r *Round) Remaining() int {
	return r.scheduler.Remaining()
}

func (r *Round) Settings() Settings {
	return r.settings
}

type nopPresenter struct{}

func (nopPresenter) NoteSpawned(game.Lane) game.Handle { return 0 }
func (nopPresenter) NotePositionUpdated(game.Handle, float64) bool { return false }
func (nopPresenter) NoteResolved(game.Handle, game.Judgement) {}
func (nopPresenter) NoteDiscarded(game.Handle) {}
func (nopPresenter) InputWhiffed(game.Lane) {}
func (nopPresenter) RunStateChanged(run.Snapshot) {}
