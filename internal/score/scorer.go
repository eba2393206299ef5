package score

import (
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/round"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the summary of this performance, returns the id of the round
	Save(chart *game.Chart, summary round.Summary) (string, error)

	// Load up previous rounds for the chart, oldest first
	Load(chart *game.Chart) []History
	Best(chart *game.Chart) (History, bool)

	// Recorder saves the rounds of a chart as they end
	Recorder(chart *game.Chart) round.Recorder

	// Score plays the recorded inputs again
	Score(chart *game.Chart, history *History, settings round.Settings) (Score, error)
}

type History struct {
	ID       string
	Sum      string
	Score    int
	MaxCombo int
	Cleared  bool
	PlayedAt time.Time
	Inputs   []game.Input
}

type Score struct {
	Score     int
	MaxCombo  int
	Cleared   bool
	MissCount int
	Mean      time.Duration
}
