package score

import (
	"errors"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/round"
	"git.lost.host/meutraa/notefall/internal/testdata"
)

var _ Scorer = &DefaultScorer{}

func openScorer(t *testing.T) *DefaultScorer {
	t.Helper()
	s := &DefaultScorer{}
	if err := s.Init(filepath.Join(t.TempDir(), "scores.db")); nil != err {
		t.Fatal(err)
	}
	t.Cleanup(s.Deinit)
	return s
}

func perfectInputs(c *game.Chart) []game.Input {
	inputs := make([]game.Input, len(c.Notes))
	for i, n := range c.Notes {
		inputs[i] = game.Input{Lane: n.Lane, Time: n.Time}
	}
	return inputs
}

func TestSaveLoad(t *testing.T) {
	s := openScorer(t)
	chart := testdata.GetChart()

	first, err := s.Save(chart, round.Summary{Score: 10, MaxCombo: 1, Inputs: []game.Input{{Lane: game.Up, Time: 5}}})
	if nil != err {
		t.Fatal(err)
	}
	second, err := s.Save(chart, round.Summary{Score: 30, MaxCombo: 2, Cleared: true, Inputs: perfectInputs(chart)})
	if nil != err {
		t.Fatal(err)
	}
	if first == second {
		t.Error("every round needs its own id")
	}

	other := game.NewChart(120)
	other.Notes = []game.Note{{Lane: game.Left}}
	if _, err := s.Save(other, round.Summary{Score: 99}); nil != err {
		t.Fatal(err)
	}

	hs := s.Load(chart)
	if len(hs) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(hs))
	}
	if hs[0].ID != first || hs[1].ID != second {
		t.Errorf("rounds out of order: %v", hs)
	}
	if hs[0].Sum != chart.Hash() || hs[0].Score != 10 || hs[0].Cleared {
		t.Errorf("first round %+v", hs[0])
	}
	if !hs[1].Cleared || hs[1].MaxCombo != 2 || len(hs[1].Inputs) != len(chart.Notes) {
		t.Errorf("second round %+v", hs[1])
	}

	best, ok := s.Best(chart)
	if !ok || best.ID != second {
		t.Errorf("best should be the second round, got %+v", best)
	}
	if _, ok := s.Best(game.NewChart(60)); ok {
		t.Error("a chart without rounds has no best")
	}
}

func TestScoreReplays(t *testing.T) {
	s := openScorer(t)
	chart := testdata.GetChart()
	settings := round.DefaultSettings()

	summary, err := round.Replay(settings, chart, perfectInputs(chart))
	if nil != err {
		t.Fatal(err)
	}
	s.Recorder(chart).RoundEnded(summary)

	best, ok := s.Best(chart)
	if !ok {
		t.Fatal("recorder should have saved the round")
	}
	score, err := s.Score(chart, &best, settings)
	if nil != err {
		t.Fatal(err)
	}
	if score.Score != best.Score || score.MaxCombo != len(chart.Notes) || !score.Cleared {
		t.Errorf("replayed %+v, saved %+v", score, best)
	}
	if score.MissCount != 0 || score.Mean != 0 {
		t.Errorf("perfect inputs should not miss, got %+v", score)
	}
}

func TestNotOpen(t *testing.T) {
	s := &DefaultScorer{}
	if _, err := s.Save(testdata.GetChart(), round.Summary{}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if hs := s.Load(testdata.GetChart()); len(hs) != 0 {
		t.Error("nothing to load")
	}
}
