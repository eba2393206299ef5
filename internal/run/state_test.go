package run

import (
	"math/rand"
	"testing"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

func TestHitScoring(t *testing.T) {
	s := New(3, DefaultScoring())

	s.Apply(game.Exact) // 100 + floor(0.2)
	s.Apply(game.Near)  // 50 + floor(0.4)
	s.Apply(game.Exact) // 100 + floor(0.6)
	s.Apply(game.Exact) // 100 + floor(0.8)
	s.Apply(game.Near)  // 50 + floor(1.0)

	snap := s.Snapshot()
	if snap.Score != 401 {
		t.Errorf("expected 401, got %d", snap.Score)
	}
	if snap.Combo != 5 || snap.MaxCombo != 5 {
		t.Errorf("expected combo 5/5, got %d/%d", snap.Combo, snap.MaxCombo)
	}
	if snap.Life != 3 {
		t.Errorf("hits must not touch life, got %d", snap.Life)
	}
}

func TestMissResetsComboAndTakesLife(t *testing.T) {
	s := New(3, DefaultScoring())
	s.Apply(game.Exact)
	s.Apply(game.Exact)
	score := s.Snapshot().Score

	changed, ended := s.Apply(game.Missed)
	snap := s.Snapshot()
	if !changed || ended {
		t.Errorf("expected changed and not ended, got %v %v", changed, ended)
	}
	if snap.Combo != 0 || snap.MaxCombo != 2 || snap.Life != 2 || snap.Score != score {
		t.Errorf("unexpected state after miss %+v", snap)
	}
}

func TestRoundOverOnce(t *testing.T) {
	s := New(2, DefaultScoring())
	s.Apply(game.Missed)
	_, ended := s.Apply(game.Missed)
	if !ended || !s.Over() {
		t.Fatal("expected round over at zero life")
	}

	for _, tier := range []game.Tier{game.Missed, game.Exact, game.Near} {
		changed, ended := s.Apply(tier)
		if changed || ended {
			t.Errorf("%v applied after round over", tier)
		}
	}
	if snap := s.Snapshot(); snap.Life != 0 || snap.Score != 0 {
		t.Errorf("state changed after round over %+v", snap)
	}
}

func TestResetMidRound(t *testing.T) {
	s := New(3, DefaultScoring())
	s.Apply(game.Exact)
	s.Apply(game.Missed)
	s.Reset()

	expected := Snapshot{Life: 3, MaxLife: 3}
	if snap := s.Snapshot(); snap != expected {
		t.Errorf("expected %+v, got %+v", expected, snap)
	}
	if changed, _ := s.Apply(game.Exact); !changed {
		t.Error("expected judgements to apply after reset")
	}

	for !s.Over() {
		s.Apply(game.Missed)
	}
	s.Reset()
	if s.Over() {
		t.Error("reset should end round over")
	}
}

func TestInvariantsHoldForRandomRounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		s := New(1+rng.Intn(5), DefaultScoring())
		for i := 0; i < 200; i++ {
			s.Apply(game.Tier(rng.Intn(game.NTiers)))
			snap := s.Snapshot()
			if snap.MaxCombo < snap.Combo {
				t.Fatalf("max combo %d < combo %d", snap.MaxCombo, snap.Combo)
			}
			if snap.Life < 0 || snap.Life > snap.MaxLife {
				t.Fatalf("life %d out of [0, %d]", snap.Life, snap.MaxLife)
			}
			if snap.Score < 0 {
				t.Fatalf("negative score %d", snap.Score)
			}
		}
	}
}

func TestStats(t *testing.T) {
	var s Stats
	for _, e := range []time.Duration{10, 20, 30, 40} {
		s.Record(game.Judgement{Tier: game.Exact, Error: e * time.Millisecond})
	}
	s.Record(game.Judgement{Tier: game.Missed, Late: true})
	s.Whiff()

	if s.Mean() != 25*time.Millisecond {
		t.Errorf("expected mean 25ms, got %v", s.Mean())
	}
	// sample stdev of 10,20,30,40 is 12.9099ms
	if d := s.Stdev() - 12909944*time.Nanosecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("unexpected stdev %v", s.Stdev())
	}
	if s.Counts[game.Exact] != 4 || s.Counts[game.Missed] != 1 || s.Whiffs != 1 || s.Hits != 4 {
		t.Errorf("unexpected counts %+v", s)
	}
}
