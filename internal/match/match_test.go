package match

import (
	"testing"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/judge"
	"git.lost.host/meutraa/notefall/internal/schedule"
)

func newMatcher(t *testing.T, notes ...game.Note) (*Matcher, *schedule.Scheduler) {
	c := game.NewChart(120)
	c.Notes = notes
	s, err := schedule.New(c, schedule.Travel{Duration: 2 * time.Second, Distance: 10}, 150*time.Millisecond)
	if nil != err {
		t.Fatal(err)
	}
	return New(s, judge.DefaultWindows()), s
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

var tierTests = []struct {
	input time.Duration
	tier  game.Tier
	err   time.Duration
}{
	{ms(10030), game.Exact, ms(30)},
	{ms(10080), game.Near, ms(80)},
	{ms(9920), game.Near, ms(-80)},
	{ms(9970), game.Exact, ms(-30)},
	{ms(10140), game.Missed, ms(140)},
}

func TestResolveTiers(t *testing.T) {
	for _, test := range tierTests {
		m, s := newMatcher(t, game.Note{Lane: game.Up, Time: 10 * time.Second})
		s.Step(9*time.Second, 0, nil)

		j, ok := m.Resolve(game.Up, test.input)
		if !ok {
			t.Errorf("%v: expected a hit", test.input)
			continue
		}
		if j.Tier != test.tier || j.Error != test.err {
			t.Errorf("%v: expected %v %v, got %v %v", test.input, test.tier, test.err, j.Tier, j.Error)
		}
		if s.Remaining() != 0 {
			t.Errorf("%v: note should be resolved", test.input)
		}
	}
}

func TestWhiff(t *testing.T) {
	m, s := newMatcher(t, game.Note{Lane: game.Up, Time: 10 * time.Second})
	s.Step(9*time.Second, 0, nil)

	if _, ok := m.Resolve(game.Down, 10*time.Second); ok {
		t.Error("other lane must not match")
	}
	if _, ok := m.Resolve(game.Up, ms(10200)); ok {
		t.Error("input outside the accept window must not match")
	}
	if _, ok := m.Resolve(game.Up, ms(9800)); ok {
		t.Error("early input outside the accept window must not match")
	}
	if s.Remaining() != 1 || len(s.InFlight()) != 1 {
		t.Error("a whiff must not consume a note")
	}
}

func TestPendingNotesCannotBeHit(t *testing.T) {
	m, _ := newMatcher(t, game.Note{Lane: game.Up, Time: 10 * time.Second})
	if _, ok := m.Resolve(game.Up, 10*time.Second); ok {
		t.Error("a note that has not spawned cannot be hit")
	}
}

func TestClosestWins(t *testing.T) {
	m, s := newMatcher(t,
		game.Note{Lane: game.Left, Time: 10 * time.Second},
		game.Note{Lane: game.Left, Time: ms(10020)},
	)
	s.Step(9*time.Second, 0, nil)

	j, ok := m.Resolve(game.Left, ms(10010)+1)
	if !ok || j.Index != 1 {
		t.Errorf("expected the later, closer note, got %+v", j)
	}

	m, s = newMatcher(t,
		game.Note{Lane: game.Left, Time: 10 * time.Second},
		game.Note{Lane: game.Left, Time: ms(10020)},
	)
	s.Step(9*time.Second, 0, nil)
	j, ok = m.Resolve(game.Left, ms(10009))
	if !ok || j.Index != 0 {
		t.Errorf("expected the note at 10.0, got %+v", j)
	}
}

func TestTieGoesToEarlierNote(t *testing.T) {
	m, s := newMatcher(t,
		game.Note{Lane: game.Right, Time: 10 * time.Second},
		game.Note{Lane: game.Right, Time: ms(10020)},
	)
	s.Step(9*time.Second, 0, nil)

	j, ok := m.Resolve(game.Right, ms(10010))
	if !ok || j.Index != 0 {
		t.Errorf("expected tie to go to the earlier note, got %+v", j)
	}

	m, s = newMatcher(t,
		game.Note{Lane: game.Right, Time: 10 * time.Second},
		game.Note{Lane: game.Right, Time: 10 * time.Second},
	)
	s.Step(9*time.Second, 0, nil)
	j, _ = m.Resolve(game.Right, 10*time.Second)
	if j.Index != 0 {
		t.Errorf("expected duplicate times to resolve in chart order, got %+v", j)
	}
	j, _ = m.Resolve(game.Right, 10*time.Second)
	if j.Index != 1 {
		t.Errorf("expected second duplicate next, got %+v", j)
	}
}
