package input

import (
	"testing"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"github.com/eiannone/keyboard"
)

var keys = [game.NLanes]rune{'d', 'f', 'j', 'k'}

func TestLane(t *testing.T) {
	s := NewSource(nil, keys)
	tests := []struct {
		ev   keyboard.KeyEvent
		lane game.Lane
		ok   bool
	}{
		{keyboard.KeyEvent{Rune: 'd'}, game.Left, true},
		{keyboard.KeyEvent{Rune: 'k'}, game.Right, true},
		{keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, game.Up, true},
		{keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, game.Down, true},
		{keyboard.KeyEvent{Rune: 'x'}, 0, false},
		{keyboard.KeyEvent{Key: keyboard.KeyEnter}, 0, false},
	}
	for _, tt := range tests {
		lane, ok := s.Lane(tt.ev)
		if ok != tt.ok || (ok && lane != tt.lane) {
			t.Errorf("%+v: got %v %v, expected %v %v", tt.ev, lane, ok, tt.lane, tt.ok)
		}
	}
}

func TestPoll(t *testing.T) {
	events := make(chan keyboard.KeyEvent, 8)
	s := NewSource(events, keys)

	if in, quit, pause := s.Poll(0); len(in) != 0 || quit || pause {
		t.Error("nothing pending")
	}

	events <- keyboard.KeyEvent{Rune: 'f'}
	events <- keyboard.KeyEvent{Rune: 'x'}
	events <- keyboard.KeyEvent{Key: keyboard.KeyArrowRight}
	events <- keyboard.KeyEvent{Rune: 'p'}
	in, quit, pause := s.Poll(10 * time.Second)
	if quit || !pause {
		t.Errorf("expected a pause, got quit %v pause %v", quit, pause)
	}
	expected := []game.Input{{Lane: game.Down, Time: 10 * time.Second}, {Lane: game.Right, Time: 10 * time.Second}}
	if len(in) != len(expected) || in[0] != expected[0] || in[1] != expected[1] {
		t.Errorf("got %v, expected %v", in, expected)
	}

	events <- keyboard.KeyEvent{Rune: 'p'}
	events <- keyboard.KeyEvent{Rune: 'p'}
	if _, _, pause := s.Poll(0); pause {
		t.Error("two presses toggle back")
	}

	events <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	if _, quit, _ := s.Poll(0); !quit {
		t.Error("escape quits")
	}

	close(events)
	if _, quit, _ := s.Poll(0); !quit {
		t.Error("a closed keyboard quits")
	}
}

func TestWait(t *testing.T) {
	events := make(chan keyboard.KeyEvent, 1)
	s := NewSource(events, keys)
	if s.Wait(time.Millisecond) {
		t.Error("no key was pressed")
	}
	events <- keyboard.KeyEvent{Rune: 'a'}
	if !s.Wait(time.Second) {
		t.Error("a key was pressed")
	}
	s.Close()
}
