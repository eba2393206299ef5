// Package input turns key events into lane inputs stamped with the song
// position of the frame they are drained on.
package input

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"github.com/eiannone/keyboard"
)

type Source interface {
	Poll(position time.Duration) (inputs []game.Input, quit, pause bool)
	Wait(timeout time.Duration) bool
	Close()
}

var arrows = [game.NLanes]keyboard.Key{
	keyboard.KeyArrowLeft,
	keyboard.KeyArrowDown,
	keyboard.KeyArrowUp,
	keyboard.KeyArrowRight,
}

type DefaultSource struct {
	events <-chan keyboard.KeyEvent
	keys   [game.NLanes]rune
	opened bool
}

// Open starts reading the keyboard, there can only be one open source
func Open(keys [game.NLanes]rune, bufferSize int) (*DefaultSource, error) {
	events, err := keyboard.GetKeys(bufferSize)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}
	s := NewSource(events, keys)
	s.opened = true
	return s, nil
}

func NewSource(events <-chan keyboard.KeyEvent, keys [game.NLanes]rune) *DefaultSource {
	return &DefaultSource{events: events, keys: keys}
}

// Lane returns the lane a key is bound to, by rune or by arrow key
func (s *DefaultSource) Lane(ev keyboard.KeyEvent) (game.Lane, bool) {
	for i := range s.keys {
		if ev.Key == 0 && ev.Rune == s.keys[i] {
			return game.Lane(i), true
		}
		if ev.Key == arrows[i] {
			return game.Lane(i), true
		}
	}
	return 0, false
}

// Poll drains the pending key events without blocking
func (s *DefaultSource) Poll(position time.Duration) (inputs []game.Input, quit, pause bool) {
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				return inputs, true, pause
			}
			if nil != ev.Err {
				log.Println("unable to read key:", ev.Err)
				continue
			}
			if ev.Key == keyboard.KeyEsc || ev.Key == keyboard.KeyCtrlC {
				return inputs, true, pause
			}
			if lane, ok := s.Lane(ev); ok {
				inputs = append(inputs, game.Input{Lane: lane, Time: position})
				continue
			}
			if ev.Key == 0 && (ev.Rune == 'p' || ev.Rune == 'P') {
				pause = !pause
			}
		default:
			return inputs, false, pause
		}
	}
}

// Next blocks until a key is pressed or the timeout passes
func (s *DefaultSource) Next(timeout time.Duration) (keyboard.KeyEvent, bool) {
	select {
	case ev, ok := <-s.events:
		return ev, ok
	case <-time.After(timeout):
		return keyboard.KeyEvent{}, false
	}
}

func (s *DefaultSource) Wait(timeout time.Duration) bool {
	_, ok := s.Next(timeout)
	return ok
}

func (s *DefaultSource) Close() {
	if !s.opened {
		return
	}
	if err := keyboard.Close(); nil != err {
		log.Println("unable to close keyboard", err)
	}
	s.opened = false
}
