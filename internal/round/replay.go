package round

import (
	"sort"
	"time"

	"git.lost.host/meutraa/notefall/internal/clock"
	"git.lost.host/meutraa/notefall/internal/game"
)

// Replay plays recorded inputs against a chart without audio and returns
// the summary the round ended with
func Replay(settings Settings, chart *game.Chart, inputs []game.Input) (Summary, error) {
	var summary Summary
	device := &clock.Manual{}
	r, err := New(settings, chart, device, nil, recorderFunc(func(s Summary) {
		summary = s
	}))
	if nil != err {
		return summary, err
	}
	if err := r.Start(); nil != err {
		return summary, err
	}

	ordered := make([]game.Input, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time < ordered[j].Time
	})

	advance := func(to time.Duration) {
		elapsed := to - r.Position()
		if elapsed < 0 {
			elapsed = 0
		}
		device.Advance(elapsed)
		r.Step(elapsed)
	}
	for _, in := range ordered {
		if r.Phase() != Playing {
			break
		}
		advance(in.Time)
		r.Input(in.Lane, in.Time)
	}
	if r.Phase() == Playing {
		advance(chart.Duration() + settings.Windows.MissTimeout + time.Millisecond)
	}
	return summary, nil
}

type recorderFunc func(s Summary)

func (f recorderFunc) RoundEnded(s Summary) {
	f(s)
}
