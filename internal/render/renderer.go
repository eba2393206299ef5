package render

import (
	"time"

	"git.lost.host/meutraa/notefall/internal/round"
	"git.lost.host/meutraa/notefall/internal/run"
)

type Renderer interface {
	round.Presenter
	Init() error
	Deinit() error
	AddDecoration(col, row uint16, content string, frames int)
	RenderLoop(period time.Duration, render func(elapsed time.Duration) bool)
	Fill(row, column uint16, message string)
	DrawStats(stats run.Stats)
	Frame()
}
