package parser

import (
	"io"

	"git.lost.host/meutraa/notefall/internal/game"
)

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
	Read(r io.Reader) ([]*game.Chart, error)
}
