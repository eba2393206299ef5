package theme

import (
	"fmt"

	"git.lost.host/meutraa/notefall/internal/game"
)

type Color struct {
	R, G, B uint8
}

type DefaultTheme struct {
}

func paint(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func (t *DefaultTheme) RenderNote(lane game.Lane) string {
	if !lane.Valid() {
		return " "
	}
	return paint(laneColors[lane], syms[lane])
}

func (t *DefaultTheme) RenderHitField(lane game.Lane, lit bool) string {
	if !lane.Valid() {
		return " "
	}
	if lit {
		return paint(laneColors[lane], barSyms[lane])
	}
	return barSyms[lane]
}

func (t *DefaultTheme) RenderTier(tier game.Tier) string {
	if tier >= game.NTiers {
		return tier.String()
	}
	return tierNames[tier]
}

func (t *DefaultTheme) RenderWhiff() string {
	return paint(Color{106, 106, 106}, "   -")
}

var (
	syms       = [game.NLanes]string{"←", "↓", "↑", "→"}
	barSyms    = [game.NLanes]string{"⇠", "⇣", "⇡", "⇢"}
	laneColors = [game.NLanes]Color{
		{236, 30, 0},  // red
		{0, 118, 236}, // blue
		{0, 236, 128}, // green
		{236, 195, 0}, // yellow
	}
)

var tierNames = [game.NTiers]string{
	"      \033[1;31mE\033[38;5;208mx\033[1;33ma\033[1;32mc\033[38;5;153mt\033[0m",
	"       \033[1;36mNear\033[0m",
	"       \033[1;31mMiss\033[0m",
}
