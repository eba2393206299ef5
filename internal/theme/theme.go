package theme

import "git.lost.host/meutraa/notefall/internal/game"

type Theme interface {
	RenderNote(lane game.Lane) string
	RenderHitField(lane game.Lane, lit bool) string
	RenderTier(tier game.Tier) string
	RenderWhiff() string
}
