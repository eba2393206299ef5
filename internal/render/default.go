// Package render draws a round on an ANSI terminal. Everything is written
// to a buffer and flushed once per frame.
package render

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/run"
	"git.lost.host/meutraa/notefall/internal/theme"
	"golang.org/x/term"
)

const (
	columnSpacing  = 6
	tierFrames     = 60
	hitFieldFrames = 15
	panelColumn    = columnSpacing*game.NLanes + 6
)

type DefaultRenderer struct {
	out          io.Writer
	theme        theme.Theme
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration

	barRow   uint16
	height   uint16
	distance float64 // travel distance shown between the bottom row and the bar

	frame   int
	next    game.Handle
	sprites map[game.Handle]*sprite
}

type decoration struct {
	X, Y    uint16
	Content string
	Restore string // drawn when the decoration expires
	Until   int    // frame the decoration is removed on
}

type sprite struct {
	lane game.Lane
	row  int // 0 while not drawn
}

func NewRenderer(out io.Writer, th theme.Theme, barRow uint16, distance float64) *DefaultRenderer {
	if barRow < 1 {
		barRow = 1
	}
	return &DefaultRenderer{
		out:      out,
		theme:    th,
		barRow:   barRow,
		height:   24,
		distance: distance,
		sprites:  map[game.Handle]*sprite{},
	}
}

// Init switches to raw mode when out is a terminal
func (r *DefaultRenderer) Init() error {
	if f, ok := r.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if nil != err {
			return err
		}
		r.restoreState = state

		if _, h, err := term.GetSize(int(f.Fd())); nil == err && h > int(r.barRow)+2 {
			r.height = uint16(h)
		}
	}

	fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	r.drawHitField()
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if f, ok := r.out.(*os.File); ok && nil != r.restoreState {
		return term.Restore(int(f.Fd()), r.restoreState)
	}
	return nil
}

func column(lane game.Lane) uint16 {
	return uint16(2 + int(lane)*columnSpacing)
}

func (r *DefaultRenderer) drawHitField() {
	for l := game.Lane(0); l < game.NLanes; l++ {
		r.Fill(r.barRow, column(l), r.theme.RenderHitField(l, false))
	}
}

// rowFor maps a distance to the bar onto a console row, notes rise from
// the bottom of the screen towards the bar
func (r *DefaultRenderer) rowFor(position float64) int {
	if r.distance <= 0 || r.height <= r.barRow {
		return int(r.barRow)
	}
	rows := float64(r.height - r.barRow)
	return int(r.barRow) + int(math.Round(position/r.distance*rows))
}

func (r *DefaultRenderer) visible(row int) bool {
	return row >= 1 && row <= int(r.height)
}

func (r *DefaultRenderer) erase(s *sprite) {
	if s.row == int(r.barRow) {
		r.Fill(r.barRow, column(s.lane), r.theme.RenderHitField(s.lane, false))
	} else if r.visible(s.row) {
		r.Fill(uint16(s.row), column(s.lane), " ")
	}
	s.row = 0
}

func (r *DefaultRenderer) NoteSpawned(lane game.Lane) game.Handle {
	r.next++
	if r.next == 0 {
		r.next++
	}
	r.sprites[r.next] = &sprite{lane: lane}
	return r.next
}

func (r *DefaultRenderer) NotePositionUpdated(h game.Handle, position float64) bool {
	s, ok := r.sprites[h]
	if !ok {
		return false
	}
	row := r.rowFor(position)
	if row < 1 {
		// gone past the top of the screen
		r.erase(s)
		delete(r.sprites, h)
		return false
	}
	if row == s.row {
		return true
	}
	r.erase(s)
	if r.visible(row) {
		r.Fill(uint16(row), column(s.lane), r.theme.RenderNote(s.lane))
		s.row = row
	}
	return true
}

func (r *DefaultRenderer) NoteResolved(h game.Handle, j game.Judgement) {
	if s, ok := r.sprites[h]; ok {
		r.erase(s)
		delete(r.sprites, h)
	}
	r.AddDecoration(panelColumn, r.barRow, r.theme.RenderTier(j.Tier), tierFrames)
	if j.Tier != game.Missed {
		r.addLit(j.Lane)
		r.AddDecoration(panelColumn+12, r.barRow, fmt.Sprintf("%+4dms", j.Error.Milliseconds()), tierFrames)
	}
}

func (r *DefaultRenderer) NoteDiscarded(h game.Handle) {
	if s, ok := r.sprites[h]; ok {
		r.erase(s)
		delete(r.sprites, h)
	}
}

func (r *DefaultRenderer) InputWhiffed(lane game.Lane) {
	r.addLit(lane)
	r.AddDecoration(panelColumn, r.barRow, r.theme.RenderWhiff(), tierFrames)
}

func (r *DefaultRenderer) addLit(lane game.Lane) {
	r.decorations = append(r.decorations, &decoration{
		X:       column(lane),
		Y:       r.barRow,
		Content: r.theme.RenderHitField(lane, true),
		Restore: r.theme.RenderHitField(lane, false),
		Until:   r.frame + hitFieldFrames,
	})
	r.Fill(r.barRow, column(lane), r.theme.RenderHitField(lane, true))
}

func (r *DefaultRenderer) RunStateChanged(s run.Snapshot) {
	r.Fill(1, panelColumn, fmt.Sprintf("\033[K%8d", s.Score))
	r.Fill(2, panelColumn, fmt.Sprintf("\033[K%4dx (max %d)", s.Combo, s.MaxCombo))
	life := strings.Repeat("♥", s.Life) + strings.Repeat("♡", s.MaxLife-s.Life)
	r.Fill(3, panelColumn, "\033[K"+life)
	if s.Over {
		r.Fill(r.barRow+2, panelColumn, "\033[1;31mGame over\033[0m")
	}
}

func (r *DefaultRenderer) DrawStats(stats run.Stats) {
	row := r.barRow + 4
	for t := game.Tier(0); t < game.NTiers; t++ {
		r.Fill(row+uint16(t), panelColumn, fmt.Sprintf("%s %4d", r.theme.RenderTier(t), stats.Counts[t]))
	}
	row += game.NTiers
	r.Fill(row, panelColumn, fmt.Sprintf("\033[K      Whiff %4d", stats.Whiffs))
	r.Fill(row+1, panelColumn, fmt.Sprintf("\033[K       Mean %+.1fms", float64(stats.Mean().Microseconds())/1000))
	r.Fill(row+2, panelColumn, fmt.Sprintf("\033[K      Stdev %.1fms", float64(stats.Stdev().Microseconds())/1000))
}

// AddDecoration shows content for a number of frames
func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	// a newer decoration in the same cell replaces the older one
	for _, d := range r.decorations {
		if d.X == col && d.Y == row {
			d.Until = r.frame
		}
	}
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Until:   r.frame + frames,
	})
	r.Fill(row, col, "\033[K"+content)
}

func (r *DefaultRenderer) tickDecorations() {
	r.frame++
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if r.frame < d.Until {
			nd = append(nd, d)
			continue
		}
		if r.replaced(d) {
			continue
		}
		if d.Restore != "" {
			r.Fill(d.Y, d.X, d.Restore)
		} else {
			r.Fill(d.Y, d.X, "\033[K")
		}
	}
	r.decorations = nd
}

func (r *DefaultRenderer) replaced(old *decoration) bool {
	for _, d := range r.decorations {
		if d != old && d.X == old.X && d.Y == old.Y && r.frame < d.Until {
			return true
		}
	}
	return false
}

// Frame expires decorations and writes everything drawn since the last frame
func (r *DefaultRenderer) Frame() {
	r.tickDecorations()
	r.flush()
}

// RenderLoop calls render once a period until it returns false
func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(elapsed time.Duration) bool) {
	cont := true
	last := time.Now()
	for cont {
		now := time.Now()
		deadline := now.Add(period)

		cont = render(now.Sub(last))
		last = now

		r.Frame()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	if r.buffer.Len() == 0 {
		return
	}
	if _, err := io.WriteString(r.out, r.buffer.String()); nil != err {
		log.Println("unable to write frame:", err)
	}
	r.buffer.Reset()
}
