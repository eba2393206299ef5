package game

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"math"
	"sort"
	"time"
)

type Chart struct {
	Notes      []Note
	BPM        float64
	Difficulty Difficulty
}

func NewChart(bpm float64) *Chart {
	return &Chart{BPM: bpm}
}

// TimeAtBeat converts a beat number to a target time using the chart BPM
func (c *Chart) TimeAtBeat(beat int) time.Duration {
	if c.BPM <= 0 {
		return 0
	}
	secondsPerBeat := 60.0 / c.BPM
	return time.Duration(math.Round(float64(beat) * secondsPerBeat * float64(time.Second)))
}

func (c *Chart) AddNoteAtBeat(lane Lane, beat int) {
	c.Notes = append(c.Notes, Note{Lane: lane, Time: c.TimeAtBeat(beat)})
}

func (c *Chart) Clear() {
	c.Notes = c.Notes[:0]
}

// Sort orders notes by target time, notes with equal times keep their
// insertion order
func (c *Chart) Sort() {
	sort.SliceStable(c.Notes, func(i, j int) bool {
		return c.Notes[i].Time < c.Notes[j].Time
	})
}

func (c *Chart) Sorted() bool {
	return sort.SliceIsSorted(c.Notes, func(i, j int) bool {
		return c.Notes[i].Time < c.Notes[j].Time
	})
}

// Duration is the target time of the last note
func (c *Chart) Duration() time.Duration {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[len(c.Notes)-1].Time
}

// Hash identifies the playable content of a chart for score history
func (c *Chart) Hash() string {
	h := sha256.New()
	h.Write([]byte(c.Difficulty.Name))
	buf := make([]byte, 9)
	for _, n := range c.Notes {
		buf[0] = byte(n.Lane)
		binary.LittleEndian.PutUint64(buf[1:], uint64(n.Time))
		h.Write(buf)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
