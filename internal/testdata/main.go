package testdata

import (
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

// SM is a small song with a bpm change at beat 4 and a chart that can not
// be played with four lanes
const SM = `#TITLE:Test Song;
#ARTIST:nobody;
#OFFSET:-0.000;
#BPMS:0.000=120.000,
4.000=240.000;

//---------------dance-single - ----------------
#NOTES:
     dance-single:
     :
     Hard:
     9:
     0.1,0.2,0.3,0.4,0.5:
1000
0100
0010
0001
,  // measure 2
2000
3000
M001
0000
;

//---------------dance-double - ----------------
#NOTES:
     dance-double:
     :
     Easy:
     2:
     0,0,0,0,0:
10000000
00000000
00000000
00000001
;
`

// WriteSong puts SM and an empty track into dir
func WriteSong(dir string) (string, error) {
	file := filepath.Join(dir, "song.sm")
	if err := os.WriteFile(file, []byte(SM), 0o644); nil != err {
		return "", err
	}
	return file, os.WriteFile(filepath.Join(dir, "song.ogg"), nil, 0o644)
}

// GetChart is the chart SM parses to
func GetChart() *game.Chart {
	c := game.NewChart(120)
	c.Difficulty = game.Difficulty{Name: "Hard", Meter: "9"}
	c.Notes = []game.Note{
		{Lane: game.Left, Time: 0},
		{Lane: game.Down, Time: 500 * time.Millisecond},
		{Lane: game.Up, Time: time.Second},
		{Lane: game.Right, Time: 1500 * time.Millisecond},
		{Lane: game.Left, Time: 2 * time.Second},
		{Lane: game.Right, Time: 2500 * time.Millisecond},
	}
	return c
}
