package parser

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
)

var ErrNoCharts = errors.New("no playable dance-single charts")

type DefaultParser struct{}

type bpmChange struct {
	StartingBeat float64
	Value        float64
}

func (p *DefaultParser) getSecondsPerNote(rates []bpmChange, currentBeat float64, bpn float64) float64 {
	sel := 0.0
	for _, bpm := range rates {
		if currentBeat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	if sel <= 0 {
		return 0
	}
	return bpn * 60.0 / sel
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

// Holds and rolls are played as a single press of their head
func (p *DefaultParser) mapToNote(ch byte) bool {
	return ch == '1' || ch == '2' || ch == '4'
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return p.Read(f)
}

func (p *DefaultParser) parseMeta(meta string) (float64, []bpmChange, error) {
	offset := 0.0
	bpms := []bpmChange{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		if i := strings.Index(mdl, ";"); i >= 0 {
			mdl = mdl[:i]
		}
		if strings.HasPrefix(mdl, "OFFSET:") {
			mdl = strings.TrimPrefix(mdl, "OFFSET:")
			offs, err := strconv.ParseFloat(strings.TrimSpace(mdl), 64)
			if nil != err {
				return 0, nil, fmt.Errorf("unable to parse offset: %w", err)
			}
			offset = -offs
		} else if strings.HasPrefix(mdl, "BPMS:") {
			mdl = strings.TrimPrefix(mdl, "BPMS:")
			mdl = strings.ReplaceAll(mdl, "\n", "")
			bbs := strings.Split(mdl, ",")
			for _, bpm := range bbs {
				as := strings.Split(bpm, "=")
				if len(as) != 2 {
					return 0, nil, fmt.Errorf("unable to parse bpm %q", bpm)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return 0, nil, err
				}
				value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return 0, nil, err
				}
				bpms = append(bpms, bpmChange{StartingBeat: sb, Value: value})
			}
		}
	}
	if len(bpms) == 0 {
		return 0, nil, errors.New("chart has no bpms")
	}
	return offset, bpms, nil
}

func (p *DefaultParser) Read(r io.Reader) ([]*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	difficulties := []game.Difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		if nKeys, ok := game.NKeyMap[chartType]; !ok || nKeys != game.NLanes {
			log.Println("skipping", chartType, "chart")
			continue
		}
		difficulties = append(difficulties, game.Difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Meter:   strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: lines[6],
		})
	}
	if len(difficulties) == 0 {
		return nil, ErrNoCharts
	}

	offset, bpms, err := p.parseMeta(sections[0])
	if nil != err {
		return nil, err
	}

	charts := []*game.Chart{}
	for _, difficulty := range difficulties {
		// Start time of first note
		seconds := offset
		currentBeat := 0.0
		chart := game.NewChart(bpms[0].Value)
		chart.Difficulty = difficulty

		for _, block := range strings.Split(difficulty.Section, "\n,") {
			lines := []string{}
			for _, l := range strings.Split(block, "\n") {
				if i := strings.Index(l, "//"); i >= 0 {
					l = l[:i]
				}
				l = strings.TrimSpace(l)
				if len(l) >= game.NLanes {
					lines = append(lines, l)
				}
			}
			if len(lines) == 0 {
				continue
			}

			// Beat count is 4 per block
			beatsPerNote := 4.0 / float64(len(lines)) // 1/4, 1/8, 1/16, 1/24 etc

			for _, line := range lines {
				at := time.Duration(math.Round(seconds * float64(time.Second)))
				for i := 0; i < game.NLanes; i++ {
					if !p.mapToNote(line[i]) {
						continue
					}
					if at < 0 {
						log.Println("dropping note before the start of the track at", at)
						continue
					}
					chart.Notes = append(chart.Notes, game.Note{Lane: game.Lane(i), Time: at})
				}
				seconds += p.getSecondsPerNote(bpms, currentBeat, beatsPerNote)
				currentBeat += beatsPerNote
			}
		}

		chart.Sort()
		charts = append(charts, chart)
	}

	return charts, nil
}
