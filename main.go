package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/notefall/internal/audio"
	"git.lost.host/meutraa/notefall/internal/clock"
	"git.lost.host/meutraa/notefall/internal/config"
	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/generate"
	"git.lost.host/meutraa/notefall/internal/input"
	"git.lost.host/meutraa/notefall/internal/parser"
	"git.lost.host/meutraa/notefall/internal/render"
	"git.lost.host/meutraa/notefall/internal/round"
	"git.lost.host/meutraa/notefall/internal/score"
	"git.lost.host/meutraa/notefall/internal/theme"
	"github.com/faiface/beep"
)

const (
	sampleRate  = beep.SampleRate(44100)
	audioBuffer = time.Second / 60
	keyBuffer   = 128
	endWait     = 5 * time.Second
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

// findSong walks the song directory for a chart and a track
func findSong(dir string) (chartFile, audioFile string, err error) {
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		ext := strings.ToLower(path.Ext(info.Name()))
		if ext == ".sm" {
			chartFile = p
		}
		for _, e := range audio.Extensions {
			if ext == e && audioFile == "" {
				audioFile = p
			}
		}
		return nil
	}); nil != err {
		return "", "", fmt.Errorf("unable to walk song directory: %w", err)
	}
	return chartFile, audioFile, nil
}

func generateChart(c *config.Config) (*game.Chart, error) {
	rng := rand.New(rand.NewSource(c.Seed))
	chart := game.NewChart(c.BPM)
	chart.Difficulty = game.Difficulty{Name: c.Generate, Meter: strconv.FormatInt(c.Seed, 10)}
	var err error
	switch c.Generate {
	case config.GenerateUniform:
		err = generate.Uniform(chart, rng, c.Count, c.StartBeat, c.BeatsInterval)
	case config.GenerateSections:
		err = generate.Sections(chart, rng, c.Sections)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to generate chart: %w", err)
	}
	log.Printf("generated %v chart with seed %v\n", c.Generate, c.Seed)
	return chart, nil
}

// openDevice plays the track through the speaker, only --mute plays
// without one
func openDevice(mute bool, audioFile string) (clock.Device, func(), error) {
	if mute {
		log.Println("playing without audio")
		return clock.NewWall(), func() {}, nil
	}
	if audioFile == "" {
		return nil, nil, fmt.Errorf("unable to find a track, use --mute to play without one: %w", clock.ErrNoTrack)
	}
	player := audio.NewPlayer(sampleRate, audioBuffer)
	if err := player.Init(); nil != err {
		return nil, nil, err
	}
	closer := func() {
		if err := player.Close(); nil != err {
			log.Println("unable to close player", err)
		}
	}
	log.Printf("Opening %v\n", audioFile)
	if err := player.Load(audioFile); nil != err {
		closer()
		return nil, nil, err
	}
	return player, closer, nil
}

// selectChart lets the player pick a difficulty with a number key
func selectChart(charts []*game.Chart, keys *input.DefaultSource) (*game.Chart, error) {
	if len(charts) == 1 {
		return charts[0], nil
	}
	for i, c := range charts {
		fmt.Printf("%2v) %3v  %5v  %v\r\n", i, c.Difficulty.Meter, len(c.Notes), c.Difficulty.Name)
	}
	key, ok := keys.Next(time.Hour)
	if !ok {
		return nil, errors.New("no difficulty selected")
	}
	index, err := strconv.ParseInt(string(key.Rune), 10, 64)
	if nil != err || index < 0 || index > int64(len(charts)-1) {
		return nil, fmt.Errorf("unable to select difficulty %q", key.Rune)
	}
	return charts[index], nil
}

func run() error {
	c, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if nil != err {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var th theme.Theme = &theme.DefaultTheme{}
	var scorer score.Scorer = &score.DefaultScorer{}

	var chartFile, audioFile string
	if c.Directory != "" {
		chartFile, audioFile, err = findSong(c.Directory)
		if nil != err {
			return err
		}
	}

	keys, err := input.Open(c.Keys, keyBuffer)
	if nil != err {
		return err
	}
	defer keys.Close()

	var chart *game.Chart
	if c.Generate != config.GenerateNone {
		chart, err = generateChart(c)
	} else if chartFile == "" {
		err = errors.New("unable to find .sm file in given directory")
	} else {
		var charts []*game.Chart
		charts, err = psr.Parse(chartFile)
		if nil == err {
			chart, err = selectChart(charts, keys)
		}
	}
	if nil != err {
		return err
	}

	device, closeDevice, err := openDevice(c.Mute, audioFile)
	if nil != err {
		return err
	}
	defer closeDevice()
	if player, ok := device.(*audio.Player); ok {
		log.Printf("track %v (%v), chart %v\n", audioFile, player.Length(), chart.Duration())
		if player.Length() < chart.Duration() {
			log.Println("chart runs past the end of the track")
		}
	}

	if err := scorer.Init(c.Database); nil != err {
		return fmt.Errorf("unable to open scores: %w", err)
	}
	defer scorer.Deinit()
	if best, ok := scorer.Best(chart); ok {
		log.Printf("best score %v, max combo %v, played %v\n", best.Score, best.MaxCombo, best.PlayedAt)
	}

	settings := c.Settings()
	r := render.NewRenderer(os.Stdout, th, uint16(c.BarRow), settings.Travel.Distance)
	rd, err := round.New(settings, chart, device, r, scorer.Recorder(chart))
	if nil != err {
		return err
	}

	// Clear the screen and hide the cursor
	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to prepare terminal: %w", err)
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			log.Println("unable to restore terminal", err)
		}
	}()

	r.RunStateChanged(rd.Snapshot())
	if err := rd.Start(); nil != err {
		return err
	}

	quit := false
	r.RenderLoop(c.FramePeriod, func(elapsed time.Duration) bool {
		var inputs []game.Input
		var pause bool
		inputs, quit, pause = keys.Poll(rd.Position())
		if quit {
			rd.Abort()
			return false
		}

		rd.Frame(elapsed, inputs)

		if pause {
			if rd.Phase() == round.Paused {
				rd.Resume()
			} else {
				rd.Pause()
			}
		}

		switch rd.Phase() {
		case round.Over, round.Cleared:
			return false
		}
		return true
	})

	if quit {
		return nil
	}
	r.DrawStats(rd.Stats())
	r.Frame()
	log.Println("round", rd.Phase(), "score", rd.Snapshot().Score)
	keys.Wait(endWait)
	return nil
}
