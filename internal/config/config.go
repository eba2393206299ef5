// Package config reads the command line into the settings of a round and
// the collaborators around it.
package config

import (
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/notefall/internal/game"
	"git.lost.host/meutraa/notefall/internal/generate"
	"git.lost.host/meutraa/notefall/internal/judge"
	"git.lost.host/meutraa/notefall/internal/round"
	"git.lost.host/meutraa/notefall/internal/run"
	"git.lost.host/meutraa/notefall/internal/schedule"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

var (
	ErrKeys     = fmt.Errorf("keys must be %d distinct characters", game.NLanes)
	ErrNoSource = errors.New("a song directory or --generate is required")
)

const (
	GenerateNone     = "none"
	GenerateUniform  = "uniform"
	GenerateSections = "sections"
)

type Config struct {
	Directory string

	Offset      time.Duration
	Delay       time.Duration
	Travel      time.Duration
	Exact       time.Duration
	Near        time.Duration
	Accept      time.Duration
	MissTimeout time.Duration
	Lives       int

	ExactScore      int
	NearScore       int
	ComboMultiplier float64

	Generate      string
	BPM           float64
	Count         int
	StartBeat     int
	BeatsInterval int
	Sections      []game.Section
	Seed          int64

	Keys        [game.NLanes]rune
	BarRow      uint
	FramePeriod time.Duration
	Database    string
	LogFile     string
	Mute        bool
}

// Parse builds a fresh application for every call, so it can be called more
// than once.
func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("notefall", "Four lane rhythm game for the terminal")
	app.Version(Version)

	app.Arg("directory", "Song/chart directory").ExistingDirVar(&c.Directory)
	app.Flag("offset", "Global offset, positive when sound arrives late").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("2s").Short('d').DurationVar(&c.Delay)
	app.Flag("travel", "Time a note takes to reach the bar").Default("2s").Short('t').DurationVar(&c.Travel)
	app.Flag("exact", "Exact window").Default("50ms").DurationVar(&c.Exact)
	app.Flag("near", "Near window").Default("100ms").DurationVar(&c.Near)
	app.Flag("accept", "Largest error an input can still hit").Default("150ms").DurationVar(&c.Accept)
	app.Flag("miss-timeout", "Time after the target a note is missed").Default("150ms").DurationVar(&c.MissTimeout)
	app.Flag("lives", "Misses allowed before the round is over").Default("3").Short('l').IntVar(&c.Lives)
	app.Flag("exact-score", "Base score of an exact hit").Default("100").IntVar(&c.ExactScore)
	app.Flag("near-score", "Base score of a near hit").Default("50").IntVar(&c.NearScore)
	app.Flag("combo-multiplier", "Bonus per combo step").Default("0.2").Float64Var(&c.ComboMultiplier)
	app.Flag("generate", "Generate a chart instead of reading one").Default(GenerateNone).Short('g').
		EnumVar(&c.Generate, GenerateNone, GenerateUniform, GenerateSections)
	app.Flag("bpm", "Tempo of a generated chart").Default("120").Float64Var(&c.BPM)
	app.Flag("count", "Number of uniformly generated notes").Default("50").IntVar(&c.Count)
	app.Flag("start-beat", "First beat of a uniformly generated chart").Default("15").IntVar(&c.StartBeat)
	app.Flag("beats-interval", "Beats between uniformly generated notes").Default("2").IntVar(&c.BeatsInterval)
	sections := app.Flag("section", "Generated section as start:end:interval, e.g. 10s:30s:2").Strings()
	app.Flag("seed", "Generator seed, 0 picks one from the time").Default("0").Int64Var(&c.Seed)
	keys := app.Flag("keys", "Keys for the lanes, left to right").Default("dfjk").Short('k').String()
	app.Flag("bar-row", "Console row to render hit bar").Default("4").UintVar(&c.BarRow)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("db", "Score database").Default("notefall.db").StringVar(&c.Database)
	app.Flag("log-file", "File to log to while the terminal is raw").Default("notefall.log").StringVar(&c.LogFile)
	app.Flag("mute", "Play without audio").BoolVar(&c.Mute)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}

	k, err := parseKeys(*keys)
	if nil != err {
		return nil, err
	}
	c.Keys = k

	for _, s := range *sections {
		section, err := game.ParseSection(s)
		if nil != err {
			return nil, err
		}
		c.Sections = append(c.Sections, section)
	}

	if c.Directory == "" && c.Generate == GenerateNone {
		return nil, ErrNoSource
	}
	if c.StartBeat < 0 {
		return nil, fmt.Errorf("unable to generate from beat %v: %w", c.StartBeat, generate.ErrStartBeat)
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}

	if err := c.Settings().Validate(); nil != err {
		return nil, fmt.Errorf("unable to use settings: %w", err)
	}

	return c, nil
}

func parseKeys(s string) ([game.NLanes]rune, error) {
	k := [game.NLanes]rune{}
	rs := []rune(s)
	if len(rs) != game.NLanes {
		return k, ErrKeys
	}
	for i, r := range rs {
		for _, prev := range rs[:i] {
			if prev == r {
				return k, ErrKeys
			}
		}
		k[i] = r
	}
	return k, nil
}

func (c *Config) Windows() judge.Windows {
	return judge.Windows{
		Exact:       c.Exact,
		Near:        c.Near,
		Accept:      c.Accept,
		MissTimeout: c.MissTimeout,
	}
}

func (c *Config) Settings() round.Settings {
	return round.Settings{
		Delay:   c.Delay,
		Offset:  c.Offset,
		Travel:  schedule.Travel{Duration: c.Travel, Distance: 1},
		Windows: c.Windows(),
		Lives:   c.Lives,
		Scoring: run.Scoring{
			ExactBase:       c.ExactScore,
			NearBase:        c.NearScore,
			ComboMultiplier: c.ComboMultiplier,
		},
	}
}
