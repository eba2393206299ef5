package main

import (
	"errors"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/notefall/internal/clock"
	"git.lost.host/meutraa/notefall/internal/config"
	"git.lost.host/meutraa/notefall/internal/generate"
	"git.lost.host/meutraa/notefall/internal/testdata"
)

func TestOpenDevice(t *testing.T) {
	device, closeDevice, err := openDevice(true, "")
	if nil != err {
		t.Fatal(err)
	}
	defer closeDevice()
	if _, ok := device.(*clock.Wall); !ok {
		t.Errorf("--mute plays on the wall clock, got %T", device)
	}

	if _, _, err := openDevice(false, ""); !errors.Is(err, clock.ErrNoTrack) {
		t.Errorf("a song without a track must not play, got %v", err)
	}
}

func TestFindSong(t *testing.T) {
	dir := t.TempDir()
	file, err := testdata.WriteSong(dir)
	if nil != err {
		t.Fatal(err)
	}
	chartFile, audioFile, err := findSong(dir)
	if nil != err {
		t.Fatal(err)
	}
	if chartFile != file || audioFile != filepath.Join(dir, "song.ogg") {
		t.Errorf("got %v and %v", chartFile, audioFile)
	}
}

func TestGenerateChart(t *testing.T) {
	c := &config.Config{Generate: config.GenerateUniform, BPM: 120, Count: 3, StartBeat: 2, BeatsInterval: 2, Seed: 1}
	chart, err := generateChart(c)
	if nil != err {
		t.Fatal(err)
	}
	if len(chart.Notes) != 3 || chart.Notes[0].Time < 0 {
		t.Errorf("unexpected notes %v", chart.Notes)
	}

	c.StartBeat = -6
	if _, err := generateChart(c); !errors.Is(err, generate.ErrStartBeat) {
		t.Errorf("expected ErrStartBeat, got %v", err)
	}
}
