package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Section is a window of the song where generated notes are spaced
// BeatsInterval beats apart
type Section struct {
	Start         time.Duration
	End           time.Duration
	BeatsInterval int
}

// ParseSection reads the start:end:interval form used on the command line,
// e.g. "10s:30s:2"
func ParseSection(s string) (Section, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Section{}, fmt.Errorf("section %q is not start:end:interval", s)
	}
	start, err := time.ParseDuration(parts[0])
	if nil != err {
		return Section{}, fmt.Errorf("unable to parse section start: %w", err)
	}
	end, err := time.ParseDuration(parts[1])
	if nil != err {
		return Section{}, fmt.Errorf("unable to parse section end: %w", err)
	}
	interval, err := strconv.Atoi(parts[2])
	if nil != err {
		return Section{}, fmt.Errorf("unable to parse section interval: %w", err)
	}
	if interval <= 0 || start < 0 || end < start {
		return Section{}, fmt.Errorf("section %q is empty or negative", s)
	}
	return Section{Start: start, End: end, BeatsInterval: interval}, nil
}
