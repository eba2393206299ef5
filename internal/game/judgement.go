package game

import (
	"time"
)

// Tier is ordered by strictness, not by score
type Tier uint8

const (
	Exact Tier = iota
	Near
	Missed
)

// NTiers is the number of tiers, tables indexed by Tier use [NTiers]T
const NTiers = 3

var tierNames = [NTiers]string{"Exact", "Near", "Miss"}

func (t Tier) String() string {
	if t >= NTiers {
		return "Unknown"
	}
	return tierNames[t]
}

// Judgement is emitted once for every note of a round
type Judgement struct {
	Tier   Tier
	Lane   Lane
	Handle Handle
	Index  int           // Position of the note in the chart
	Error  time.Duration // Signed input time minus target time, 0 on timeout
	Late   bool          // Resolved by the miss timeout, not by input
}
