package game

import "fmt"

// Lane is the input column a note belongs to
type Lane uint8

const (
	Left Lane = iota
	Down
	Up
	Right
)

// NLanes is the number of lanes, tables indexed by Lane use [NLanes]T
const NLanes = 4

var laneNames = [NLanes]string{"left", "down", "up", "right"}

func (l Lane) Valid() bool {
	return l < NLanes
}

func (l Lane) String() string {
	if !l.Valid() {
		return fmt.Sprintf("lane(%d)", uint8(l))
	}
	return laneNames[l]
}

func ParseLane(s string) (Lane, error) {
	for i, name := range laneNames {
		if name == s {
			return Lane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lane %q", s)
}
