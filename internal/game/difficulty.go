package game

type Difficulty struct {
	Name    string
	Meter   string
	Section string
}

// Only four lane charts can be played
var NKeyMap = map[string]uint8{
	"dance-single": NLanes,
	"dance-solo":   6,
	"dance-double": 8,
}
