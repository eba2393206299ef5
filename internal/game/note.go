package game

import (
	"time"
)

type Note struct {
	Lane Lane          // The chart column
	Time time.Duration // The time the note should be hit
}

// Handle refers to the presentation object of an in-flight note.
// The zero Handle means there is none.
type Handle uint32

// Input is a key press already converted to song position time
type Input struct {
	Lane Lane
	Time time.Duration
}
