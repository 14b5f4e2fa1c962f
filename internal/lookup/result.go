package lookup

import "github.com/bbernstein/stopfinder/internal/models"

type Outcome string

const (
	OutcomeFound      Outcome = "FOUND"
	OutcomeEmptyInput Outcome = "EMPTY_INPUT"
	OutcomeNoResult   Outcome = "NO_RESULT"
	OutcomeFailed     Outcome = "FAILED"
)

const (
	MessageEmptyInput = "Please enter a location."
	MessageNoResult   = "No nearby MBTA stations were found."
	MessageFailed     = "There was a problem finding a station."
)

// Result is the outcome of one pipeline run. Coordinates, Stop and Arrival
// are only set when Outcome is OutcomeFound. Err holds the underlying cause
// of OutcomeFailed for logs; it is never shown to users.
type Result struct {
	Outcome     Outcome
	Place       string
	Coordinates models.Coordinates
	Stop        *models.Stop
	Arrival     models.Arrival
	Err         error
}

func (r Result) Found() bool {
	return r.Outcome == OutcomeFound
}

// Message is the user-facing text for outcomes other than OutcomeFound.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeEmptyInput:
		return MessageEmptyInput
	case OutcomeNoResult:
		return MessageNoResult
	case OutcomeFailed:
		return MessageFailed
	default:
		return ""
	}
}
