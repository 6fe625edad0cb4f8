package booking

import "errors"

// State is one step of the booking wizard.
type State string

const (
	StateSelectDoctor   State = "select_doctor"
	StateSelectSchedule State = "select_schedule"
	StateReview         State = "review"
	StateConfirmed      State = "confirmed"
)

// Event drives the wizard between states.
type Event string

const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventSubmit Event = "submit"
	EventReset  Event = "reset"
)

var ErrInvalidTransition = errors.New("invalid wizard transition")

type transitionKey struct {
	From State
	On   Event
}

// transitions is the full table of legal moves. Guards that depend on session
// data (a doctor or slot being selected) are enforced by the service before
// the table is consulted.
var transitions = map[transitionKey]State{
	{StateSelectDoctor, EventNext}:    StateSelectSchedule,
	{StateSelectDoctor, EventReset}:   StateSelectDoctor,
	{StateSelectSchedule, EventNext}:  StateReview,
	{StateSelectSchedule, EventBack}:  StateSelectDoctor,
	{StateSelectSchedule, EventReset}: StateSelectDoctor,
	{StateReview, EventBack}:          StateSelectSchedule,
	{StateReview, EventSubmit}:        StateConfirmed,
	{StateReview, EventReset}:         StateSelectDoctor,
	{StateConfirmed, EventReset}:      StateSelectDoctor,
}

// NextState resolves one transition. The zero State is never returned with a
// nil error.
func NextState(from State, on Event) (State, error) {
	to, ok := transitions[transitionKey{From: from, On: on}]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}

// ValidState reports whether s is one of the wizard states.
func ValidState(s State) bool {
	switch s {
	case StateSelectDoctor, StateSelectSchedule, StateReview, StateConfirmed:
		return true
	}
	return false
}
