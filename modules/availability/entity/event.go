package entity

import (
	"time"

	"outreach-api/core/constants"
)

// UpcomingEvent is a booked calendar event associated with a prospect.
// The zero-ish sentinel (Confirmed=false, every other field empty) stands
// for "no upcoming event"; it is a defined contract, not an empty slice.
type UpcomingEvent struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Attendees   []string  `json:"attendees"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Display     string    `json:"start_readable"`
	Confirmed   bool      `json:"confirmed"`
}

// NoUpcomingEvent returns the sentinel record for a prospect with no
// matching booked event.
func NoUpcomingEvent() UpcomingEvent {
	return UpcomingEvent{}
}

// WithDisplay fills the human-readable rendering of the event start.
func (e UpcomingEvent) WithDisplay() UpcomingEvent {
	if !e.Start.IsZero() {
		e.Display = e.Start.Format(constants.SlotDisplayLayout)
	}
	return e
}
