package dto

import "time"

// CalendarEvent is a booked event as returned by the calendar read path.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Attendees   []string  `json:"attendees"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
}

// CreateEventRequest describes the event the booking flow commits.
type CreateEventRequest struct {
	Summary         string    `json:"summary"`
	Description     string    `json:"description"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Attendees       []string  `json:"attendees,omitempty"`
	WithConference  bool      `json:"with_conference"`
	InviteAttendees bool      `json:"invite_attendees"`
}

// CreateEventResponse carries the provider identifiers the coordinator
// archives with the draft.
type CreateEventResponse struct {
	EventID  string    `json:"event_id"`
	HTMLLink string    `json:"html_link"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}
