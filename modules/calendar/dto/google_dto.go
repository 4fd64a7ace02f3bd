package dto

import "time"

// Wire types for the Google Calendar v3 REST API.

type GoogleEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type GoogleAttendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

type GoogleEvent struct {
	ID          string           `json:"id"`
	Summary     string           `json:"summary"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	HTMLLink    string           `json:"htmlLink"`
	Start       GoogleEventTime  `json:"start"`
	End         GoogleEventTime  `json:"end"`
	Attendees   []GoogleAttendee `json:"attendees"`
}

type GoogleEventsListResponse struct {
	Items []GoogleEvent `json:"items"`
}

type GoogleFreeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"busy"`
	} `json:"calendars"`
}

// ToCalendarEvent maps a wire event to the domain DTO. Unparseable
// timestamps are left zero; the caller decides whether that matters.
func (g GoogleEvent) ToCalendarEvent(loc *time.Location) CalendarEvent {
	ev := CalendarEvent{
		ID:          g.ID,
		Summary:     g.Summary,
		Description: g.Description,
		Status:      g.Status,
	}
	for _, a := range g.Attendees {
		if a.Email != "" {
			ev.Attendees = append(ev.Attendees, a.Email)
		}
	}
	ev.Start = g.Start.Parse(loc)
	ev.End = g.End.Parse(loc)
	return ev
}

// Parse resolves either the dateTime or the all-day date form.
func (t GoogleEventTime) Parse(loc *time.Location) time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed.In(loc)
		}
	}
	if t.Date != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
