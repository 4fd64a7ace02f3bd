package service

import (
	"strings"

	"outreach-api/modules/availability/entity"
	caldto "outreach-api/modules/calendar/dto"
)

// EventMatcher associates already-booked calendar events with a prospect
// address.
type EventMatcher struct{}

func NewEventMatcher() *EventMatcher {
	return &EventMatcher{}
}

// MatchProspectEvents returns the events referencing the prospect, in
// provider-supplied order, each flagged Confirmed. The primary rule is an
// exact case-insensitive attendee-address comparison; when no attendee
// matches, a permissive fallback looks for the lower-cased address as a
// substring of summary, description and attendee list. With no match at
// all the result is exactly one sentinel record with Confirmed=false.
func (m *EventMatcher) MatchProspectEvents(identity string, events []caldto.CalendarEvent) []entity.UpcomingEvent {
	needle := strings.ToLower(strings.TrimSpace(identity))
	if needle == "" {
		return []entity.UpcomingEvent{entity.NoUpcomingEvent()}
	}

	var matched []entity.UpcomingEvent
	for _, ev := range events {
		if !m.attendeeMatch(needle, ev.Attendees) && !m.fuzzyMatch(needle, ev) {
			continue
		}
		matched = append(matched, entity.UpcomingEvent{
			Summary:     ev.Summary,
			Description: ev.Description,
			Attendees:   ev.Attendees,
			Start:       ev.Start,
			End:         ev.End,
			Confirmed:   true,
		}.WithDisplay())
	}

	if len(matched) == 0 {
		return []entity.UpcomingEvent{entity.NoUpcomingEvent()}
	}
	return matched
}

func (m *EventMatcher) attendeeMatch(needle string, attendees []string) bool {
	for _, a := range attendees {
		if strings.ToLower(strings.TrimSpace(a)) == needle {
			return true
		}
	}
	return false
}

// fuzzyMatch is the documented permissive fallback: substring search over
// the concatenated event text.
func (m *EventMatcher) fuzzyMatch(needle string, ev caldto.CalendarEvent) bool {
	parts := append([]string{ev.Summary, ev.Description}, ev.Attendees...)
	combined := strings.ToLower(strings.Join(parts, " "))
	return strings.Contains(combined, needle)
}
