package dto

import (
	"testing"
	"time"
)

func TestGoogleEventTimeParse(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")

	tests := []struct {
		name string
		in   GoogleEventTime
		want time.Time
	}{
		{
			name: "datetime form",
			in:   GoogleEventTime{DateTime: "2026-09-08T09:00:00-04:00"},
			want: time.Date(2026, time.September, 8, 9, 0, 0, 0, ny),
		},
		{
			name: "all day form",
			in:   GoogleEventTime{Date: "2026-09-08"},
			want: time.Date(2026, time.September, 8, 0, 0, 0, 0, ny),
		},
		{
			name: "malformed stays zero",
			in:   GoogleEventTime{DateTime: "tomorrow-ish"},
			want: time.Time{},
		},
		{
			name: "empty stays zero",
			in:   GoogleEventTime{},
			want: time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Parse(ny); !got.Equal(tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoogleEventToCalendarEvent(t *testing.T) {
	g := GoogleEvent{
		ID:          "evt-1",
		Summary:     "Intro call",
		Description: "Email: jane@acme.test",
		Status:      "confirmed",
		Start:       GoogleEventTime{DateTime: "2026-09-08T09:00:00Z"},
		End:         GoogleEventTime{DateTime: "2026-09-08T09:30:00Z"},
		Attendees: []GoogleAttendee{
			{Email: "jane@acme.test", ResponseStatus: "accepted"},
			{Email: ""},
			{Email: "sales@corp.test"},
		},
	}

	ev := g.ToCalendarEvent(time.UTC)

	if ev.ID != "evt-1" || ev.Summary != "Intro call" {
		t.Errorf("ToCalendarEvent() = %+v", ev)
	}
	if len(ev.Attendees) != 2 {
		t.Errorf("Attendees = %v, want blank entries dropped", ev.Attendees)
	}
	if ev.End.Sub(ev.Start) != 30*time.Minute {
		t.Errorf("event span = %v, want 30m", ev.End.Sub(ev.Start))
	}
}
