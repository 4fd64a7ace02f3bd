package entity

import (
	"time"

	"outreach-api/core/constants"
)

// BusyInterval is a half-open [Start, End) range the calendar provider
// marks unavailable.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the interval is well formed. Malformed intervals
// are dropped by callers, never fatal.
func (b BusyInterval) Valid() bool {
	return !b.Start.IsZero() && !b.End.IsZero() && b.Start.Before(b.End)
}

// Overlaps reports whether [start, end) intersects the busy interval.
// Touching endpoints are not overlaps.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return !(end.Before(b.Start) || end.Equal(b.Start) || start.After(b.End) || start.Equal(b.End))
}

// FreeSlot is a bookable slot of exactly the configured duration, carrying
// a human-readable rendering alongside the machine timestamps.
type FreeSlot struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Display    string    `json:"display"`
	EndDisplay string    `json:"end_display"`
}

// NewFreeSlot renders the display strings from the timestamps.
func NewFreeSlot(start, end time.Time) FreeSlot {
	return FreeSlot{
		Start:      start,
		End:        end,
		Display:    start.Format(constants.SlotDisplayLayout),
		EndDisplay: end.Format(constants.SlotEndDisplayLayout),
	}
}
