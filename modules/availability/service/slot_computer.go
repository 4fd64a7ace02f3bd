package service

import (
	"sort"
	"time"

	"outreach-api/core/config"
	"outreach-api/modules/availability/entity"
)

// SlotComputer turns busy intervals plus the working-calendar policy into
// an ordered list of bookable free slots.
type SlotComputer struct {
	cfg config.CalendarConfig
}

func NewSlotComputer(cfg config.CalendarConfig) *SlotComputer {
	return &SlotComputer{cfg: cfg}
}

// ComputeFreeSlots builds the slot grid for every working day in the
// lookahead window and keeps each candidate iff it does not overlap any
// busy interval and starts strictly after now. Touching endpoints do not
// count as overlap. Malformed busy intervals are skipped individually;
// the computation never aborts on bad input data.
//
// Results are ordered ascending by start; the caller truncates to top N.
func (sc *SlotComputer) ComputeFreeSlots(busy []entity.BusyInterval, days int, now time.Time) []entity.FreeSlot {
	loc := sc.cfg.Location()
	now = now.In(loc)

	merged := mergeBusy(busy)

	startOfDay, endOfDay := sc.cfg.WorkingWindow()
	slotDur := sc.cfg.SlotDuration()

	baseDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var slots []entity.FreeSlot
	for d := 0; d < days; d++ {
		day := baseDay.AddDate(0, 0, d)
		if !sc.cfg.IsWorkingDay(day.Weekday()) {
			continue
		}

		slotStart := day.Add(startOfDay)
		dayEnd := day.Add(endOfDay)

		// A trailing remainder shorter than one slot is dropped, never
		// clipped into a short slot.
		for !slotStart.Add(slotDur).After(dayEnd) {
			slotEnd := slotStart.Add(slotDur)
			if slotStart.After(now) && !overlapsAny(merged, slotStart, slotEnd) {
				slots = append(slots, entity.NewFreeSlot(slotStart, slotEnd))
			}
			slotStart = slotEnd
		}
	}

	return slots
}

// mergeBusy drops malformed intervals, sorts by start and merges
// overlapping or adjacent ranges.
func mergeBusy(busy []entity.BusyInterval) []entity.BusyInterval {
	valid := make([]entity.BusyInterval, 0, len(busy))
	for _, b := range busy {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []entity.BusyInterval{valid[0]}
	for _, curr := range valid[1:] {
		last := &merged[len(merged)-1]
		if curr.Start.After(last.End) {
			merged = append(merged, curr)
			continue
		}
		if curr.End.After(last.End) {
			last.End = curr.End
		}
	}
	return merged
}

func overlapsAny(busy []entity.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
