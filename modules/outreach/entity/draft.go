package entity

import "time"

// Slot lifecycle states carried on a draft.
const (
	SlotStatusExisting  = "existing"
	SlotStatusNone      = "none"
	SlotStatusSuggested = "suggested"
	SlotStatusConfirmed = "confirmed"
)

// SlotRef is a concrete bookable interval. Display is derived from Start
// and kept only for prompt and email rendering; times are the source of
// truth for booking.
type SlotRef struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Display string    `json:"display"`
}

// Draft is the single in-flight outreach email. At most one exists at a
// time; regenerating replaces it wholesale.
type Draft struct {
	ProspectEmail string `json:"prospect_email"`
	ProspectName  string `json:"prospect_name"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`

	SlotStatus     string    `json:"slot_status"`
	SuggestedSlots []SlotRef `json:"suggested_slots,omitempty"`
	FinalSlot      *SlotRef  `json:"final_slot,omitempty"`

	PastInteraction string    `json:"past_interaction,omitempty"`
	CurrentMail     string    `json:"current_mail,omitempty"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Bookable reports whether approving this draft should create a calendar
// event. Only drafts that confirmed a new slot book; existing meetings are
// already on the calendar.
func (d *Draft) Bookable() bool {
	return d.SlotStatus == SlotStatusConfirmed && d.FinalSlot != nil
}

// HistoryRecord archives a sent draft.
type HistoryRecord struct {
	ID        string    `json:"id"`
	Draft     Draft     `json:"draft"`
	SentAt    time.Time `json:"sent_at"`
	EventID   string    `json:"event_id,omitempty"`
	EventLink string    `json:"event_link,omitempty"`
}
