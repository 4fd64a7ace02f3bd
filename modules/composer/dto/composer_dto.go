package dto

// Prospect identifies the counterpart being contacted.
type Prospect struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Industry string `json:"industry"`
}

// CompanyProfile is the sender-side context injected into every prompt.
type CompanyProfile struct {
	Name      string   `json:"name"`
	Signature string   `json:"signature"`
	CTA       string   `json:"cta"`
	Services  []string `json:"services"`
	USP       []string `json:"usp"`
}

// DraftContext is everything the generator needs to pick a prompt case and
// write a draft.
type DraftContext struct {
	Prospect        Prospect       `json:"prospect"`
	PastInteraction string         `json:"past_interaction"`
	CurrentMail     string         `json:"current_mail"`
	AvailableSlots  []string       `json:"available_slots"` // readable ranges, at most 3 shown
	ExistingSlot    string         `json:"existing_slot"`   // readable start of an already-booked meeting, "" if none
	Company         CompanyProfile `json:"company"`
}

// DraftContent is the generator output contract. Every field is always set:
// malformed model output falls back to precomputed defaults.
type DraftContent struct {
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	ConfirmedSlot  string   `json:"confirmed_slot"`
	SuggestedSlots []string `json:"suggested_slots"`
	SlotAction     string   `json:"slot_action"` // existing | none | suggested | confirmed
}
