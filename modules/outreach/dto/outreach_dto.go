package dto

import (
	"time"

	"outreach-api/modules/outreach/entity"
)

// Act decisions accepted on a pending draft.
const (
	DecisionUpdate  = "U"
	DecisionApprove = "A"
)

type GenerateDraftRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Industry string `json:"industry"`
}

type ActRequest struct {
	Decision string `json:"decision" validate:"required"`
	Feedback string `json:"feedback"`
}

type SlotResponse struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Display string    `json:"display"`
}

type DraftResponse struct {
	ProspectEmail  string         `json:"prospect_email"`
	ProspectName   string         `json:"prospect_name"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	SlotStatus     string         `json:"slot_status"`
	SuggestedSlots []SlotResponse `json:"suggested_slots,omitempty"`
	FinalSlot      *SlotResponse  `json:"final_slot,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

type ApproveResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id,omitempty"`
	EventLink string `json:"event_link,omitempty"`
}

type HistoryRecordResponse struct {
	ID        string        `json:"id"`
	Draft     DraftResponse `json:"draft"`
	SentAt    time.Time     `json:"sent_at"`
	EventID   string        `json:"event_id,omitempty"`
	EventLink string        `json:"event_link,omitempty"`
}

func slotResponse(s entity.SlotRef) SlotResponse {
	return SlotResponse{Start: s.Start, End: s.End, Display: s.Display}
}

func ToDraftResponse(d *entity.Draft) *DraftResponse {
	resp := &DraftResponse{
		ProspectEmail: d.ProspectEmail,
		ProspectName:  d.ProspectName,
		Subject:       d.Subject,
		Body:          d.Body,
		SlotStatus:    d.SlotStatus,
		GeneratedAt:   d.GeneratedAt,
	}
	for _, s := range d.SuggestedSlots {
		resp.SuggestedSlots = append(resp.SuggestedSlots, slotResponse(s))
	}
	if d.FinalSlot != nil {
		final := slotResponse(*d.FinalSlot)
		resp.FinalSlot = &final
	}
	return resp
}

func ToHistoryResponse(records []entity.HistoryRecord) []HistoryRecordResponse {
	out := make([]HistoryRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, HistoryRecordResponse{
			ID:        rec.ID,
			Draft:     *ToDraftResponse(&rec.Draft),
			SentAt:    rec.SentAt,
			EventID:   rec.EventID,
			EventLink: rec.EventLink,
		})
	}
	return out
}
