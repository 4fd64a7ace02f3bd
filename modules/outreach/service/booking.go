package service

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "outreach-api/core/errors"
	"outreach-api/core/logger"
	caldto "outreach-api/modules/calendar/dto"
	"outreach-api/modules/outreach/dto"
	"outreach-api/modules/outreach/entity"
)

// ApproveDraft finalizes the active draft. For a confirmed slot the
// sequence is: re-check the slot is still free, create the calendar event,
// append the meeting link to the body, send the email, archive, clear. Any
// failure before the email goes out leaves the draft intact so approval can
// be retried. A failure after the event exists but before the email is sent
// is logged for manual reconciliation.
func (s *outreachService) ApproveDraft(ctx context.Context) (*dto.ApproveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "no active draft to approve", nil)
	}

	resp := &dto.ApproveResponse{Status: "sent"}
	body := draft.Body

	if draft.Bookable() {
		if err := s.verifySlotFree(ctx, draft.FinalSlot); err != nil {
			return nil, err
		}

		event, err := s.calendar.CreateEvent(ctx, &caldto.CreateEventRequest{
			Summary:         fmt.Sprintf("Meeting with %s", draft.ProspectName),
			Description:     fmt.Sprintf("Email: %s\n\n%s", draft.ProspectEmail, body),
			Start:           draft.FinalSlot.Start,
			End:             draft.FinalSlot.End,
			Attendees:       []string{draft.ProspectEmail},
			WithConference:  true,
			InviteAttendees: true,
		})
		if err != nil {
			logger.Error("OutreachService:ApproveDraft:CreateEventFailed",
				"prospect", draft.ProspectEmail, "error", err)
			return nil, err
		}

		resp.Status = "booked"
		resp.EventID = event.EventID
		resp.EventLink = event.HTMLLink
		if event.HTMLLink != "" {
			body += fmt.Sprintf("\n\nMeeting details: %s", event.HTMLLink)
		}
	}

	if err := s.sender.SendEmail(ctx, draft.ProspectEmail, draft.Subject, body); err != nil {
		if resp.EventID != "" {
			logger.Error("OutreachService:ApproveDraft:ReconciliationRequired",
				"reason", "event created but email not sent",
				"prospect", draft.ProspectEmail,
				"eventID", resp.EventID,
				"error", err,
			)
		} else {
			logger.Error("OutreachService:ApproveDraft:SendFailed",
				"prospect", draft.ProspectEmail, "error", err)
		}
		return nil, err
	}

	sent := *draft
	sent.Body = body
	record := &entity.HistoryRecord{
		Draft:     sent,
		SentAt:    s.now(),
		EventID:   resp.EventID,
		EventLink: resp.EventLink,
	}

	// The email is out; archival failures cannot be rolled back. Retry the
	// append once, and on a second failure dump the full record into the
	// reconciliation marker so the snapshot survives in the log.
	if err := s.repo.AppendHistory(ctx, record); err != nil {
		if err = s.repo.AppendHistory(ctx, record); err != nil {
			payload, _ := json.Marshal(record)
			logger.Error("OutreachService:ApproveDraft:ReconciliationRequired",
				"reason", "email sent but history not recorded",
				"prospect", draft.ProspectEmail,
				"eventID", resp.EventID,
				"record", string(payload),
				"error", err,
			)
		}
	}
	if err := s.repo.ClearActive(ctx); err != nil {
		logger.Error("OutreachService:ApproveDraft:ReconciliationRequired",
			"reason", "email sent but draft not cleared",
			"prospect", draft.ProspectEmail,
			"error", err,
		)
	}

	logger.Info("OutreachService:ApproveDraft:Done",
		"prospect", draft.ProspectEmail,
		"status", resp.Status,
		"eventID", resp.EventID,
	)
	return resp, nil
}

// verifySlotFree re-checks the provider immediately before booking. The
// cached events list is never consulted here.
func (s *outreachService) verifySlotFree(ctx context.Context, slot *entity.SlotRef) error {
	busy, err := s.calendar.FreeBusy(ctx, slot.Start, slot.End)
	if err != nil {
		return err
	}
	for _, b := range busy {
		if b.Overlaps(slot.Start, slot.End) {
			return apperrors.NewAppError(apperrors.ErrConflict,
				fmt.Sprintf("slot %s is no longer available", slot.Display), nil)
		}
	}
	return nil
}
