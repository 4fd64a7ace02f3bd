package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"outreach-api/core/config"
	"outreach-api/core/constants"
	apperrors "outreach-api/core/errors"
	"outreach-api/core/logger"
	availentity "outreach-api/modules/availability/entity"
	availservice "outreach-api/modules/availability/service"
	calservice "outreach-api/modules/calendar/service"
	composerdto "outreach-api/modules/composer/dto"
	composerservice "outreach-api/modules/composer/service"
	mailservice "outreach-api/modules/mail/service"
	"outreach-api/modules/outreach/dto"
	"outreach-api/modules/outreach/entity"
	"outreach-api/modules/outreach/repository"
)

// OutreachService orchestrates the draft lifecycle: generate, update with
// feedback, approve (book + send + archive), and read back state.
type OutreachService interface {
	GenerateDraft(ctx context.Context, req *dto.GenerateDraftRequest) (*dto.DraftResponse, error)
	UpdateDraft(ctx context.Context, feedback string) (*dto.DraftResponse, error)
	ApproveDraft(ctx context.Context) (*dto.ApproveResponse, error)
	GetDraft(ctx context.Context) (*dto.DraftResponse, error)
	GetHistory(ctx context.Context) ([]dto.HistoryRecordResponse, error)
}

type outreachService struct {
	// mu serializes every draft mutation, including the whole approve
	// sequence, so a regenerate can never interleave with a booking.
	mu sync.Mutex

	repo     repository.DraftRepository
	calendar calservice.CalendarService
	reader   mailservice.MailReader
	sender   mailservice.MailSender
	composer composerservice.ComposerService
	matcher  *availservice.EventMatcher
	slots    *availservice.SlotComputer

	calendarCfg config.CalendarConfig
	company     config.CompanyConfig

	now func() time.Time
}

func NewOutreachService(
	repo repository.DraftRepository,
	calendar calservice.CalendarService,
	reader mailservice.MailReader,
	sender mailservice.MailSender,
	composer composerservice.ComposerService,
	calendarCfg config.CalendarConfig,
	company config.CompanyConfig,
) OutreachService {
	return &outreachService{
		repo:        repo,
		calendar:    calendar,
		reader:      reader,
		sender:      sender,
		composer:    composer,
		matcher:     availservice.NewEventMatcher(),
		slots:       availservice.NewSlotComputer(calendarCfg),
		calendarCfg: calendarCfg,
		company:     company,
		now:         time.Now,
	}
}

// GenerateDraft assembles the full prospect context, asks the composer for
// an email, and stores the result as the active draft. An existing draft is
// replaced without warning. Mail and calendar lookups degrade to empty
// context on failure; only persistence errors abort the operation.
func (s *outreachService) GenerateDraft(ctx context.Context, req *dto.GenerateDraftRequest) (*dto.DraftResponse, error) {
	if req.Email == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "prospect email is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.calendarCfg.Location())

	currentMail := s.latestMail(ctx, req.Email, false)
	pastMail := s.latestMail(ctx, req.Email, true)

	existing := s.existingEvent(ctx, req.Email, now)

	offered := s.freeSlots(ctx, now)
	available := make([]string, 0, len(offered))
	for _, slot := range offered {
		available = append(available, slotPromptString(slot))
	}

	existingDisplay := ""
	if existing.Confirmed {
		existingDisplay = existing.Display
	}

	content := s.composer.GenerateDraft(ctx, &composerdto.DraftContext{
		Prospect: composerdto.Prospect{
			Email:    req.Email,
			Name:     req.Name,
			Role:     req.Role,
			Industry: req.Industry,
		},
		PastInteraction: pastMail,
		CurrentMail:     currentMail,
		AvailableSlots:  available,
		ExistingSlot:    existingDisplay,
		Company: composerdto.CompanyProfile{
			Name:      s.company.Name,
			Signature: s.company.Signature,
			CTA:       s.company.CTA,
			Services:  s.company.Services,
			USP:       s.company.USP,
		},
	})

	draft := s.buildDraft(req, content, offered, existing, now)
	draft.PastInteraction = pastMail
	draft.CurrentMail = currentMail

	if err := s.repo.PutActive(ctx, draft); err != nil {
		return nil, err
	}

	logger.Info("OutreachService:GenerateDraft:Stored",
		"prospect", req.Email,
		"slotStatus", draft.SlotStatus,
		"suggested", len(draft.SuggestedSlots),
	)
	return dto.ToDraftResponse(draft), nil
}

// UpdateDraft refines subject and body per the feedback. Slot decisions are
// never touched by an update; regenerate for that.
func (s *outreachService) UpdateDraft(ctx context.Context, feedback string) (*dto.DraftResponse, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "feedback is required for an update", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "no active draft to update", nil)
	}

	draft.Subject, draft.Body = s.composer.RefineDraft(ctx, draft.Subject, draft.Body, feedback)

	if err := s.repo.PutActive(ctx, draft); err != nil {
		return nil, err
	}

	logger.Info("OutreachService:UpdateDraft:Stored", "prospect", draft.ProspectEmail)
	return dto.ToDraftResponse(draft), nil
}

func (s *outreachService) GetDraft(ctx context.Context) (*dto.DraftResponse, error) {
	draft, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "no active draft", nil)
	}
	return dto.ToDraftResponse(draft), nil
}

func (s *outreachService) GetHistory(ctx context.Context) ([]dto.HistoryRecordResponse, error) {
	records, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToHistoryResponse(records), nil
}

// latestMail fetches the newest message exchanged with the prospect,
// degrading to empty context when the mailbox is unreachable.
func (s *outreachService) latestMail(ctx context.Context, address string, sent bool) string {
	var (
		text string
		err  error
	)
	if sent {
		text, err = s.reader.FetchLatestSentTo(ctx, address)
	} else {
		text, err = s.reader.FetchLatestFromSender(ctx, address)
	}
	if err != nil {
		logger.Warn("OutreachService:LatestMail:Degraded", "address", address, "sent", sent, "error", err)
		return ""
	}
	return text
}

// existingEvent finds the prospect's next booked meeting, if any.
func (s *outreachService) existingEvent(ctx context.Context, address string, now time.Time) availentity.UpcomingEvent {
	events, err := s.calendar.ListEvents(ctx, now)
	if err != nil {
		logger.Warn("OutreachService:ExistingEvent:Degraded", "address", address, "error", err)
		return availentity.NoUpcomingEvent()
	}
	for _, match := range s.matcher.MatchProspectEvents(address, events) {
		if match.Confirmed {
			return match
		}
	}
	return availentity.NoUpcomingEvent()
}

// freeSlots computes the bookable slots for the offer window, starting the
// day after now. The reference instant is midnight of the offset day, so a
// draft generated in the afternoon still offers the whole next morning. A
// calendar failure yields no slots rather than risking an offer over
// unknown busy time.
func (s *outreachService) freeSlots(ctx context.Context, now time.Time) []availentity.FreeSlot {
	windowStart := now.AddDate(0, 0, constants.DefaultOffsetDays)
	midnight := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, windowStart.Location())
	windowEnd := midnight.AddDate(0, 0, constants.DefaultLookaheadDays)

	busy, err := s.calendar.FreeBusy(ctx, midnight, windowEnd)
	if err != nil {
		logger.Warn("OutreachService:FreeSlots:Degraded", "error", err)
		return nil
	}

	free := s.slots.ComputeFreeSlots(busy, constants.DefaultLookaheadDays, midnight)
	if len(free) > constants.DefaultTopSlots {
		free = free[:constants.DefaultTopSlots]
	}
	return free
}

// buildDraft resolves the composer's slot strings back to the structured
// slots that were actually offered. A confirmed slot that cannot be
// resolved is downgraded to suggestions instead of booking blind.
func (s *outreachService) buildDraft(
	req *dto.GenerateDraftRequest,
	content *composerdto.DraftContent,
	offered []availentity.FreeSlot,
	existing availentity.UpcomingEvent,
	now time.Time,
) *entity.Draft {
	draft := &entity.Draft{
		ProspectEmail: req.Email,
		ProspectName:  req.Name,
		Subject:       content.Subject,
		Body:          content.Body,
		SlotStatus:    content.SlotAction,
		GeneratedAt:   now,
	}

	switch content.SlotAction {
	case entity.SlotStatusExisting:
		if existing.Confirmed {
			draft.FinalSlot = &entity.SlotRef{
				Start:   existing.Start,
				End:     existing.End,
				Display: existing.Display,
			}
		}

	case entity.SlotStatusConfirmed:
		if ref := resolveSlot(content.ConfirmedSlot, offered); ref != nil {
			draft.FinalSlot = ref
			break
		}
		logger.Warn("OutreachService:BuildDraft:UnresolvedConfirmedSlot",
			"prospect", req.Email, "slot", content.ConfirmedSlot)
		draft.SlotStatus = entity.SlotStatusSuggested
		draft.SuggestedSlots = resolveSlots(content.SuggestedSlots, offered)

	case entity.SlotStatusSuggested:
		draft.SuggestedSlots = resolveSlots(content.SuggestedSlots, offered)
	}

	if draft.SlotStatus == entity.SlotStatusSuggested && len(draft.SuggestedSlots) == 0 {
		for i, slot := range offered {
			if i == constants.MaxSuggestedSlots {
				break
			}
			draft.SuggestedSlots = append(draft.SuggestedSlots, toSlotRef(slot))
		}
	}
	return draft
}

func slotPromptString(s availentity.FreeSlot) string {
	return s.Display + " - " + s.EndDisplay
}

func toSlotRef(s availentity.FreeSlot) entity.SlotRef {
	return entity.SlotRef{Start: s.Start, End: s.End, Display: s.Display}
}

// resolveSlot maps a slot string from the composer back to one of the
// offered slots by its display rendering.
func resolveSlot(text string, offered []availentity.FreeSlot) *entity.SlotRef {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, slot := range offered {
		if strings.Contains(text, slot.Display) {
			ref := toSlotRef(slot)
			return &ref
		}
	}
	return nil
}

func resolveSlots(texts []string, offered []availentity.FreeSlot) []entity.SlotRef {
	var refs []entity.SlotRef
	for _, text := range texts {
		if len(refs) == constants.MaxSuggestedSlots {
			break
		}
		if ref := resolveSlot(text, offered); ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}
