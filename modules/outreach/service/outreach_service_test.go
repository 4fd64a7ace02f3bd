package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"outreach-api/core/config"
	apperrors "outreach-api/core/errors"
	availentity "outreach-api/modules/availability/entity"
	caldto "outreach-api/modules/calendar/dto"
	composerdto "outreach-api/modules/composer/dto"
	"outreach-api/modules/outreach/dto"
	"outreach-api/modules/outreach/entity"
)

// fakeRepo is an in-memory DraftRepository with per-call error injection.
type fakeRepo struct {
	active  *entity.Draft
	history []entity.HistoryRecord

	putErr         error
	getErr         error
	clearErr       error
	appendErr      error
	appendFailures int
	clearCalls     int
}

func (r *fakeRepo) PutActive(_ context.Context, d *entity.Draft) error {
	if r.putErr != nil {
		return r.putErr
	}
	cp := *d
	r.active = &cp
	return nil
}

func (r *fakeRepo) GetActive(_ context.Context) (*entity.Draft, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.active == nil {
		return nil, nil
	}
	cp := *r.active
	return &cp, nil
}

func (r *fakeRepo) ClearActive(_ context.Context) error {
	r.clearCalls++
	if r.clearErr != nil {
		return r.clearErr
	}
	r.active = nil
	return nil
}

func (r *fakeRepo) AppendHistory(_ context.Context, rec *entity.HistoryRecord) error {
	if r.appendFailures > 0 {
		r.appendFailures--
		return r.appendErr
	}
	r.history = append(r.history, *rec)
	return nil
}

func (r *fakeRepo) ListHistory(_ context.Context) ([]entity.HistoryRecord, error) {
	return append([]entity.HistoryRecord(nil), r.history...), nil
}

type fakeCalendar struct {
	busy        []availentity.BusyInterval
	freeBusyErr error
	events      []caldto.CalendarEvent
	listErr     error

	createResp  *caldto.CreateEventResponse
	createErr   error
	createCalls []*caldto.CreateEventRequest

	freeBusyWindows [][2]time.Time
}

func (c *fakeCalendar) FreeBusy(_ context.Context, start, end time.Time) ([]availentity.BusyInterval, error) {
	c.freeBusyWindows = append(c.freeBusyWindows, [2]time.Time{start, end})
	if c.freeBusyErr != nil {
		return nil, c.freeBusyErr
	}
	return c.busy, nil
}

func (c *fakeCalendar) ListEvents(_ context.Context, _ time.Time) ([]caldto.CalendarEvent, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.events, nil
}

func (c *fakeCalendar) CreateEvent(_ context.Context, req *caldto.CreateEventRequest) (*caldto.CreateEventResponse, error) {
	c.createCalls = append(c.createCalls, req)
	if c.createErr != nil {
		return nil, c.createErr
	}
	if c.createResp != nil {
		return c.createResp, nil
	}
	return &caldto.CreateEventResponse{EventID: "evt-1", HTMLLink: "https://cal.test/evt-1"}, nil
}

type fakeReader struct {
	fromText string
	sentText string
	err      error
}

func (r *fakeReader) FetchLatestFromSender(_ context.Context, _ string) (string, error) {
	return r.fromText, r.err
}

func (r *fakeReader) FetchLatestSentTo(_ context.Context, _ string) (string, error) {
	return r.sentText, r.err
}

type fakeSender struct {
	err  error
	sent []struct{ to, subject, body string }
}

func (s *fakeSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, struct{ to, subject, body string }{to, subject, body})
	return nil
}

type fakeComposer struct {
	content  *composerdto.DraftContent
	lastCtx  *composerdto.DraftContext
	refined  [2]string
	refCalls int
}

func (c *fakeComposer) GenerateDraft(_ context.Context, req *composerdto.DraftContext) *composerdto.DraftContent {
	c.lastCtx = req
	if c.content != nil {
		return c.content
	}
	return &composerdto.DraftContent{Subject: "Hello", Body: "World", SlotAction: entity.SlotStatusNone}
}

func (c *fakeComposer) RefineDraft(_ context.Context, subject, body, _ string) (string, string) {
	c.refCalls++
	if c.refined[0] != "" {
		return c.refined[0], c.refined[1]
	}
	return subject, body
}

type fixture struct {
	repo     *fakeRepo
	calendar *fakeCalendar
	reader   *fakeReader
	sender   *fakeSender
	composer *fakeComposer
	svc      *outreachService
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &fakeRepo{},
		calendar: &fakeCalendar{},
		reader:   &fakeReader{},
		sender:   &fakeSender{},
		composer: &fakeComposer{},
		// Monday morning.
		now: time.Date(2026, time.September, 7, 8, 0, 0, 0, time.UTC),
	}
	cfg := config.CalendarConfig{
		ID:                  "primary",
		Timezone:            "UTC",
		WorkingDays:         []int{1, 2, 3, 4, 5},
		WorkingHours:        config.WorkingHoursRange{Start: "09:00", End: "17:00"},
		SlotDurationMinutes: 30,
	}
	company := config.CompanyConfig{Name: "Corp", Signature: "Sales Team"}

	svc := NewOutreachService(f.repo, f.calendar, f.reader, f.sender, f.composer, cfg, company)
	f.svc = svc.(*outreachService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func confirmedDraft(slotStart time.Time) *entity.Draft {
	return &entity.Draft{
		ProspectEmail: "jane@acme.test",
		ProspectName:  "Jane",
		Subject:       "Quick intro",
		Body:          "Hi Jane, does this time work?",
		SlotStatus:    entity.SlotStatusConfirmed,
		FinalSlot: &entity.SlotRef{
			Start:   slotStart,
			End:     slotStart.Add(30 * time.Minute),
			Display: slotStart.Format("Mon, Jan 02 2006 | 03:04 PM"),
		},
		GeneratedAt: slotStart.Add(-24 * time.Hour),
	}
}

func TestGenerateDraft_StoresAndOverwrites(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if first.Subject != "Hello" {
		t.Errorf("Subject = %q, want composer output", first.Subject)
	}

	f.composer.content = &composerdto.DraftContent{Subject: "Second", Body: "Body", SlotAction: entity.SlotStatusNone}
	second, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "bob@corp.test", Name: "Bob"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if second.Subject != "Second" || f.repo.active.ProspectEmail != "bob@corp.test" {
		t.Errorf("second generate did not replace the active draft: %+v", f.repo.active)
	}
}

func TestGenerateDraft_RequiresEmailOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Name: "Jane"})
	if !apperrors.IsCode(err, apperrors.ErrInvalidInput) {
		t.Errorf("GenerateDraft() error = %v, want invalid input", err)
	}

	// Name, role and industry are optional: an address alone is enough for
	// cold outreach.
	got, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v, want success with only an email", err)
	}
	if got.ProspectEmail != "jane@acme.test" {
		t.Errorf("ProspectEmail = %q", got.ProspectEmail)
	}
}

func TestGenerateDraft_ResolvesConfirmedSlot(t *testing.T) {
	f := newFixture(t)

	// The first offered slot is Tuesday 09:00 (window starts the day after
	// Monday now).
	tue9 := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	display := tue9.Format("Mon, Jan 02 2006 | 03:04 PM")
	f.composer.content = &composerdto.DraftContent{
		Subject:       "Re: intro",
		Body:          "See you then",
		ConfirmedSlot: display + " - 09:30 AM",
		SlotAction:    entity.SlotStatusConfirmed,
	}

	got, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if got.FinalSlot == nil {
		t.Fatal("FinalSlot = nil, want resolved slot")
	}
	if !got.FinalSlot.Start.Equal(tue9) {
		t.Errorf("FinalSlot.Start = %v, want %v", got.FinalSlot.Start, tue9)
	}
}

func TestGenerateDraft_UnresolvedConfirmedSlotDowngraded(t *testing.T) {
	f := newFixture(t)
	f.composer.content = &composerdto.DraftContent{
		Subject:       "Re: intro",
		Body:          "See you then",
		ConfirmedSlot: "some time that was never offered",
		SlotAction:    entity.SlotStatusConfirmed,
	}

	got, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if got.FinalSlot != nil {
		t.Errorf("FinalSlot = %+v, want nil after downgrade", got.FinalSlot)
	}
	if got.SlotStatus != entity.SlotStatusSuggested {
		t.Errorf("SlotStatus = %q, want %q", got.SlotStatus, entity.SlotStatusSuggested)
	}
	if len(got.SuggestedSlots) == 0 {
		t.Error("expected fallback suggestions from the offered slots")
	}
}

func TestGenerateDraft_AfternoonStillOffersNextMorning(t *testing.T) {
	f := newFixture(t)
	// Monday 14:00: the offer window covers all of Tuesday, not just the
	// part of Tuesday after 14:00.
	f.now = time.Date(2026, time.September, 7, 14, 0, 0, 0, time.UTC)

	_, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}

	offered := f.composer.lastCtx.AvailableSlots
	if len(offered) == 0 {
		t.Fatal("no slots offered")
	}
	if !strings.Contains(offered[0], "Tue, Sep 08 2026 | 09:00 AM") {
		t.Errorf("first offered slot = %q, want Tuesday 09:00 AM", offered[0])
	}
}

func TestGenerateDraft_CalendarFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.calendar.freeBusyErr = errors.New("provider down")
	f.calendar.listErr = errors.New("provider down")
	f.reader.err = errors.New("mailbox down")

	got, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v, want degraded success", err)
	}
	if got == nil || f.repo.active == nil {
		t.Fatal("draft not stored despite degraded collaborators")
	}
	if len(f.composer.lastCtx.AvailableSlots) != 0 {
		t.Errorf("AvailableSlots = %v, want none when availability is unknown", f.composer.lastCtx.AvailableSlots)
	}
}

func TestGenerateDraft_ExistingEventPassedToComposer(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, time.September, 9, 14, 0, 0, 0, time.UTC)
	f.calendar.events = []caldto.CalendarEvent{{
		Summary:   "Meeting with Jane",
		Attendees: []string{"jane@acme.test"},
		Start:     start,
		End:       start.Add(30 * time.Minute),
	}}
	f.composer.content = &composerdto.DraftContent{
		Subject:    "Already booked",
		Body:       "We meet Wednesday",
		SlotAction: entity.SlotStatusExisting,
	}

	got, err := f.svc.GenerateDraft(context.Background(), &dto.GenerateDraftRequest{Email: "jane@acme.test", Name: "Jane"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if f.composer.lastCtx.ExistingSlot == "" {
		t.Error("composer context missing the existing slot display")
	}
	if got.FinalSlot == nil || !got.FinalSlot.Start.Equal(start) {
		t.Errorf("FinalSlot = %+v, want the booked event time", got.FinalSlot)
	}
}

func TestUpdateDraft_RequiresFeedback(t *testing.T) {
	f := newFixture(t)
	f.repo.active = confirmedDraft(time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.UpdateDraft(context.Background(), "   ")
	if !apperrors.IsCode(err, apperrors.ErrInvalidInput) {
		t.Errorf("UpdateDraft() error = %v, want invalid input", err)
	}
	if f.composer.refCalls != 0 {
		t.Error("composer called despite missing feedback")
	}
}

func TestUpdateDraft_NoActiveDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateDraft(context.Background(), "shorter please")
	if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		t.Errorf("UpdateDraft() error = %v, want not found", err)
	}
}

func TestUpdateDraft_PreservesSlotDecision(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.composer.refined = [2]string{"New subject", "New body"}

	got, err := f.svc.UpdateDraft(context.Background(), "shorter please")
	if err != nil {
		t.Fatalf("UpdateDraft() error = %v", err)
	}
	if got.Subject != "New subject" || got.Body != "New body" {
		t.Errorf("UpdateDraft() = %q/%q, want refined content", got.Subject, got.Body)
	}
	if got.FinalSlot == nil || !got.FinalSlot.Start.Equal(slotStart) {
		t.Errorf("FinalSlot = %+v, want untouched slot decision", got.FinalSlot)
	}
	if got.SlotStatus != entity.SlotStatusConfirmed {
		t.Errorf("SlotStatus = %q, want untouched", got.SlotStatus)
	}
}

func TestApproveDraft_NoActiveDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApproveDraft(context.Background())
	if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		t.Errorf("ApproveDraft() error = %v, want not found", err)
	}
}

func TestApproveDraft_BooksSendsArchivesClears(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)

	got, err := f.svc.ApproveDraft(context.Background())
	if err != nil {
		t.Fatalf("ApproveDraft() error = %v", err)
	}
	if got.Status != "booked" || got.EventID != "evt-1" {
		t.Errorf("ApproveDraft() = %+v, want booked with event id", got)
	}

	if len(f.calendar.createCalls) != 1 {
		t.Fatalf("CreateEvent calls = %d, want 1", len(f.calendar.createCalls))
	}
	create := f.calendar.createCalls[0]
	if create.Summary != "Meeting with Jane" {
		t.Errorf("event summary = %q", create.Summary)
	}
	if !strings.HasPrefix(create.Description, "Email: jane@acme.test\n\n") {
		t.Errorf("event description = %q, want email header prefix", create.Description)
	}
	if !create.Start.Equal(slotStart) {
		t.Errorf("event start = %v, want %v", create.Start, slotStart)
	}

	if len(f.sender.sent) != 1 {
		t.Fatalf("sent emails = %d, want 1", len(f.sender.sent))
	}
	if !strings.Contains(f.sender.sent[0].body, "Meeting details: https://cal.test/evt-1") {
		t.Errorf("email body missing meeting link: %q", f.sender.sent[0].body)
	}

	if len(f.repo.history) != 1 {
		t.Fatalf("history records = %d, want 1", len(f.repo.history))
	}
	rec := f.repo.history[0]
	if rec.EventID != "evt-1" || !rec.SentAt.Equal(f.now) {
		t.Errorf("history record = %+v", rec)
	}
	if !strings.Contains(rec.Draft.Body, "Meeting details:") {
		t.Errorf("archived body missing meeting link: %q", rec.Draft.Body)
	}
	if f.repo.active != nil {
		t.Error("active draft not cleared after approval")
	}
}

func TestApproveDraft_FreshnessConflictPreservesDraft(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.calendar.busy = []availentity.BusyInterval{{Start: slotStart, End: slotStart.Add(30 * time.Minute)}}

	_, err := f.svc.ApproveDraft(context.Background())
	if !apperrors.IsCode(err, apperrors.ErrConflict) {
		t.Fatalf("ApproveDraft() error = %v, want conflict", err)
	}
	if len(f.calendar.createCalls) != 0 {
		t.Error("event created despite stale slot")
	}
	if len(f.sender.sent) != 0 {
		t.Error("email sent despite stale slot")
	}
	if f.repo.active == nil {
		t.Error("draft cleared on conflict, want preserved for retry")
	}

	// The freshness probe covers exactly the final slot window.
	if len(f.calendar.freeBusyWindows) != 1 {
		t.Fatalf("FreeBusy calls = %d, want 1", len(f.calendar.freeBusyWindows))
	}
	w := f.calendar.freeBusyWindows[0]
	if !w[0].Equal(slotStart) || !w[1].Equal(slotStart.Add(30*time.Minute)) {
		t.Errorf("FreeBusy window = %v-%v, want the slot bounds", w[0], w[1])
	}
}

func TestApproveDraft_CreateEventFailurePreservesDraft(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.calendar.createErr = apperrors.NewAppError(apperrors.ErrExternalService, "calendar write failed", nil)

	_, err := f.svc.ApproveDraft(context.Background())
	if !apperrors.IsCode(err, apperrors.ErrExternalService) {
		t.Fatalf("ApproveDraft() error = %v, want external service", err)
	}
	if len(f.sender.sent) != 0 {
		t.Error("email sent despite booking failure")
	}
	if f.repo.active == nil || len(f.repo.history) != 0 {
		t.Error("draft state mutated on booking failure")
	}
}

func TestApproveDraft_SendFailureAfterBookingPreservesDraft(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.sender.err = apperrors.NewAppError(apperrors.ErrExternalService, "smtp down", nil)

	_, err := f.svc.ApproveDraft(context.Background())
	if err == nil {
		t.Fatal("ApproveDraft() error = nil, want send failure")
	}
	// The event exists at the provider; the draft stays for manual
	// reconciliation rather than being silently dropped.
	if len(f.calendar.createCalls) != 1 {
		t.Errorf("CreateEvent calls = %d, want 1", len(f.calendar.createCalls))
	}
	if f.repo.active == nil {
		t.Error("draft cleared despite unsent email")
	}
	if len(f.repo.history) != 0 {
		t.Error("history written despite unsent email")
	}
}

func TestApproveDraft_ConcurrentApprovalsBookOnce(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)

	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.ApproveDraft(context.Background())
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var succeeded, notFound int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsCode(err, apperrors.ErrNotFound):
			notFound++
		default:
			t.Errorf("unexpected approve error: %v", err)
		}
	}
	if succeeded != 1 || notFound != 1 {
		t.Errorf("outcomes = %d success / %d not-found, want exactly one of each", succeeded, notFound)
	}
	if len(f.calendar.createCalls) != 1 {
		t.Errorf("CreateEvent calls = %d, want exactly 1", len(f.calendar.createCalls))
	}
	if len(f.sender.sent) != 1 {
		t.Errorf("sent emails = %d, want exactly 1", len(f.sender.sent))
	}
	if len(f.repo.history) != 1 || f.repo.active != nil {
		t.Errorf("history = %d active = %v, want single archived record and no draft", len(f.repo.history), f.repo.active)
	}
}

func TestApproveDraft_HistoryAppendRetriedOnce(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.repo.appendErr = errors.New("transient write failure")
	f.repo.appendFailures = 1

	got, err := f.svc.ApproveDraft(context.Background())
	if err != nil {
		t.Fatalf("ApproveDraft() error = %v, want retried append to succeed", err)
	}
	if got.Status != "booked" {
		t.Errorf("Status = %q", got.Status)
	}
	if len(f.repo.history) != 1 {
		t.Errorf("history records = %d, want 1 from the retry", len(f.repo.history))
	}
	if f.repo.active != nil {
		t.Error("active draft not cleared")
	}
}

func TestApproveDraft_HistoryAppendExhaustedStillClears(t *testing.T) {
	f := newFixture(t)
	slotStart := time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)
	f.repo.active = confirmedDraft(slotStart)
	f.repo.appendErr = errors.New("persistent write failure")
	f.repo.appendFailures = 2

	// The email went out, so the call still reports the outward effects and
	// the draft is cleared; the lost snapshot lands in the log.
	got, err := f.svc.ApproveDraft(context.Background())
	if err != nil {
		t.Fatalf("ApproveDraft() error = %v, want success despite archive failure", err)
	}
	if got.Status != "booked" || len(f.sender.sent) != 1 {
		t.Errorf("outward effects incomplete: %+v, sent %d", got, len(f.sender.sent))
	}
	if len(f.repo.history) != 0 {
		t.Errorf("history records = %d, want 0", len(f.repo.history))
	}
	if f.repo.active != nil {
		t.Error("active draft not cleared")
	}
}

func TestApproveDraft_SuggestedDraftSendsWithoutBooking(t *testing.T) {
	f := newFixture(t)
	f.repo.active = &entity.Draft{
		ProspectEmail: "jane@acme.test",
		ProspectName:  "Jane",
		Subject:       "Following up",
		Body:          "A few times that could work",
		SlotStatus:    entity.SlotStatusSuggested,
	}

	got, err := f.svc.ApproveDraft(context.Background())
	if err != nil {
		t.Fatalf("ApproveDraft() error = %v", err)
	}
	if got.Status != "sent" || got.EventID != "" {
		t.Errorf("ApproveDraft() = %+v, want plain send", got)
	}
	if len(f.calendar.createCalls) != 0 || len(f.calendar.freeBusyWindows) != 0 {
		t.Error("calendar touched for a non-bookable draft")
	}
	if len(f.sender.sent) != 1 || f.repo.active != nil || len(f.repo.history) != 1 {
		t.Error("send/archive/clear sequence incomplete")
	}
}

func TestGetDraft(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.GetDraft(context.Background()); !apperrors.IsCode(err, apperrors.ErrNotFound) {
		t.Errorf("GetDraft() error = %v, want not found", err)
	}

	f.repo.active = confirmedDraft(time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC))
	got, err := f.svc.GetDraft(context.Background())
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if got.ProspectEmail != "jane@acme.test" {
		t.Errorf("GetDraft() = %+v", got)
	}
}

func TestGetHistory_Order(t *testing.T) {
	f := newFixture(t)
	f.repo.history = []entity.HistoryRecord{
		{ID: "a", SentAt: f.now.Add(-time.Hour)},
		{ID: "b", SentAt: f.now},
	}

	got, err := f.svc.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("GetHistory() = %+v, want oldest first", got)
	}
}
