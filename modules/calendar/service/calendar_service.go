package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"outreach-api/core/cache"
	"outreach-api/core/config"
	"outreach-api/core/constants"
	"outreach-api/core/errors"
	"outreach-api/core/logger"
	"outreach-api/core/utils"
	"outreach-api/modules/availability/entity"
	"outreach-api/modules/calendar/dto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleFreeBusyAPI     = googleCalendarAPIBase + "/freeBusy"
	googleCalendarScope   = "https://www.googleapis.com/auth/calendar"
)

// CalendarService is the external calendar collaborator the engine consumes.
type CalendarService interface {
	// FreeBusy returns the busy intervals overlapping [start, end).
	// Never served from cache: the approval freshness re-check depends
	// on a live answer.
	FreeBusy(ctx context.Context, start, end time.Time) ([]entity.BusyInterval, error)
	// CreateEvent commits an event to the configured calendar.
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error)
	// ListEvents returns booked events starting at or after since, in
	// provider order. Results may be up to a minute stale.
	ListEvents(ctx context.Context, since time.Time) ([]dto.CalendarEvent, error)
}

type googleCalendarService struct {
	cfg    config.CalendarConfig
	tokens oauth2.TokenSource
	client *http.Client
	cache  cache.Cache
}

// NewGoogleCalendarService builds the Google-backed calendar collaborator
// from the service-account credentials in config.
func NewGoogleCalendarService(cfg config.CalendarConfig, c cache.Cache) (CalendarService, error) {
	if cfg.ID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidConfig, "calendar id is not configured", nil)
	}
	if cfg.ServiceAccount.ClientEmail == "" || cfg.ServiceAccount.PrivateKey == "" {
		return nil, errors.NewAppError(errors.ErrInvalidConfig, "calendar service account credentials are not configured", nil)
	}

	jwtCfg := &jwt.Config{
		Email: cfg.ServiceAccount.ClientEmail,
		// keys arrive through env with literal \n escapes
		PrivateKey: []byte(strings.ReplaceAll(cfg.ServiceAccount.PrivateKey, `\n`, "\n")),
		Scopes:     []string{googleCalendarScope},
		TokenURL:   cfg.ServiceAccount.TokenURI,
	}

	return &googleCalendarService{
		cfg:    cfg,
		tokens: jwtCfg.TokenSource(context.Background()),
		client: &http.Client{Timeout: constants.HTTPClientTimeout},
		cache:  c,
	}, nil
}

func (s *googleCalendarService) FreeBusy(ctx context.Context, start, end time.Time) ([]entity.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	payload := map[string]any{
		"timeMin": start.UTC().Format(time.RFC3339),
		"timeMax": end.UTC().Format(time.RFC3339),
		"items":   []map[string]string{{"id": s.cfg.ID}},
	}

	var result dto.GoogleFreeBusyResponse
	if err := s.doJSON(ctx, http.MethodPost, googleFreeBusyAPI, payload, &result); err != nil {
		return nil, err
	}

	loc := s.cfg.Location()
	var busy []entity.BusyInterval
	cal, ok := result.Calendars[s.cfg.ID]
	if !ok {
		return busy, nil
	}
	for _, b := range cal.Busy {
		bs, err1 := time.Parse(time.RFC3339, b.Start)
		be, err2 := time.Parse(time.RFC3339, b.End)
		if err1 != nil || err2 != nil {
			// malformed entries are dropped, not fatal
			logger.Warn("CalendarService:FreeBusy:MalformedInterval", "start", b.Start, "end", b.End)
			continue
		}
		interval := entity.BusyInterval{Start: bs.In(loc), End: be.In(loc)}
		if !interval.Valid() {
			logger.Warn("CalendarService:FreeBusy:InvalidInterval", "start", b.Start, "end", b.End)
			continue
		}
		busy = append(busy, interval)
	}
	return busy, nil
}

func (s *googleCalendarService) ListEvents(ctx context.Context, since time.Time) ([]dto.CalendarEvent, error) {
	cacheKey := fmt.Sprintf("calendar:events:%s:%s", s.cfg.ID, since.UTC().Format(time.RFC3339))
	if s.cache != nil {
		var cached []dto.CalendarEvent
		if s.cache.Get(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("timeMin", since.UTC().Format(time.RFC3339))
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")
	params.Add("maxResults", fmt.Sprintf("%d", constants.ListEventsMaxResults))

	apiURL := fmt.Sprintf("%s/calendars/%s/events?%s", googleCalendarAPIBase, url.PathEscape(s.cfg.ID), params.Encode())

	var result dto.GoogleEventsListResponse
	if err := s.doJSON(ctx, http.MethodGet, apiURL, nil, &result); err != nil {
		return nil, err
	}

	loc := s.cfg.Location()
	events := make([]dto.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, item.ToCalendarEvent(loc))
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, events, constants.ListEventsCacheTTL)
	}
	return events, nil
}

func (s *googleCalendarService) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*dto.CreateEventResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	body := map[string]any{
		"summary":     req.Summary,
		"description": req.Description,
		"start": map[string]string{
			"dateTime": req.Start.UTC().Format(time.RFC3339),
			"timeZone": s.cfg.Timezone,
		},
		"end": map[string]string{
			"dateTime": req.End.UTC().Format(time.RFC3339),
			"timeZone": s.cfg.Timezone,
		},
	}

	if req.InviteAttendees && len(req.Attendees) > 0 {
		attendees := make([]map[string]string, 0, len(req.Attendees))
		for _, email := range req.Attendees {
			attendees = append(attendees, map[string]string{"email": email})
		}
		body["attendees"] = attendees
	}

	conferenceVersion := 0
	if req.WithConference {
		conferenceVersion = 1
		body["conferenceData"] = map[string]any{
			"createRequest": map[string]string{"requestId": utils.GenerateRequestID("meet")},
		}
	}

	apiURL := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=%d",
		googleCalendarAPIBase, url.PathEscape(s.cfg.ID), conferenceVersion)

	var created dto.GoogleEvent
	if err := s.doJSON(ctx, http.MethodPost, apiURL, body, &created); err != nil {
		return nil, err
	}

	loc := s.cfg.Location()
	logger.Info("CalendarService:CreateEvent:Success", "event_id", created.ID, "link", created.HTMLLink)

	return &dto.CreateEventResponse{
		EventID:  created.ID,
		HTMLLink: created.HTMLLink,
		Start:    created.Start.Parse(loc),
		End:      created.End.Parse(loc),
	}, nil
}

// doJSON performs an authenticated request against the Google API and
// decodes the JSON response into out.
func (s *googleCalendarService) doJSON(ctx context.Context, method, apiURL string, payload any, out any) error {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to encode calendar request", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to create calendar request", err)
	}

	token, err := s.tokens.Token()
	if err != nil {
		logger.Error("CalendarService:doJSON:TokenError", "error", err)
		return errors.NewAppError(errors.ErrExternalService, "failed to obtain calendar access token", err)
	}
	token.SetAuthHeader(req)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("CalendarService:doJSON:RequestError", "url", apiURL, "error", err)
		return errors.NewAppError(errors.ErrExternalService, "calendar request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		logger.Error("CalendarService:doJSON:APIError", "url", apiURL, "status", resp.StatusCode, "body", string(raw))
		return errors.NewAppError(errors.ErrExternalService,
			fmt.Sprintf("Google Calendar API error: %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewAppError(errors.ErrExternalService, "failed to parse calendar response", err)
	}
	return nil
}
