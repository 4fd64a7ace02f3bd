package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "outreach-api/core/errors"
	"outreach-api/modules/outreach/dto"

	"github.com/labstack/echo/v4"
)

type stubService struct {
	updateCalls  int
	approveCalls int
}

func (s *stubService) GenerateDraft(context.Context, *dto.GenerateDraftRequest) (*dto.DraftResponse, error) {
	return &dto.DraftResponse{}, nil
}

func (s *stubService) UpdateDraft(context.Context, string) (*dto.DraftResponse, error) {
	s.updateCalls++
	return &dto.DraftResponse{}, nil
}

func (s *stubService) ApproveDraft(context.Context) (*dto.ApproveResponse, error) {
	s.approveCalls++
	return &dto.ApproveResponse{Status: "sent"}, nil
}

func (s *stubService) GetDraft(context.Context) (*dto.DraftResponse, error) {
	return nil, apperrors.NewAppError(apperrors.ErrNotFound, "no active draft", nil)
}

func (s *stubService) GetHistory(context.Context) ([]dto.HistoryRecordResponse, error) {
	return nil, nil
}

func doAct(t *testing.T, svc *stubService, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outreach/act", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	return rec, NewOutreachController(svc).Act(ctx)
}

func TestAct_Decisions(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantUpdate  int
		wantApprove int
		wantErr     bool
	}{
		{"update", `{"decision":"U","feedback":"shorter"}`, 1, 0, false},
		{"approve", `{"decision":"A"}`, 0, 1, false},
		{"unknown decision", `{"decision":"X"}`, 0, 0, true},
		{"missing decision", `{}`, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			_, err := doAct(t, svc, tt.body)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Act() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusBadRequest {
					t.Errorf("Act() error = %v, want 400", err)
				}
			}
			if svc.updateCalls != tt.wantUpdate || svc.approveCalls != tt.wantApprove {
				t.Errorf("calls = update %d approve %d, want %d/%d",
					svc.updateCalls, svc.approveCalls, tt.wantUpdate, tt.wantApprove)
			}
		})
	}
}

func TestGetDraft_NotFoundStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/outreach/draft", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	if err := NewOutreachController(&stubService{}).GetDraft(ctx); err != nil {
		t.Fatalf("GetDraft() error = %v, want handled response", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
