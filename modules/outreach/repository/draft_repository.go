package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"outreach-api/core/database"
	apperrors "outreach-api/core/errors"
	"outreach-api/modules/outreach/entity"

	"github.com/google/uuid"
)

// DraftRepository persists the single active draft and the append-only
// history of sent drafts.
type DraftRepository interface {
	PutActive(ctx context.Context, draft *entity.Draft) error
	// GetActive returns (nil, nil) when no draft exists.
	GetActive(ctx context.Context) (*entity.Draft, error)
	ClearActive(ctx context.Context) error
	AppendHistory(ctx context.Context, record *entity.HistoryRecord) error
	ListHistory(ctx context.Context) ([]entity.HistoryRecord, error)
}

type draftRepository struct {
	db database.IDatabase
}

func NewDraftRepository(db database.IDatabase) DraftRepository {
	return &draftRepository{db: db}
}

// jsonbPayload round-trips arbitrary JSON through a JSONB column.
type jsonbPayload json.RawMessage

func (j jsonbPayload) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j *jsonbPayload) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = jsonbPayload(v)
		return nil
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
}

func (r *draftRepository) PutActive(ctx context.Context, draft *entity.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "failed to encode draft", err)
	}

	query := `
		INSERT INTO active_draft (id, payload, updated_at)
		VALUES (1, :payload, :updated_at)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	_, err = r.db.NamedExecContext(ctx, query, map[string]any{
		"payload":    jsonbPayload(payload),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "failed to store draft", err)
	}
	return nil
}

func (r *draftRepository) GetActive(ctx context.Context) (*entity.Draft, error) {
	var payload jsonbPayload
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM active_draft WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "failed to load draft", err)
	}

	var draft entity.Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "failed to decode draft", err)
	}
	return &draft, nil
}

func (r *draftRepository) ClearActive(ctx context.Context) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM active_draft WHERE id = 1`); err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "failed to clear draft", err)
	}
	return nil
}

func (r *draftRepository) AppendHistory(ctx context.Context, record *entity.HistoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "failed to encode history record", err)
	}

	query := `INSERT INTO draft_history (id, payload, sent_at) VALUES (:id, :payload, :sent_at)`
	_, err = r.db.NamedExecContext(ctx, query, map[string]any{
		"id":      record.ID,
		"payload": jsonbPayload(payload),
		"sent_at": record.SentAt.UTC(),
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternalServer, "failed to append history record", err)
	}
	return nil
}

func (r *draftRepository) ListHistory(ctx context.Context) ([]entity.HistoryRecord, error) {
	var payloads []jsonbPayload
	err := r.db.SelectContext(ctx, &payloads, `SELECT payload FROM draft_history ORDER BY sent_at ASC`)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "failed to list history", err)
	}

	records := make([]entity.HistoryRecord, 0, len(payloads))
	for _, payload := range payloads {
		var record entity.HistoryRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrInternalServer, "failed to decode history record", err)
		}
		records = append(records, record)
	}
	return records, nil
}
