package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo is the Postgres translation state store. Every query resolves
// its handle through the transaction manager's ambient scope, so a call made
// under Transaction joins that transaction and one made under a bare
// RunScoped runs against the pool.
type ActivityRepo struct {
	tm repository.TransactionManager
}

func NewActivityRepo(tm repository.TransactionManager) *ActivityRepo {
	return &ActivityRepo{tm: tm}
}

const activityColumns = `id, source_id, kind, title, body, translation_status, status_detail,
       translation_requested_at, translation_started_at, translation_completed_at,
       translation_message_id, translated_body, created_at`

func scanActivity(row pgx.Row) (*model.Activity, error) {
	var a model.Activity
	var kind, status string
	err := row.Scan(
		&a.ID, &a.SourceID, &kind, &a.Title, &a.Body, &status, &a.StatusDetail,
		&a.TranslationRequestedAt, &a.TranslationStartedAt, &a.TranslationCompletedAt,
		&a.TranslationMessageID, &a.TranslatedBody, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	a.Kind = model.ActivityKind(kind)
	a.TranslationStatus = model.TranslationStatus(status)
	return &a, nil
}

func (r *ActivityRepo) Save(ctx context.Context, a *model.Activity) error {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO activities (id, source_id, kind, title, body, translation_status, status_detail,
  translation_requested_at, translation_started_at, translation_completed_at,
  translation_message_id, translated_body, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  translation_status = EXCLUDED.translation_status,
  status_detail = EXCLUDED.status_detail,
  translation_requested_at = EXCLUDED.translation_requested_at,
  translation_started_at = EXCLUDED.translation_started_at,
  translation_completed_at = EXCLUDED.translation_completed_at,
  translation_message_id = EXCLUDED.translation_message_id,
  translated_body = EXCLUDED.translated_body;`
	_, err = qx.Exec(ctx, q,
		a.ID, a.SourceID, string(a.Kind), a.Title, a.Body, string(a.TranslationStatus), a.StatusDetail,
		a.TranslationRequestedAt, a.TranslationStartedAt, a.TranslationCompletedAt,
		a.TranslationMessageID, a.TranslatedBody, a.CreatedAt)
	return err
}

func (r *ActivityRepo) FindByID(ctx context.Context, activityID string) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + activityColumns + ` FROM activities WHERE id=$1;`
	return scanActivity(qx.QueryRow(ctx, q, activityID))
}

// FindForUser joins through the watch relation: a user only sees activities
// of sources they watch, everything else reads as not found.
func (r *ActivityRepo) FindForUser(ctx context.Context, userID, activityID string) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	const q = `
SELECT a.id, a.source_id, a.kind, a.title, a.body, a.translation_status, a.status_detail,
       a.translation_requested_at, a.translation_started_at, a.translation_completed_at,
       a.translation_message_id, a.translated_body, a.created_at
  FROM activities a
  JOIN watches w ON w.source_id = a.source_id
 WHERE a.id = $1 AND w.user_id = $2;`
	return scanActivity(qx.QueryRow(ctx, q, activityID, userID))
}

func (r *ActivityRepo) MarkQueued(ctx context.Context, activityID string, requestedAt time.Time, messageID string) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE activities SET
  translation_status = 'queued',
  status_detail = '',
  translation_requested_at = $2,
  translation_started_at = NULL,
  translation_completed_at = NULL,
  translation_message_id = $3
 WHERE id = $1
RETURNING ` + activityColumns + `;`
	return scanActivity(qx.QueryRow(ctx, q, activityID, requestedAt, messageID))
}

func (r *ActivityRepo) MarkProcessing(ctx context.Context, activityID string, startedAt time.Time, messageID string) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE activities SET
  translation_status = 'processing',
  translation_started_at = $2,
  translation_message_id = $3
 WHERE id = $1
RETURNING ` + activityColumns + `;`
	return scanActivity(qx.QueryRow(ctx, q, activityID, startedAt, messageID))
}

func (r *ActivityRepo) MarkCompleted(ctx context.Context, activityID, translatedBody string, completedAt time.Time) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE activities SET
  translation_status = 'completed',
  status_detail = '',
  translated_body = $2,
  translation_completed_at = $3
 WHERE id = $1
RETURNING ` + activityColumns + `;`
	return scanActivity(qx.QueryRow(ctx, q, activityID, translatedBody, completedAt))
}

func (r *ActivityRepo) MarkFailed(ctx context.Context, activityID string, completedAt time.Time, statusDetail string) (*model.Activity, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	// translated_body is nulled so it never coexists with a failed status.
	q := `
UPDATE activities SET
  translation_status = 'failed',
  status_detail = $3,
  translated_body = NULL,
  translation_completed_at = $2
 WHERE id = $1
RETURNING ` + activityColumns + `;`
	return scanActivity(qx.QueryRow(ctx, q, activityID, completedAt, statusDetail))
}
