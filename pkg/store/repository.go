// Package store persists recording rows in the local PostgreSQL cache,
// keyed by event ID.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgerrors "github.com/recallhq/recall-cli/pkg/errors"
	"github.com/recallhq/recall-cli/pkg/logging"
	"github.com/recallhq/recall-cli/pkg/recordings"
)

// schema is applied on startup; rows are replaced per event_id, never
// duplicated.
const schema = `
CREATE TABLE IF NOT EXISTS recordings (
	event_id           TEXT PRIMARY KEY,
	subject            TEXT NOT NULL DEFAULT '',
	meeting_date       TEXT NOT NULL DEFAULT '',
	meeting_start_time TEXT NOT NULL DEFAULT '',
	meeting_end_time   TEXT NOT NULL DEFAULT '',
	is_public          BOOLEAN NOT NULL DEFAULT FALSE,
	summary            TEXT NOT NULL DEFAULT '',
	error_message      TEXT NOT NULL DEFAULT '',
	action_points      JSONB,
	topics             JSONB,
	key_takeaways      JSONB,
	questions          JSONB,
	participants       JSONB,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Repository provides read and write access to the local recording cache.
type Repository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRepository creates a repository over the given connection pool.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Repository{
		pool:   pool,
		logger: logger.With(logging.F("component", "store")),
	}
}

// EnsureSchema creates the recordings table if it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensuring recordings schema: %w", err)
	}
	return nil
}

// Upsert inserts or replaces the row for the given event ID. The dynamic
// fields are stored exactly as delivered by the service; decoding happens at
// read time in the normalizer.
func (r *Repository) Upsert(ctx context.Context, row recordings.RawDetail) error {
	if row.EventID == "" {
		return fmt.Errorf("%w: event id is required", pkgerrors.ErrValidation)
	}

	query := `
		INSERT INTO recordings (
			event_id, subject, meeting_date, meeting_start_time,
			meeting_end_time, is_public, summary, error_message,
			action_points, topics, key_takeaways, questions, participants,
			updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			NOW()
		)
		ON CONFLICT (event_id) DO UPDATE SET
			subject            = EXCLUDED.subject,
			meeting_date       = EXCLUDED.meeting_date,
			meeting_start_time = EXCLUDED.meeting_start_time,
			meeting_end_time   = EXCLUDED.meeting_end_time,
			is_public          = EXCLUDED.is_public,
			summary            = EXCLUDED.summary,
			error_message      = EXCLUDED.error_message,
			action_points      = EXCLUDED.action_points,
			topics             = EXCLUDED.topics,
			key_takeaways      = EXCLUDED.key_takeaways,
			questions          = EXCLUDED.questions,
			participants       = EXCLUDED.participants,
			updated_at         = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		row.EventID,
		row.Subject,
		row.Date,
		row.StartTime,
		row.EndTime,
		row.IsPublic,
		row.Summary,
		row.ErrorMessage,
		jsonbParam(row.ActionPoints),
		jsonbParam(row.Topics),
		jsonbParam(row.KeyTakeaways),
		jsonbParam(row.Questions),
		jsonbParam(row.Participants),
	)
	if err != nil {
		writesTotal.WithLabelValues("error").Inc()
		r.logger.Error("upserting recording failed",
			logging.F("event_id", row.EventID),
			logging.Err(err))
		return fmt.Errorf("upserting recording %s: %w", row.EventID, err)
	}

	writesTotal.WithLabelValues("ok").Inc()
	r.logger.Debug("recording upserted", logging.F("event_id", row.EventID))
	return nil
}

// GetByEventID returns the cached row for the given event ID, or
// errors.ErrNotFound when no such row exists.
func (r *Repository) GetByEventID(ctx context.Context, eventID string) (recordings.RawDetail, error) {
	var row recordings.RawDetail

	query := `
		SELECT event_id, subject, meeting_date, meeting_start_time,
		       meeting_end_time, is_public, summary, error_message,
		       action_points, topics, key_takeaways, questions, participants
		FROM recordings
		WHERE event_id = $1
	`

	err := r.pool.QueryRow(ctx, query, eventID).Scan(
		&row.EventID,
		&row.Subject,
		&row.Date,
		&row.StartTime,
		&row.EndTime,
		&row.IsPublic,
		&row.Summary,
		&row.ErrorMessage,
		&row.ActionPoints,
		&row.Topics,
		&row.KeyTakeaways,
		&row.Questions,
		&row.Participants,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		readsTotal.WithLabelValues("miss").Inc()
		return recordings.RawDetail{}, fmt.Errorf("recording %s: %w", eventID, pkgerrors.ErrNotFound)
	}
	if err != nil {
		readsTotal.WithLabelValues("error").Inc()
		r.logger.Error("reading recording failed",
			logging.F("event_id", eventID),
			logging.Err(err))
		return recordings.RawDetail{}, fmt.Errorf("reading recording %s: %w", eventID, err)
	}

	readsTotal.WithLabelValues("hit").Inc()
	return row, nil
}

// jsonbParam maps an empty dynamic field to NULL so the JSONB column never
// receives invalid input.
func jsonbParam(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
