package aiquota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_quota persistence.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseTurn atomically checks the monthly quota and deducts one turn.
// It resets the counter to DefaultTurns when last_reset_month is behind the
// current month. Returns ErrQuotaExhausted when 0 rows are updated (quota
// exhausted or guest absent).
func (s *Store) UseTurn(ctx context.Context, guestID string) error {
	now := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE ai_quota SET
			turns_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE turns_remaining - 1 END,
			last_reset_month = $1
		WHERE guest_id = $3 AND (last_reset_month < $1 OR turns_remaining > 0)
	`, now, DefaultTurns, guestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// EnsureGuest inserts a new ai_quota row for the guest with the default
// allowance. If the row already exists the insert is silently skipped.
func (s *Store) EnsureGuest(ctx context.Context, guestID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_quota (guest_id, turns_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (guest_id) DO NOTHING
	`, guestID, DefaultTurns, time.Now().Format("2006-01"))
	return err
}
