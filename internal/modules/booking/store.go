// README: Booking store backed by PostgreSQL.
package booking

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, session_id, guest_id, activity_name, activity_day,
			activity_date, activity_time, price, reference, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, string(r.SessionID), string(r.GuestID), r.ActivityName, r.ActivityDay,
		r.ActivityDate, r.ActivityTime, r.Price, r.Reference, string(r.Status), r.CreatedAt,
	)
	return err
}

func (s *Store) MarkPaid(ctx context.Context, id, reference string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1, reference = $2
		WHERE id = $3 AND status = $4`,
		string(StatusPaid), reference, id, string(StatusPendingPayment),
	)
	return err
}
