// README: Activity catalog store backed by PostgreSQL.
package catalog

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

// ListAll returns the full catalog in chronological order.
func (s *Store) ListAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, day_name, activity_name, type, start_time,
		       tags, price, min_age, target_gender
		FROM activities
		ORDER BY date, start_time, activity_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.Date, &e.DayName, &e.Name, &e.Type, &e.StartTime,
			&e.Tags, &e.Price, &e.MinAge, &e.TargetGender,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Replace swaps the whole catalog in one transaction (used by the seeder).
func (s *Store) Replace(ctx context.Context, entries []Entry) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE activities`); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO activities (
				date, day_name, activity_name, type, start_time,
				tags, price, min_age, target_gender
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.Date, e.DayName, e.Name, e.Type, e.StartTime,
			e.Tags, e.Price, e.MinAge, e.TargetGender,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
