// README: Guest store backed by PostgreSQL.
package guest

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"concierge/internal/types"
)

var (
	ErrNotFound = errors.New("guest not found")
	// ErrNoGuests means the guest table is empty; session creation cannot proceed.
	ErrNoGuests = errors.New("no guest data loaded")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p *Profile) error {
	companions, err := json.Marshal(p.Companions)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO guests (
			id, last_name, primary_age, primary_gender, room_number,
			duration_stay, group_type, companions, check_in, check_out
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			last_name = EXCLUDED.last_name,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out`,
		string(p.ID), p.LastName, p.Age, p.Gender, p.RoomNumber,
		p.DurationStay, p.GroupType, companions, p.CheckIn, p.CheckOut,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, last_name, primary_age, primary_gender, room_number,
		       duration_stay, group_type, companions, check_in, check_out
		FROM guests WHERE id = $1`, string(id)))
}

// Random picks an arbitrary guest for a demo session.
func (s *Store) Random(ctx context.Context) (*Profile, error) {
	p, err := s.scanOne(s.db.QueryRow(ctx, `
		SELECT id, last_name, primary_age, primary_gender, room_number,
		       duration_stay, group_type, companions, check_in, check_out
		FROM guests ORDER BY random() LIMIT 1`))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoGuests
	}
	return p, err
}

func (s *Store) scanOne(row pgx.Row) (*Profile, error) {
	var p Profile
	var companions []byte
	err := row.Scan(
		&p.ID, &p.LastName, &p.Age, &p.Gender, &p.RoomNumber,
		&p.DurationStay, &p.GroupType, &companions, &p.CheckIn, &p.CheckOut,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(companions, &p.Companions); err != nil {
		return nil, err
	}
	return &p, nil
}
