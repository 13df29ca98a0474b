// README: Guest service; read-only provider of guest profiles.
package guest

import (
	"context"

	"concierge/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

// Random binds an arbitrary guest to a new session. Returns ErrNoGuests when
// the pool is empty, which is fatal to session creation.
func (s *Service) Random(ctx context.Context) (*Profile, error) {
	return s.store.Random(ctx)
}
