package aiquota

import "context"

// Service orchestrates the AI turn allowance.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// UseTurn deducts one turn from the guest's monthly allowance.
// If the guest row does not exist yet it is initialised and the turn is
// immediately consumed. Returns ErrQuotaExhausted when the quota for the
// current month is gone.
func (s *Service) UseTurn(ctx context.Context, guestID string) error {
	err := s.store.UseTurn(ctx, guestID)
	if err != ErrQuotaExhausted {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureGuest(ctx, guestID); initErr != nil {
		return initErr
	}
	return s.store.UseTurn(ctx, guestID)
}
