// README: Catalog service; read-only, chronologically ordered schedule provider.
package catalog

import (
	"context"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ForStay returns the catalog entries starting within [checkIn, checkOut].
func (s *Service) ForStay(ctx context.Context, checkIn, checkOut time.Time) ([]Entry, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByStay(all, checkIn, checkOut)
}
