package account

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]Account
}

// NewMemoryStore returns an in-memory Store used by tests and local
// development. Documents are copied on the way in and out so callers cannot
// mutate stored state through retained pointers.
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string]Account)}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Account, error) {
	if id == "" {
		return nil, ErrMissingID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneAccount(acc)
	return &cp, nil
}

func (s *memoryStore) GetByStripeCustomerID(ctx context.Context, customerID string) (*Account, error) {
	if customerID == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.docs {
		if acc.StripeCustomerID == customerID {
			cp := cloneAccount(acc)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryStore) Save(ctx context.Context, acc *Account) error {
	if acc == nil || acc.ID == "" {
		return ErrMissingID
	}

	acc.UpdatedAt = time.Now().UTC()
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = acc.UpdatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[acc.ID] = cloneAccount(*acc)
	return nil
}

func cloneAccount(acc Account) Account {
	cp := acc
	if acc.AdditionalWebsiteSubscriptions != nil {
		cp.AdditionalWebsiteSubscriptions = make([]AddOnSubscription, len(acc.AdditionalWebsiteSubscriptions))
		copy(cp.AdditionalWebsiteSubscriptions, acc.AdditionalWebsiteSubscriptions)
	}
	if acc.Websites != nil {
		cp.Websites = make([]Website, len(acc.Websites))
		copy(cp.Websites, acc.Websites)
	}
	return cp
}
