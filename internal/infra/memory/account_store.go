package memory

import (
	"context"
	"strings"
	"sync"

	"trivia-service/internal/domain"
)

// AccountStore is an in-memory implementation of auth.AccountRepository.
type AccountStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
	}
}

func (s *AccountStore) CreateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, exists := s.byEmail[key]; exists {
		return domain.ErrAccountExists
	}
	s.byID[account.ID] = account
	s.byEmail[key] = account.ID
	return nil
}

func (s *AccountStore) AccountByEmail(_ context.Context, email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return s.byID[id], nil
}

func (s *AccountStore) AccountByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}
