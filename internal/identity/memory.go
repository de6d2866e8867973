package identity

import (
	"context"
	"sync"
)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and as the fallback store when no database is configured.
type InMemory struct {
	mu       sync.RWMutex
	accounts []Account
	roles    []Role
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty identity store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) InsertAccount(ctx context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.NIP == a.NIP || acc.UserID == a.UserID {
			return ErrAlreadyExists
		}
	}
	s.accounts = append(s.accounts, a)
	return nil
}

func (s *InMemory) FindAccount(ctx context.Context, userID string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			return acc, nil
		}
	}
	return Account{}, ErrNotFound
}

func (s *InMemory) FindAccountByNIP(ctx context.Context, nip string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.NIP == nip {
			return acc, nil
		}
	}
	return Account{}, ErrNotFound
}

func (s *InMemory) UpdateAccount(ctx context.Context, userID string, upd AccountUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].UserID != userID {
			continue
		}
		if upd.Name != nil {
			s.accounts[i].Name = *upd.Name
		}
		if upd.Password != nil {
			s.accounts[i].PasswordHash = *upd.Password
		}
		if upd.NIP != nil {
			s.accounts[i].NIP = *upd.NIP
		}
		if upd.WorkUnit != nil {
			s.accounts[i].WorkUnit = *upd.WorkUnit
		}
		if upd.Active != nil {
			s.accounts[i].Active = *upd.Active
		}
		return nil
	}
	return ErrNotFound
}

func (s *InMemory) ListAccounts(ctx context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *InMemory) CountAccounts(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

func (s *InMemory) InsertRole(ctx context.Context, r Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, role := range s.roles {
		if role.RoleID == r.RoleID {
			return ErrAlreadyExists
		}
	}
	s.roles = append(s.roles, r)
	return nil
}

func (s *InMemory) ListRoles(ctx context.Context) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Role, len(s.roles))
	copy(out, s.roles)
	return out, nil
}
