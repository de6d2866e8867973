package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/ids"
)

// Service provides account resolution, authentication and bootstrap seeding
// on top of a Store. Identity is always threaded explicitly: the service
// never caches a "current user".
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the identity service.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Authenticate resolves an account by its NIP login handle and verifies the
// secret. Handles and secrets are compared as trimmed strings only; legacy
// numeric-typed rows are a migration concern, not a runtime branch.
//
// The two failure modes are deliberately distinct: an unknown or inactive
// handle yields ErrIdentityNotFound, a wrong secret ErrSecretMismatch. An
// inactive account never reveals whether its secret would have matched.
func (s *Service) Authenticate(ctx context.Context, nip, secret string) (Account, error) {
	nip = strings.TrimSpace(nip)
	secret = strings.TrimSpace(secret)
	if nip == "" || secret == "" {
		return Account{}, ErrIdentityNotFound
	}

	acc, err := s.store.FindAccountByNIP(ctx, nip)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrIdentityNotFound
		}
		return Account{}, err
	}
	if !acc.Active {
		return Account{}, ErrIdentityNotFound
	}
	if err := VerifyPassword(acc.PasswordHash, secret); err != nil {
		return Account{}, ErrSecretMismatch
	}

	acc.RoleName = s.ResolveRoleName(ctx, acc.RoleID)
	acc.PasswordHash = ""
	return acc, nil
}

// ResolveRoleName maps a role id to its display name. An unresolved id
// yields the empty string, never an error.
func (s *Service) ResolveRoleName(ctx context.Context, roleID string) string {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return ""
	}
	for _, r := range roles {
		if r.RoleID == roleID {
			return r.RoleName
		}
	}
	return ""
}

// ListRoles returns the static role catalogue.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.store.ListRoles(ctx)
}

// ListAccounts returns all active accounts with resolved role names and
// without password hashes.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.RoleID] = r.RoleName
	}

	out := make([]Account, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.Active {
			continue
		}
		acc.RoleName = names[acc.RoleID]
		acc.PasswordHash = ""
		out = append(out, acc)
	}
	return out, nil
}

// CreateAccountInput carries the fields for a new account.
type CreateAccountInput struct {
	Name     string
	NIP      string
	Password string
	RoleID   string
	WorkUnit string
}

// CreateAccount registers a new active account. A duplicate NIP yields
// ErrAlreadyExists.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.NIP = strings.TrimSpace(in.NIP)
	in.Password = strings.TrimSpace(in.Password)
	in.RoleID = strings.TrimSpace(in.RoleID)
	in.WorkUnit = strings.TrimSpace(in.WorkUnit)
	if in.Name == "" || in.NIP == "" || in.Password == "" || in.RoleID == "" {
		return Account{}, fmt.Errorf("%w: name, nip, password and role_id are required", ErrInvalidInput)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Account{}, err
	}
	acc := Account{
		UserID:       ids.New(ids.PrefixUser),
		Name:         in.Name,
		NIP:          in.NIP,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		WorkUnit:     in.WorkUnit,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertAccount(ctx, acc); err != nil {
		return Account{}, err
	}
	acc.RoleName = s.ResolveRoleName(ctx, acc.RoleID)
	acc.PasswordHash = ""
	return acc, nil
}

// AccountChange carries user-editable account fields. NIP and work unit are
// only applied when the acting caller is an administrator.
type AccountChange struct {
	Name     string
	Password string
	NIP      string
	WorkUnit string
}

// UpdateAccount applies field changes to an existing account. Name is always
// updated; password only when non-empty (re-hashed); NIP and work unit only
// for administrator callers.
func (s *Service) UpdateAccount(ctx context.Context, userID string, change AccountChange, asAdmin bool) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(change.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	upd := AccountUpdate{Name: &name}
	if pw := strings.TrimSpace(change.Password); pw != "" {
		hash, err := HashPassword(pw)
		if err != nil {
			return err
		}
		upd.Password = &hash
	}
	if asAdmin {
		if nip := strings.TrimSpace(change.NIP); nip != "" {
			upd.NIP = &nip
		}
		if unit := strings.TrimSpace(change.WorkUnit); unit != "" {
			upd.WorkUnit = &unit
		}
	}
	return s.store.UpdateAccount(ctx, userID, upd)
}

// Bootstrap describes the administrator account created on first seed.
type Bootstrap struct {
	Name     string
	NIP      string
	Password string
	WorkUnit string
}

// SeedSummary reports what SeedDefaults actually inserted.
type SeedSummary struct {
	RolesCreated   bool `json:"rolesCreated"`
	AccountCreated bool `json:"accountCreated"`
	TotalAccounts  int  `json:"totalAccounts"`
}

// SeedDefaults idempotently inserts the three canonical roles and, when no
// account exists at all, a bootstrap administrator. Repeated calls are no-ops.
func (s *Service) SeedDefaults(ctx context.Context, boot Bootstrap) (SeedSummary, error) {
	var summary SeedSummary

	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return summary, err
	}
	if len(roles) == 0 {
		defaults := []Role{
			{RoleID: RoleIDAdministrator, RoleName: RoleAdministrator},
			{RoleID: RoleIDTeamLead, RoleName: RoleTeamLead},
			{RoleID: RoleIDMember, RoleName: RoleMember},
		}
		for _, r := range defaults {
			if err := s.store.InsertRole(ctx, r); err != nil {
				return summary, err
			}
		}
		summary.RolesCreated = true
	}

	total, err := s.store.CountAccounts(ctx)
	if err != nil {
		return summary, err
	}
	if total == 0 {
		if boot.NIP == "" || boot.Password == "" {
			return summary, fmt.Errorf("%w: bootstrap nip and password are required", ErrInvalidInput)
		}
		hash, err := HashPassword(strings.TrimSpace(boot.Password))
		if err != nil {
			return summary, err
		}
		acc := Account{
			UserID:       ids.New(ids.PrefixUser),
			Name:         strings.TrimSpace(boot.Name),
			NIP:          strings.TrimSpace(boot.NIP),
			PasswordHash: hash,
			RoleID:       RoleIDAdministrator,
			WorkUnit:     strings.TrimSpace(boot.WorkUnit),
			Active:       true,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.store.InsertAccount(ctx, acc); err != nil {
			return summary, err
		}
		summary.AccountCreated = true
		total = 1
	}
	summary.TotalAccounts = total
	return summary, nil
}
