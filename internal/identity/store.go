package identity

import "context"

// AccountUpdate carries optional field changes for an account. Password, if
// set, must already be hashed by the caller.
type AccountUpdate struct {
	Name     *string
	Password *string
	NIP      *string
	WorkUnit *string
	Active   *bool
}

// Store describes persistence for accounts and the static role catalogue.
type Store interface {
	InsertAccount(ctx context.Context, a Account) error
	FindAccount(ctx context.Context, userID string) (Account, error)
	FindAccountByNIP(ctx context.Context, nip string) (Account, error)
	UpdateAccount(ctx context.Context, userID string, upd AccountUpdate) error
	ListAccounts(ctx context.Context) ([]Account, error)
	CountAccounts(ctx context.Context) (int, error)

	InsertRole(ctx context.Context, r Role) error
	ListRoles(ctx context.Context) ([]Role, error)
}
