package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
)

var _ identity.Store = (*Store)(nil)

const accountColumns = `id_user, nama, nip, password_hash, id_role, unit_kerja, aktif, created_at`

func scanAccount(row interface{ Scan(...any) error }) (identity.Account, error) {
	var a identity.Account
	err := row.Scan(&a.UserID, &a.Name, &a.NIP, &a.PasswordHash, &a.RoleID, &a.WorkUnit, &a.Active, &a.CreatedAt)
	return a, err
}

func (s *Store) InsertAccount(ctx context.Context, a identity.Account) error {
	_, err := s.db.ExecContext(ctx, `
		insert into akun (id_user, nama, nip, password_hash, id_role, unit_kerja, aktif, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.UserID, a.Name, a.NIP, a.PasswordHash, a.RoleID, a.WorkUnit, a.Active, a.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return identity.ErrAlreadyExists
			case pgErrForeignKeyViolation:
				return identity.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *Store) FindAccount(ctx context.Context, userID string) (identity.Account, error) {
	row := s.db.QueryRowContext(ctx, `select `+accountColumns+` from akun where id_user = $1`, userID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return identity.Account{}, identity.ErrNotFound
	}
	if err != nil {
		return identity.Account{}, err
	}
	return a, nil
}

func (s *Store) FindAccountByNIP(ctx context.Context, nip string) (identity.Account, error) {
	row := s.db.QueryRowContext(ctx, `select `+accountColumns+` from akun where nip = $1`, nip)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return identity.Account{}, identity.ErrNotFound
	}
	if err != nil {
		return identity.Account{}, err
	}
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, userID string, upd identity.AccountUpdate) error {
	var (
		setClauses []string
		args       []any
		idx        = 1
	)
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("nama = $%d", idx))
		args = append(args, *upd.Name)
		idx++
	}
	if upd.Password != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", idx))
		args = append(args, *upd.Password)
		idx++
	}
	if upd.NIP != nil {
		setClauses = append(setClauses, fmt.Sprintf("nip = $%d", idx))
		args = append(args, *upd.NIP)
		idx++
	}
	if upd.WorkUnit != nil {
		setClauses = append(setClauses, fmt.Sprintf("unit_kerja = $%d", idx))
		args = append(args, *upd.WorkUnit)
		idx++
	}
	if upd.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("aktif = $%d", idx))
		args = append(args, *upd.Active)
		idx++
	}
	if len(setClauses) == 0 {
		return nil
	}

	query := fmt.Sprintf(`update akun set %s where id_user = $%d`, strings.Join(setClauses, ", "), idx)
	args = append(args, userID)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return identity.ErrAlreadyExists
		}
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]identity.Account, error) {
	rows, err := s.db.QueryContext(ctx, `select `+accountColumns+` from akun order by nama`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []identity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from akun`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) InsertRole(ctx context.Context, r identity.Role) error {
	_, err := s.db.ExecContext(ctx, `
		insert into jenis_akun (id_role, nama_role) values ($1, $2)
		on conflict (id_role) do nothing
	`, r.RoleID, r.RoleName)
	return err
}

func (s *Store) ListRoles(ctx context.Context) ([]identity.Role, error) {
	rows, err := s.db.QueryContext(ctx, `select id_role, nama_role from jenis_akun order by id_role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []identity.Role
	for rows.Next() {
		var r identity.Role
		if err := rows.Scan(&r.RoleID, &r.RoleName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
