package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
)

func TestInsertAccountMapsDuplicateNIP(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("insert into akun (")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.InsertAccount(context.Background(), identity.Account{UserID: "USER-1", NIP: "123"})
	if !errors.Is(err, identity.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestFindAccountByNIP(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id_user", "nama", "nip", "password_hash", "id_role", "unit_kerja", "aktif", "created_at"}).
		AddRow("USER-1", "Andi", "123", "hash", identity.RoleIDMember, "Tata Usaha", true, now)
	mock.ExpectQuery(regexp.QuoteMeta("from akun where nip = $1")).
		WithArgs("123").
		WillReturnRows(rows)

	acc, err := store.FindAccountByNIP(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}
	if acc.UserID != "USER-1" || acc.RoleID != identity.RoleIDMember || !acc.Active {
		t.Fatalf("unexpected account: %#v", acc)
	}
}

func TestUpdateAccountBuildsPartialSet(t *testing.T) {
	store, mock := newMock(t)

	name := "Andi S."
	unit := "Keuangan"
	mock.ExpectExec(regexp.QuoteMeta("update akun set nama = $1, unit_kerja = $2 where id_user = $3")).
		WithArgs(name, unit, "USER-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateAccount(context.Background(), "USER-1", identity.AccountUpdate{Name: &name, WorkUnit: &unit})
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateAccountUnknownUser(t *testing.T) {
	store, mock := newMock(t)

	name := "X"
	mock.ExpectExec(regexp.QuoteMeta("update akun set nama = $1 where id_user = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateAccount(context.Background(), "USER-missing", identity.AccountUpdate{Name: &name})
	if !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAccountNoFieldsIsNoop(t *testing.T) {
	store, mock := newMock(t)

	if err := store.UpdateAccount(context.Background(), "USER-1", identity.AccountUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
