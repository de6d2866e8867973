package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/disposition"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func testEntry(id string) disposition.AuditLogEntry {
	return disposition.AuditLogEntry{
		ID:            "LOG-1",
		DispositionID: id,
		Action:        disposition.ActionUpdateStatus,
		Timestamp:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		ActorName:     "Siti",
		Note:          "status changed from RECEIVED to IN_PROGRESS",
	}
}

func TestInsertDispositionWritesRecordAndLogInOneTx(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	d := disposition.Disposition{
		ID:           "DISP-1",
		LetterNumber: "001/SET/2026",
		LetterDate:   "2026-08-01",
		Origin:       "Sekretariat",
		Subject:      "Undangan",
		ReceivedAt:   now,
		Deadline:     "2026-08-15",
		Status:       disposition.StatusReceived,
		Priority:     disposition.PriorityNormal,
		CreatedBy:    "USER-1",
		CreatedAt:    now,
		UpdatedBy:    "USER-1",
		UpdatedAt:    now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into disposisi (")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into log_proses (")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.InsertDisposition(context.Background(), d, testEntry(d.ID)); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertDispositionRollsBackOnLogFailure(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into disposisi (")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into log_proses (")).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := store.InsertDisposition(context.Background(), disposition.Disposition{ID: "DISP-1"}, testEntry("DISP-1"))
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestApplyStatusUnknownID(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("update disposisi")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	upd := disposition.StatusUpdate{DispositionID: "DISP-missing", Status: disposition.StatusInProgress}
	err := store.ApplyStatus(context.Background(), upd, testEntry("DISP-missing"))
	if !errors.Is(err, disposition.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestApplyStatusCompletionIncludesProofColumns(t *testing.T) {
	store, mock := newMock(t)
	now := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("tanggal_selesai = $5, bukti_selesai = $6")).
		WithArgs("DISP-1", "COMPLETED", "USER-1", now, now, "bukti.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("insert into log_proses (")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	upd := disposition.StatusUpdate{
		DispositionID:   "DISP-1",
		Status:          disposition.StatusCompleted,
		UpdatedBy:       "USER-1",
		UpdatedAt:       now,
		CompletionDate:  &now,
		CompletionProof: "bukti.pdf",
	}
	if err := store.ApplyStatus(context.Background(), upd, testEntry("DISP-1")); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAssignmentMapsUniqueViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into disposisi_pic (")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mock.ExpectRollback()

	a := disposition.Assignment{DispositionID: "DISP-1", UserID: "USER-1", RoleLabel: disposition.RolePersonInCharge, Active: true}
	err := store.InsertAssignment(context.Background(), a, testEntry("DISP-1"))
	if !errors.Is(err, disposition.ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAssignmentMapsForeignKeyViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("insert into disposisi_pic (")).
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})
	mock.ExpectRollback()

	a := disposition.Assignment{DispositionID: "DISP-missing", UserID: "USER-1", RoleLabel: disposition.RoleDelegate, Active: true}
	err := store.InsertAssignment(context.Background(), a, testEntry("DISP-missing"))
	if !errors.Is(err, disposition.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetDispositionNotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("from disposisi where id_disposisi = $1")).
		WithArgs("DISP-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id_disposisi"}))

	_, err := store.GetDisposition(context.Background(), "DISP-missing")
	if !errors.Is(err, disposition.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusRefRoundTrip(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("insert into status_disposisi (kode, label, urutan, final)")).
		WithArgs("COMPLETED", "Selesai", 3, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertStatusRef(context.Background(), disposition.StatusRef{
		Code: disposition.StatusCompleted, Label: "Selesai", Order: 3, Final: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := sqlmock.NewRows([]string{"kode", "label", "urutan", "final"}).
		AddRow("RECEIVED", "Diterima", 1, false).
		AddRow("IN_PROGRESS", "Diproses", 2, false).
		AddRow("COMPLETED", "Selesai", 3, true)
	mock.ExpectQuery(regexp.QuoteMeta("from status_disposisi order by urutan")).
		WillReturnRows(rows)

	refs, err := store.ListStatusRefs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 3 || refs[0].Code != disposition.StatusReceived || !refs[2].Final {
		t.Fatalf("unexpected catalogue: %#v", refs)
	}
}

func TestActiveAssignmentsJoinsAccounts(t *testing.T) {
	store, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id_user", "nama", "nip", "peran"}).
		AddRow("USER-1", "Andi", "123", "PersonInCharge").
		AddRow("USER-2", "", "", "Delegate")
	mock.ExpectQuery(regexp.QuoteMeta("left join akun a on a.id_user = p.id_user")).
		WithArgs("DISP-1").
		WillReturnRows(rows)

	views, err := store.ActiveAssignments(context.Background(), "DISP-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(views))
	}
	if views[0].Name != "Andi" || views[0].RoleLabel != disposition.RolePersonInCharge {
		t.Fatalf("unexpected first view: %#v", views[0])
	}
	if views[1].Name != "" {
		t.Fatalf("missing account must yield empty display name, got %q", views[1].Name)
	}
}
