package disposition

import (
	"context"
	"time"
)

// StatusUpdate carries the field changes of one status transition. Only the
// listed fields are ever written; everything else on the record is immutable
// after creation.
type StatusUpdate struct {
	DispositionID   string
	Status          Status
	UpdatedBy       string
	UpdatedAt       time.Time
	CompletionDate  *time.Time
	CompletionProof string
}

// Store describes persistence for dispositions, assignments, progress and
// the audit log. Mutating methods that take an AuditLogEntry must persist
// the record change and the log entry atomically: either both land or
// neither does.
//
// InsertAssignment must enforce at most one active assignment per
// (disposition, user) and report a violation as ErrAlreadyAssigned. The
// Postgres implementation backs this with a partial unique index; the
// in-memory implementation serializes the check-then-insert under its lock.
type Store interface {
	InsertDisposition(ctx context.Context, d Disposition, entry AuditLogEntry) error
	GetDisposition(ctx context.Context, id string) (Disposition, error)
	ListDispositions(ctx context.Context) ([]Disposition, error)
	ApplyStatus(ctx context.Context, upd StatusUpdate, entry AuditLogEntry) error

	InsertAssignment(ctx context.Context, a Assignment, entry AuditLogEntry) error
	ActiveAssignments(ctx context.Context, dispositionID string) ([]AssignmentView, error)
	AssignedDispositionIDs(ctx context.Context, userID string) ([]string, error)

	InsertProgress(ctx context.Context, p ProgressEntry) error
	ListProgress(ctx context.Context, dispositionID string) ([]ProgressEntry, error)

	ListLogs(ctx context.Context, dispositionID string) ([]AuditLogEntry, error)

	// InsertStatusRef is a no-op for an already present code.
	InsertStatusRef(ctx context.Context, ref StatusRef) error
	ListStatusRefs(ctx context.Context) ([]StatusRef, error)
}
