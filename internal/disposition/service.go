package disposition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/ids"
)

// Service implements the disposition lifecycle over a Store: intake,
// assignment, status progression, progress journaling and the audit trail.
// Every mutating operation checks the acting role itself instead of
// trusting the calling layer.
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

// NewService constructs the lifecycle service.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) requireManager(actor Actor) error {
	if !identity.CanManageDispositions(actor.Role) {
		return fmt.Errorf("%w: role %q may not mutate dispositions", ErrUnauthorized, actor.Role)
	}
	return nil
}

// CreateInput carries the intake fields of a new disposition.
type CreateInput struct {
	LetterNumber string
	LetterDate   string
	Origin       string
	Subject      string
	Excerpt      string
	Deadline     string
	Priority     Priority
	ExternalLink string
}

func (in *CreateInput) trim() {
	in.LetterNumber = strings.TrimSpace(in.LetterNumber)
	in.LetterDate = strings.TrimSpace(in.LetterDate)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Deadline = strings.TrimSpace(in.Deadline)
	in.ExternalLink = strings.TrimSpace(in.ExternalLink)
}

func (in CreateInput) validate() error {
	switch {
	case in.LetterNumber == "":
		return fmt.Errorf("%w: letter number is required", ErrValidation)
	case in.LetterDate == "":
		return fmt.Errorf("%w: letter date is required", ErrValidation)
	case in.Origin == "":
		return fmt.Errorf("%w: origin is required", ErrValidation)
	case in.Subject == "":
		return fmt.Errorf("%w: subject is required", ErrValidation)
	case in.Deadline == "":
		return fmt.Errorf("%w: deadline is required", ErrValidation)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	return nil
}

// Create registers a new disposition. Status is forced to RECEIVED and the
// priority defaults to Normal. The CREATE audit entry is persisted in the
// same store transaction as the record itself. Returns the fresh
// disposition id.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (string, error) {
	if err := s.requireManager(actor); err != nil {
		return "", err
	}
	in.trim()
	if err := in.validate(); err != nil {
		return "", err
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}

	now := s.now().UTC()
	d := Disposition{
		ID:           ids.New(ids.PrefixDisposition),
		LetterNumber: in.LetterNumber,
		LetterDate:   in.LetterDate,
		Origin:       in.Origin,
		Subject:      in.Subject,
		Excerpt:      in.Excerpt,
		ReceivedAt:   now,
		Deadline:     in.Deadline,
		Status:       StatusReceived,
		Priority:     in.Priority,
		ExternalLink: in.ExternalLink,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedBy:    actor.UserID,
		UpdatedAt:    now,
	}
	entry := AuditLogEntry{
		ID:            ids.New(ids.PrefixLog),
		DispositionID: d.ID,
		Action:        ActionCreate,
		NewStatus:     StatusReceived,
		Timestamp:     now,
		ActorName:     actor.Name,
		Note:          "disposition created",
	}
	if err := s.store.InsertDisposition(ctx, d, entry); err != nil {
		return "", err
	}
	return d.ID, nil
}

// Get returns the disposition record. Absence is reported as ErrNotFound;
// the caller decides how to render it.
func (s *Service) Get(ctx context.Context, id string) (Disposition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Disposition{}, fmt.Errorf("%w: disposition id is required", ErrValidation)
	}
	return s.store.GetDisposition(ctx, id)
}

// UpdateStatus moves a disposition to newStatus. Any state may move to any
// other state, except that entering COMPLETED requires a non-empty proof;
// that precondition is checked before anything is read or written. On
// success the UPDATE_STATUS audit entry lands in the same transaction as
// the field changes.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus Status, proof string, actor Actor) error {
	if err := s.requireManager(actor); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: disposition id is required", ErrValidation)
	}
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}
	proof = strings.TrimSpace(proof)
	if newStatus == StatusCompleted && proof == "" {
		return ErrProofRequired
	}

	current, err := s.store.GetDisposition(ctx, id)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	upd := StatusUpdate{
		DispositionID: id,
		Status:        newStatus,
		UpdatedBy:     actor.UserID,
		UpdatedAt:     now,
	}
	if newStatus == StatusCompleted {
		upd.CompletionDate = &now
		upd.CompletionProof = proof
	}
	entry := AuditLogEntry{
		ID:             ids.New(ids.PrefixLog),
		DispositionID:  id,
		Action:         ActionUpdateStatus,
		PreviousStatus: current.Status,
		NewStatus:      newStatus,
		Timestamp:      now,
		ActorName:      actor.Name,
		Note:           fmt.Sprintf("status changed from %s to %s", current.Status, newStatus),
	}
	return s.store.ApplyStatus(ctx, upd, entry)
}

// Assign makes userID responsible for the disposition under the given
// label. A user already actively assigned yields ErrAlreadyAssigned with
// no mutation; the store enforces the same rule as a real constraint, so
// concurrent calls cannot both land.
func (s *Service) Assign(ctx context.Context, dispositionID, userID string, label RoleLabel, actor Actor) error {
	if err := s.requireManager(actor); err != nil {
		return err
	}
	dispositionID = strings.TrimSpace(dispositionID)
	userID = strings.TrimSpace(userID)
	if dispositionID == "" || userID == "" {
		return fmt.Errorf("%w: disposition id and user id are required", ErrValidation)
	}
	if !label.Valid() {
		return fmt.Errorf("%w: unknown role label %q", ErrValidation, label)
	}
	if _, err := s.store.GetDisposition(ctx, dispositionID); err != nil {
		return err
	}

	now := s.now().UTC()
	a := Assignment{
		DispositionID: dispositionID,
		UserID:        userID,
		RoleLabel:     label,
		Active:        true,
		CreatedAt:     now,
	}
	entry := AuditLogEntry{
		ID:            ids.New(ids.PrefixLog),
		DispositionID: dispositionID,
		Action:        ActionAssignPIC,
		Timestamp:     now,
		ActorName:     actor.Name,
		Note:          fmt.Sprintf("%s assigned as %s", userID, label),
	}
	return s.store.InsertAssignment(ctx, a, entry)
}

// ListActiveAssignments returns the active assignments of a disposition
// joined with account display fields, in insertion order.
func (s *Service) ListActiveAssignments(ctx context.Context, dispositionID string) ([]AssignmentView, error) {
	dispositionID = strings.TrimSpace(dispositionID)
	if dispositionID == "" {
		return nil, fmt.Errorf("%w: disposition id is required", ErrValidation)
	}
	return s.store.ActiveAssignments(ctx, dispositionID)
}

// ProgressInput carries one journal entry.
type ProgressInput struct {
	Description string
	Note        string
	Attachment  string
}

// AppendProgress adds a free-form progress entry. Open to every role and
// every disposition status; a pure append with no audit-log side effect,
// since progress entries are their own record of activity.
func (s *Service) AppendProgress(ctx context.Context, dispositionID string, in ProgressInput, actor Actor) error {
	dispositionID = strings.TrimSpace(dispositionID)
	in.Description = strings.TrimSpace(in.Description)
	if dispositionID == "" {
		return fmt.Errorf("%w: disposition id is required", ErrValidation)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if _, err := s.store.GetDisposition(ctx, dispositionID); err != nil {
		return err
	}

	p := ProgressEntry{
		ID:            ids.New(ids.PrefixProgress),
		DispositionID: dispositionID,
		Timestamp:     s.now().UTC(),
		Description:   in.Description,
		Note:          strings.TrimSpace(in.Note),
		AuthorName:    actor.Name,
		AuthorRole:    actor.Role,
		Attachment:    strings.TrimSpace(in.Attachment),
	}
	return s.store.InsertProgress(ctx, p)
}

// Detail assembles the full view of one disposition. Progress and logs are
// sorted by timestamp descending for display; the journal itself guarantees
// nothing beyond insertion order.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	pics, err := s.store.ActiveAssignments(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	progress, err := s.store.ListProgress(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	logs, err := s.store.ListLogs(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	sort.SliceStable(progress, func(i, j int) bool { return progress[i].Timestamp.After(progress[j].Timestamp) })
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })

	if pics == nil {
		pics = []AssignmentView{}
	}
	if progress == nil {
		progress = []ProgressEntry{}
	}
	if logs == nil {
		logs = []AuditLogEntry{}
	}
	return Detail{Disposition: d, PICs: pics, Progress: progress, Logs: logs}, nil
}

// List returns the dispositions the account may see, each decorated with
// its active assignments. The access filter is recomputed on every call.
func (s *Service) List(ctx context.Context, account identity.Account) ([]Overview, error) {
	all, err := s.store.ListDispositions(ctx)
	if err != nil {
		return nil, err
	}

	visible := all
	if !identity.SeesAllDispositions(account.RoleName) {
		assigned, err := s.store.AssignedDispositionIDs(ctx, account.UserID)
		if err != nil {
			return nil, err
		}
		visible = visibleTo(all, assigned)
	}

	out := make([]Overview, 0, len(visible))
	for _, d := range visible {
		pics, err := s.store.ActiveAssignments(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if pics == nil {
			pics = []AssignmentView{}
		}
		out = append(out, Overview{Disposition: d, PICs: pics})
	}
	return out, nil
}

// SeedStatuses idempotently inserts the status reference catalogue when the
// store holds no status rows yet. Reports whether anything was inserted.
func (s *Service) SeedStatuses(ctx context.Context) (bool, error) {
	existing, err := s.store.ListStatusRefs(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, ref := range StatusCatalogue() {
		if err := s.store.InsertStatusRef(ctx, ref); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ListStatuses returns the status reference catalogue in display order.
func (s *Service) ListStatuses(ctx context.Context) ([]StatusRef, error) {
	return s.store.ListStatusRefs(ctx)
}

// IsUnauthorized reports whether err stems from a role capability check.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
