package disposition

import (
	"context"
	"sort"
	"sync"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
)

// AccountLookup resolves account display fields for assignment views.
// identity.InMemory and the Postgres identity store both satisfy it.
type AccountLookup interface {
	FindAccount(ctx context.Context, userID string) (identity.Account, error)
}

// InMemory implements Store with in-process concurrency safety. The single
// mutex serializes every check-then-insert, so the assignment uniqueness
// rule holds even under concurrent callers. Used by tests and as the
// fallback store when no database is configured.
type InMemory struct {
	mu           sync.RWMutex
	dispositions []Disposition
	assignments  []Assignment
	progress     []ProgressEntry
	logs         []AuditLogEntry
	statuses     []StatusRef
	accounts     AccountLookup
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty store. accounts may be nil, in which case
// assignment views carry no display names.
func NewInMemory(accounts AccountLookup) *InMemory {
	return &InMemory{accounts: accounts}
}

func (s *InMemory) InsertDisposition(ctx context.Context, d Disposition, entry AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispositions = append(s.dispositions, d)
	s.logs = append(s.logs, entry)
	return nil
}

func (s *InMemory) GetDisposition(ctx context.Context, id string) (Disposition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.dispositions {
		if d.ID == id {
			return d, nil
		}
	}
	return Disposition{}, ErrNotFound
}

func (s *InMemory) ListDispositions(ctx context.Context) ([]Disposition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Disposition, len(s.dispositions))
	copy(out, s.dispositions)
	return out, nil
}

func (s *InMemory) ApplyStatus(ctx context.Context, upd StatusUpdate, entry AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dispositions {
		if s.dispositions[i].ID != upd.DispositionID {
			continue
		}
		s.dispositions[i].Status = upd.Status
		s.dispositions[i].UpdatedBy = upd.UpdatedBy
		s.dispositions[i].UpdatedAt = upd.UpdatedAt
		if upd.CompletionDate != nil {
			s.dispositions[i].CompletionDate = upd.CompletionDate
			s.dispositions[i].CompletionProof = upd.CompletionProof
		}
		s.logs = append(s.logs, entry)
		return nil
	}
	return ErrNotFound
}

func (s *InMemory) InsertAssignment(ctx context.Context, a Assignment, entry AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.Active && existing.DispositionID == a.DispositionID && existing.UserID == a.UserID {
			return ErrAlreadyAssigned
		}
	}
	s.assignments = append(s.assignments, a)
	s.logs = append(s.logs, entry)
	return nil
}

func (s *InMemory) ActiveAssignments(ctx context.Context, dispositionID string) ([]AssignmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AssignmentView
	for _, a := range s.assignments {
		if !a.Active || a.DispositionID != dispositionID {
			continue
		}
		view := AssignmentView{UserID: a.UserID, RoleLabel: a.RoleLabel}
		if s.accounts != nil {
			if acc, err := s.accounts.FindAccount(ctx, a.UserID); err == nil {
				view.Name = acc.Name
				view.NIP = acc.NIP
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *InMemory) AssignedDispositionIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, a := range s.assignments {
		if a.Active && a.UserID == userID {
			out = append(out, a.DispositionID)
		}
	}
	return out, nil
}

func (s *InMemory) InsertProgress(ctx context.Context, p ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
	return nil
}

func (s *InMemory) ListProgress(ctx context.Context, dispositionID string) ([]ProgressEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ProgressEntry
	for _, p := range s.progress {
		if p.DispositionID == dispositionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *InMemory) InsertStatusRef(ctx context.Context, ref StatusRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.statuses {
		if existing.Code == ref.Code {
			return nil
		}
	}
	s.statuses = append(s.statuses, ref)
	sort.SliceStable(s.statuses, func(i, j int) bool { return s.statuses[i].Order < s.statuses[j].Order })
	return nil
}

func (s *InMemory) ListStatusRefs(ctx context.Context) ([]StatusRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StatusRef, len(s.statuses))
	copy(out, s.statuses)
	return out, nil
}

func (s *InMemory) ListLogs(ctx context.Context, dispositionID string) ([]AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AuditLogEntry
	for _, entry := range s.logs {
		if entry.DispositionID == dispositionID {
			out = append(out, entry)
		}
	}
	return out, nil
}
