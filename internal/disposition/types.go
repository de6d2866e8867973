package disposition

import "time"

// Status is the lifecycle state of a disposition.
type Status string

const (
	StatusReceived   Status = "RECEIVED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority of an incoming letter.
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// StatusRef is one row of the status reference catalogue: a lifecycle state
// with its display label and ordering. Static reference data, seeded once.
type StatusRef struct {
	Code  Status `json:"code"`
	Label string `json:"label"`
	Order int    `json:"order"`
	Final bool   `json:"final"`
}

// StatusCatalogue returns the canonical lifecycle states in display order.
func StatusCatalogue() []StatusRef {
	return []StatusRef{
		{Code: StatusReceived, Label: "Diterima", Order: 1},
		{Code: StatusInProgress, Label: "Diproses", Order: 2},
		{Code: StatusCompleted, Label: "Selesai", Order: 3, Final: true},
	}
}

// Action identifies a lifecycle-affecting operation in the audit log.
type Action string

const (
	ActionCreate       Action = "CREATE"
	ActionAssignPIC    Action = "ASSIGN_PIC"
	ActionUpdateStatus Action = "UPDATE_STATUS"
)

// RoleLabel qualifies an assignment.
type RoleLabel string

const (
	RolePersonInCharge RoleLabel = "PersonInCharge"
	RoleDelegate       RoleLabel = "Delegate"
)

// Valid reports whether l is a known assignment label.
func (l RoleLabel) Valid() bool {
	return l == RolePersonInCharge || l == RoleDelegate
}

// Actor is the caller-supplied identity of whoever performs an operation.
// Session identity lives with the caller; the core only records it.
type Actor struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Disposition is the routing/handling record of an incoming official letter.
// It is created once with StatusReceived and mutated only through the
// status-transition operation; it is never deleted.
type Disposition struct {
	ID              string     `json:"idDisposisi"`
	LetterNumber    string     `json:"letterNumber"`
	LetterDate      string     `json:"letterDate"`
	Origin          string     `json:"origin"`
	Subject         string     `json:"subject"`
	Excerpt         string     `json:"excerpt,omitempty"`
	ReceivedAt      time.Time  `json:"receivedAt"`
	Deadline        string     `json:"deadline"`
	Status          Status     `json:"status"`
	Priority        Priority   `json:"priority"`
	ExternalLink    string     `json:"externalLink,omitempty"`
	CompletionDate  *time.Time `json:"completionDate,omitempty"`
	CompletionProof string     `json:"completionProof,omitempty"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedBy       string     `json:"updatedBy"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Assignment records responsibility for a disposition. At most one active
// row exists per (disposition, user); history is kept by flipping Active,
// never by deleting.
type Assignment struct {
	DispositionID string    `json:"idDisposisi"`
	UserID        string    `json:"idUser"`
	RoleLabel     RoleLabel `json:"roleLabel"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AssignmentView is an active assignment joined with account display fields.
type AssignmentView struct {
	UserID    string    `json:"idUser"`
	Name      string    `json:"name"`
	NIP       string    `json:"nip,omitempty"`
	RoleLabel RoleLabel `json:"roleLabel"`
}

// ProgressEntry is a free-form work note on a disposition. Append-only.
type ProgressEntry struct {
	ID            string    `json:"idProgres"`
	DispositionID string    `json:"idDisposisi"`
	Timestamp     time.Time `json:"timestamp"`
	Description   string    `json:"description"`
	Note          string    `json:"note,omitempty"`
	AuthorName    string    `json:"authorName"`
	AuthorRole    string    `json:"authorRole"`
	Attachment    string    `json:"attachment,omitempty"`
}

// AuditLogEntry is one structured lifecycle event. Append-only; exactly one
// entry is written per state-changing operation.
type AuditLogEntry struct {
	ID             string    `json:"idLog"`
	DispositionID  string    `json:"idDisposisi"`
	Action         Action    `json:"action"`
	PreviousStatus Status    `json:"previousStatus,omitempty"`
	NewStatus      Status    `json:"newStatus,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ActorName      string    `json:"actorName"`
	Note           string    `json:"note"`
}

// Detail aggregates everything a caller needs to render one disposition.
type Detail struct {
	Disposition Disposition      `json:"disposisi"`
	PICs        []AssignmentView `json:"pics"`
	Progress    []ProgressEntry  `json:"progres"`
	Logs        []AuditLogEntry  `json:"logs"`
}

// Overview is a list item: the disposition plus its active assignments.
type Overview struct {
	Disposition
	PICs []AssignmentView `json:"pics"`
}
