package identity

import "time"

// Canonical role identifiers and names. Roles are static reference data,
// seeded once and immutable afterwards.
const (
	RoleIDAdministrator = "ROLE001"
	RoleIDTeamLead      = "ROLE002"
	RoleIDMember        = "ROLE003"

	RoleAdministrator = "Administrator"
	RoleTeamLead      = "Ketua Tim"
	RoleMember        = "Anggota"
)

// Account is a login-capable user of the disposition system. NIP is the
// unique login handle used in place of a conventional email address.
// Accounts are soft-deleted via Active, never removed.
type Account struct {
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	NIP          string    `json:"nip"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"roleId"`
	RoleName     string    `json:"roleName,omitempty"`
	WorkUnit     string    `json:"workUnit"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Role maps a role identifier to its display name.
type Role struct {
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
}

// CanManageDispositions reports whether the named role may create
// dispositions, assign PICs, or change disposition status.
func CanManageDispositions(roleName string) bool {
	return roleName == RoleAdministrator || roleName == RoleTeamLead
}

// SeesAllDispositions reports whether the named role bypasses the
// assignment-based access filter on list/read paths.
func SeesAllDispositions(roleName string) bool {
	return roleName == RoleAdministrator || roleName == RoleTeamLead
}
