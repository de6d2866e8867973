package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/audit"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
)

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}

	var req struct {
		NIP      string `json:"nip"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	acc, err := a.accounts.Authenticate(r.Context(), req.NIP, req.Password)
	if err != nil {
		// The two failure modes carry distinct user-facing messages; the
		// audit stream additionally records which handle was attempted.
		switch {
		case errors.Is(err, identity.ErrIdentityNotFound):
			a.audit(r.Context(), "auth.login_failed", "account", "", map[string]string{
				"reason": "identity_not_found",
				"nip":    strings.TrimSpace(req.NIP),
			})
			writeError(w, r, http.StatusUnauthorized, "nip not found or account inactive")
		case errors.Is(err, identity.ErrSecretMismatch):
			a.audit(r.Context(), "auth.login_failed", "account", "", map[string]string{
				"reason": "secret_mismatch",
				"nip":    strings.TrimSpace(req.NIP),
			})
			writeError(w, r, http.StatusUnauthorized, "wrong password")
		default:
			writeError(w, r, http.StatusInternalServerError, "operation failed")
		}
		return
	}

	a.audit(audit.WithActor(r.Context(), acc.UserID), "auth.login_succeeded", "account", acc.UserID, nil)
	writeJSON(w, http.StatusOK, map[string]any{"account": acc})
}

func (a *API) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}

	summary, err := a.accounts.SeedDefaults(r.Context(), a.bootstrap)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	statusesCreated, err := a.dispositions.SeedStatuses(r.Context())
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	a.audit(r.Context(), "identity.seeded", "account", "", map[string]string{})
	writeJSON(w, http.StatusOK, map[string]any{
		"rolesCreated":    summary.RolesCreated,
		"statusesCreated": statusesCreated,
		"accountCreated":  summary.AccountCreated,
		"totalAccounts":   summary.TotalAccounts,
	})
}

func (a *API) handleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	roles, err := a.accounts.ListRoles(r.Context())
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	if roles == nil {
		roles = []identity.Role{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (a *API) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listAccounts(w, r)
	case http.MethodPost:
		a.createAccount(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (a *API) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.accounts.ListAccounts(r.Context())
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []identity.Account{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		actorPayload
		Name     string `json:"name"`
		NIP      string `json:"nip"`
		Password string `json:"password"`
		RoleID   string `json:"role_id"`
		WorkUnit string `json:"work_unit"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !identity.CanManageDispositions(strings.TrimSpace(req.Role)) {
		writeError(w, r, http.StatusForbidden, "role may not manage accounts")
		return
	}

	ctx := audit.WithActor(r.Context(), strings.TrimSpace(req.UserID))
	acc, err := a.accounts.CreateAccount(ctx, identity.CreateAccountInput{
		Name:     req.Name,
		NIP:      req.NIP,
		Password: req.Password,
		RoleID:   req.RoleID,
		WorkUnit: req.WorkUnit,
	})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	a.audit(ctx, "account.created", "account", acc.UserID, nil)
	writeJSON(w, http.StatusCreated, map[string]any{"account": acc})
}

func (a *API) handleAccountResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/accounts/"))
	if id == "" || strings.ContainsRune(id, '/') {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, r, "PATCH")
		return
	}

	var req struct {
		actorPayload
		Name     string `json:"name"`
		Password string `json:"password"`
		NIP      string `json:"nip"`
		WorkUnit string `json:"work_unit"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	asAdmin := strings.TrimSpace(req.Role) == identity.RoleAdministrator
	// Non-administrators may only edit their own account.
	if !asAdmin && strings.TrimSpace(req.UserID) != id {
		writeError(w, r, http.StatusForbidden, "only administrators may edit other accounts")
		return
	}

	ctx := audit.WithActor(r.Context(), strings.TrimSpace(req.UserID))
	err := a.accounts.UpdateAccount(ctx, id, identity.AccountChange{
		Name:     req.Name,
		Password: req.Password,
		NIP:      req.NIP,
		WorkUnit: req.WorkUnit,
	}, asAdmin)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	a.audit(ctx, "account.updated", "account", id, nil)
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}
