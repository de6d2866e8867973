package httpapi

import (
	"net/http"
	"strings"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/audit"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/disposition"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/obs"
)

// actorPayload carries the caller-supplied identity on mutating requests.
// Session resolution is out of scope; the core re-checks the role anyway.
type actorPayload struct {
	UserID string `json:"actor_user_id"`
	Name   string `json:"actor_name"`
	Role   string `json:"actor_role"`
}

func (p actorPayload) actor() disposition.Actor {
	return disposition.Actor{
		UserID: strings.TrimSpace(p.UserID),
		Name:   strings.TrimSpace(p.Name),
		Role:   strings.TrimSpace(p.Role),
	}
}

func (a *API) handleStatuses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	statuses, err := a.dispositions.ListStatuses(r.Context())
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	if statuses == nil {
		statuses = []disposition.StatusRef{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"statuses": statuses})
}

func (a *API) handleDispositionsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listDispositions(w, r)
	case http.MethodPost:
		a.createDisposition(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (a *API) listDispositions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	account := identity.Account{
		UserID:   strings.TrimSpace(q.Get("user_id")),
		RoleName: strings.TrimSpace(q.Get("role")),
	}
	if account.UserID == "" {
		writeError(w, r, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	list, err := a.dispositions.List(r.Context(), account)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dispositions": list})
}

func (a *API) createDisposition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		actorPayload
		LetterNumber string `json:"letter_number"`
		LetterDate   string `json:"letter_date"`
		Origin       string `json:"origin"`
		Subject      string `json:"subject"`
		Excerpt      string `json:"excerpt"`
		Deadline     string `json:"deadline"`
		Priority     string `json:"priority"`
		ExternalLink string `json:"external_link"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	actor := req.actor()
	ctx := audit.WithActor(r.Context(), actor.UserID)
	id, err := a.dispositions.Create(ctx, disposition.CreateInput{
		LetterNumber: req.LetterNumber,
		LetterDate:   req.LetterDate,
		Origin:       req.Origin,
		Subject:      req.Subject,
		Excerpt:      req.Excerpt,
		Deadline:     req.Deadline,
		Priority:     disposition.Priority(req.Priority),
		ExternalLink: req.ExternalLink,
	}, actor)
	if err != nil {
		obs.CountMutation("create", "error")
		handleCoreError(w, r, err)
		return
	}

	obs.CountMutation("create", "ok")
	a.audit(ctx, "disposition.created", "disposition", id, map[string]string{
		"letter_number": req.LetterNumber,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (a *API) handleDispositionResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/dispositions/")
	parts := strings.Split(rest, "/")
	id := strings.TrimSpace(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, "GET")
			return
		}
		a.getDisposition(w, r, id)
	case len(parts) == 2 && parts[1] == "status":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, "POST")
			return
		}
		a.updateStatus(w, r, id)
	case len(parts) == 2 && parts[1] == "pics":
		switch r.Method {
		case http.MethodGet:
			a.listAssignments(w, r, id)
		case http.MethodPost:
			a.assignPIC(w, r, id)
		default:
			methodNotAllowed(w, r, "GET, POST")
		}
	case len(parts) == 2 && parts[1] == "progress":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, "POST")
			return
		}
		a.appendProgress(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (a *API) getDisposition(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := a.dispositions.Detail(r.Context(), id)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		actorPayload
		Status string `json:"status"`
		Proof  string `json:"proof"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	actor := req.actor()
	ctx := audit.WithActor(r.Context(), actor.UserID)
	err := a.dispositions.UpdateStatus(ctx, id, disposition.Status(req.Status), req.Proof, actor)
	if err != nil {
		obs.CountMutation("update_status", "error")
		handleCoreError(w, r, err)
		return
	}

	obs.CountMutation("update_status", "ok")
	a.audit(ctx, "disposition.status_updated", "disposition", id, map[string]string{
		"new_status": req.Status,
	})
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}

func (a *API) listAssignments(w http.ResponseWriter, r *http.Request, id string) {
	pics, err := a.dispositions.ListActiveAssignments(r.Context(), id)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	if pics == nil {
		pics = []disposition.AssignmentView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pics": pics})
}

func (a *API) assignPIC(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		actorPayload
		UserID    string `json:"user_id"`
		RoleLabel string `json:"role_label"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	actor := req.actor()
	ctx := audit.WithActor(r.Context(), actor.UserID)
	err := a.dispositions.Assign(ctx, id, req.UserID, disposition.RoleLabel(req.RoleLabel), actor)
	if err != nil {
		obs.CountMutation("assign_pic", "error")
		handleCoreError(w, r, err)
		return
	}

	obs.CountMutation("assign_pic", "ok")
	a.audit(ctx, "disposition.pic_assigned", "disposition", id, map[string]string{
		"assigned_user": req.UserID,
		"role_label":    req.RoleLabel,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"user_id": strings.TrimSpace(req.UserID),
	})
}

func (a *API) appendProgress(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		actorPayload
		Description string `json:"description"`
		Note        string `json:"note"`
		Attachment  string `json:"attachment"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	actor := req.actor()
	ctx := audit.WithActor(r.Context(), actor.UserID)
	err := a.dispositions.AppendProgress(ctx, id, disposition.ProgressInput{
		Description: req.Description,
		Note:        req.Note,
		Attachment:  req.Attachment,
	}, actor)
	if err != nil {
		obs.CountMutation("append_progress", "error")
		handleCoreError(w, r, err)
		return
	}

	obs.CountMutation("append_progress", "ok")
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}
