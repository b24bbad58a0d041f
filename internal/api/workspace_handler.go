package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/workspace-api/internal/api/shared"
	"github.com/phrazzld/workspace-api/internal/domain"
	"github.com/phrazzld/workspace-api/internal/service"
)

// WorkspaceHandler serves the workspace endpoints.
type WorkspaceHandler struct {
	service service.WorkspaceService
	errors  ErrorPolicy
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(svc service.WorkspaceService, policy ErrorPolicy) *WorkspaceHandler {
	return &WorkspaceHandler{service: svc, errors: policy}
}

// Routes registers the workspace endpoints on r.
func (h *WorkspaceHandler) Routes(r chi.Router) {
	r.Get("/workspaces/{id}", h.GetWorkspace)
	r.Post("/workspaces", h.SearchWorkspaces)
	r.Post("/workspaces/{id}/notify", h.SendNotification)
}

// GetWorkspace handles GET /workspaces/{id}.
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Lookup(r.Context(), id)
	if err != nil {
		h.errors.Render(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workspaceToResponse(*rec))
}

// SearchWorkspaces handles POST /workspaces?limit=N with a
// {"queryString": ...} body.
func (h *WorkspaceHandler) SearchWorkspaces(w http.ResponseWriter, r *http.Request) {
	limit := domain.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.reject(w, r, domain.NewValidationError("limit", raw, "must be an integer"))
			return
		}
		limit = parsed
	}

	var req SearchWorkspacesRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		constraint := "must be a JSON object"
		if errors.Is(err, shared.ErrEmptyBody) {
			constraint = "cannot be empty"
		}
		h.errors.reject(w, r, domain.NewValidationError("body", "", constraint))
		return
	}

	records, err := h.service.Search(r.Context(), domain.SearchRequest{
		Query: req.QueryString,
		Limit: limit,
	})
	if err != nil {
		h.errors.Render(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, workspacesToResponse(records))
}

// SendNotification handles POST /workspaces/{id}/notify. Delivery happens
// in the background; the response is always 202 once the id parses.
func (h *WorkspaceHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	h.service.Notify(r.Context(), id)
	w.WriteHeader(http.StatusAccepted)
}

// parseID reads the {id} path parameter, rejecting non-integers.
func (h *WorkspaceHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.errors.reject(w, r, domain.NewValidationError("id", raw, "must be an integer"))
		return 0, false
	}
	return id, true
}
