// Package handler contains the HTTP handlers. Handlers parse and validate
// requests, call the issues engine, and shape responses; all domain rules
// live in the engine.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rowanmoss/faultdeck/internal/api/middleware"
	"github.com/rowanmoss/faultdeck/internal/api/response"
	"github.com/rowanmoss/faultdeck/internal/issues"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// engineAPI is the issue engine surface the handlers consume.
type engineAPI interface {
	List(ctx context.Context, sel issues.Selection) (*issues.ListResult, error)
	Update(ctx context.Context, p issues.UpdateParams) (issues.UpdateResult, error)
	Delete(ctx context.Context, p issues.DeleteParams) error
}

// IssuesHandler serves the project issues collection.
type IssuesHandler struct {
	engine engineAPI
}

func NewIssuesHandler(e engineAPI) *IssuesHandler {
	return &IssuesHandler{engine: e}
}

// List handles GET /projects/{org}/{project}/issues.
func (h *IssuesHandler) List(w http.ResponseWriter, r *http.Request) {
	project, ok := middleware.ProjectFrom(r)
	if !ok {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Project not resolved", nil)
		return
	}

	values := r.URL.Query()
	ids, query, statusFilter, err := parseSelection(values)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	sort, limit, err := parseListParams(values)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	res, err := h.engine.List(r.Context(), issues.Selection{
		ProjectID: project.ID,
		IDs:       ids,
		Query:     query,
		Status:    statusFilter,
		Sort:      sort,
		Limit:     limit,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	groups := make([]map[string]any, 0, len(res.Groups))
	for _, g := range res.Groups {
		groups = append(groups, serializeGroup(g, res.MatchingEventID))
	}
	if res.MatchingEventID != "" {
		w.Header().Set("X-Direct-Hit", "1")
	}
	response.JSON(w, groups)
}

// Update handles PUT /projects/{org}/{project}/issues.
func (h *IssuesHandler) Update(w http.ResponseWriter, r *http.Request) {
	project, ok := middleware.ProjectFrom(r)
	if !ok {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Project not resolved", nil)
		return
	}
	user, ok := middleware.UserFrom(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized,
			"INVALID_TOKEN", "Authentication required", nil)
		return
	}

	ids, query, statusFilter, err := parseSelection(r.URL.Query())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	req, err := decodeUpdateRequest(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	statusUpdate, err := req.statusUpdate()
	if err != nil {
		writeEngineError(w, err)
		return
	}

	result, err := h.engine.Update(r.Context(), issues.UpdateParams{
		Project:      project,
		ActingUserID: user.ID,
		IDs:          ids,
		Query:        query,
		Status:       statusFilter,
		StatusUpdate: statusUpdate,
		IsBookmarked: req.IsBookmarked,
		IsSubscribed: req.IsSubscribed,
		HasSeen:      req.HasSeen,
		IsPublic:     req.IsPublic,
		AssignedTo:   req.AssignedTo,
		Merge:        req.Merge,
		Discard:      req.Discard,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	// A nil result means the selection was discarded.
	if result == nil {
		response.NoContent(w)
		return
	}
	response.JSON(w, result)
}

// Delete handles DELETE /projects/{org}/{project}/issues.
func (h *IssuesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	project, ok := middleware.ProjectFrom(r)
	if !ok {
		response.Error(w, http.StatusInternalServerError,
			"INTERNAL_ERROR", "Project not resolved", nil)
		return
	}
	user, ok := middleware.UserFrom(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized,
			"INVALID_TOKEN", "Authentication required", nil)
		return
	}

	ids, query, statusFilter, err := parseSelection(r.URL.Query())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.engine.Delete(r.Context(), issues.DeleteParams{
		Project:      project,
		ActingUserID: user.ID,
		IDs:          ids,
		Query:        query,
		Status:       statusFilter,
	}); err != nil {
		writeEngineError(w, err)
		return
	}
	response.NoContent(w)
}

func serializeGroup(g *models.Group, matchingEventID string) map[string]any {
	out := map[string]any{
		"id":        strconv.FormatInt(g.ID, 10),
		"status":    g.Status.Label(),
		"message":   g.Message,
		"culprit":   g.Culprit,
		"count":     strconv.FormatInt(g.TimesSeen, 10),
		"userCount": g.UsersSeen,
		"firstSeen": g.FirstSeen,
		"lastSeen":  g.LastSeen,
		"isPublic":  g.IsPublic,
	}
	if g.ResolvedAt != nil {
		out["resolvedAt"] = *g.ResolvedAt
	}
	if matchingEventID != "" {
		out["matchingEventId"] = matchingEventID
	}
	return out
}

func writeEngineError(w http.ResponseWriter, err error) {
	var verr *issues.ValidationError
	if errors.As(err, &verr) {
		var details any
		if verr.Field != "" {
			details = map[string]string{"field": verr.Field}
		}
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, details)
		return
	}
	var perr *issues.PermissionError
	if errors.As(err, &perr) {
		response.Error(w, http.StatusForbidden, "FORBIDDEN", perr.Message, nil)
		return
	}
	slog.Error("issues request failed", "error", err)
	response.Error(w, http.StatusInternalServerError,
		"INTERNAL_ERROR", "An unexpected error occurred", nil)
}
