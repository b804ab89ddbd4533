package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rowanmoss/faultdeck/internal/api/response"
	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// projectStore is the store surface the project middleware needs.
type projectStore interface {
	GetProjectBySlugs(ctx context.Context, orgSlug, projectSlug string) (*models.Project, error)
	IsOrgMember(ctx context.Context, orgID, userID int64) (bool, error)
}

// Projects resolves the {org}/{project} route slugs to a project and checks
// that the acting user belongs to the organization.
type Projects struct {
	store projectStore
}

func NewProjects(s projectStore) *Projects {
	return &Projects{store: s}
}

func (p *Projects) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgSlug := chi.URLParam(r, "org")
		projectSlug := chi.URLParam(r, "project")

		project, err := p.store.GetProjectBySlugs(r.Context(), orgSlug, projectSlug)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound,
				"RESOURCE_NOT_FOUND", "Project not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to resolve project", nil)
			return
		}

		if user, ok := UserFrom(r); ok {
			member, err := p.store.IsOrgMember(r.Context(), project.OrgID, user.ID)
			if err != nil {
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "Failed to check membership", nil)
				return
			}
			if !member {
				response.Error(w, http.StatusForbidden,
					"FORBIDDEN", "Not a member of this organization", nil)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithProject(r.Context(), project)))
	})
}
