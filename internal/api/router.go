package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	mw "github.com/rowanmoss/faultdeck/internal/api/middleware"
	"github.com/rowanmoss/faultdeck/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit
	Projects  *mw.Projects

	HealthHandler http.HandlerFunc

	ListIssues   http.HandlerFunc
	UpdateIssues http.HandlerFunc
	DeleteIssues http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.StripSlashes)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Route("/api/v1/projects/{org}/{project}", func(r chi.Router) {
			r.Use(deps.Projects.Resolve)

			r.Get("/issues", orNotImplemented(deps.ListIssues))
			r.Put("/issues", orNotImplemented(deps.UpdateIssues))
			r.Delete("/issues", orNotImplemented(deps.DeleteIssues))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
