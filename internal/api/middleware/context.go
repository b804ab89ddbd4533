package middleware

import (
	"context"
	"net/http"

	"github.com/rowanmoss/faultdeck/pkg/models"
)

type contextKey string

const (
	userContextKey      contextKey = "acting_user"
	keyPrefixContextKey contextKey = "api_key_prefix"
	projectContextKey   contextKey = "project"
)

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFrom returns the authenticated user set by the auth middleware.
func UserFrom(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(userContextKey).(*models.User)
	return u, ok
}

func withKeyPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, keyPrefixContextKey, prefix)
}

func getKeyPrefix(r *http.Request) (string, bool) {
	prefix, ok := r.Context().Value(keyPrefixContextKey).(string)
	return prefix, ok
}

func WithProject(ctx context.Context, p *models.Project) context.Context {
	return context.WithValue(ctx, projectContextKey, p)
}

// ProjectFrom returns the project resolved from the route slugs.
func ProjectFrom(r *http.Request) (*models.Project, bool) {
	p, ok := r.Context().Value(projectContextKey).(*models.Project)
	return p, ok
}
