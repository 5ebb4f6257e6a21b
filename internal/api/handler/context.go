package handler

import (
	"context"

	"github.com/tripfolio/tripfolio/internal/api/middleware"
	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/template"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) string {
	return middleware.GetUserID(ctx)
}

// GetAgencyID retrieves the authenticated caller's agency ID from the context.
func GetAgencyID(ctx context.Context) string {
	id, _ := middleware.GetIdentity(ctx)
	return id.AgencyID
}

// actorFrom builds a template actor from the authenticated identity.
// The second return value is false if the request is not authenticated.
func actorFrom(ctx context.Context) (template.Actor, bool) {
	id, ok := middleware.GetIdentity(ctx)
	if !ok {
		return template.Actor{}, false
	}
	return template.Actor{
		UserID:   id.UserID,
		AgencyID: id.AgencyID,
		Admin:    id.Role == auth.RoleAdmin,
	}, true
}
