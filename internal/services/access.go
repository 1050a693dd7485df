// Package services holds the domain services invoked by route handlers.
// Handlers validate and authorize; services own the business rules.
package services

import (
	"context"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/repositories"
)

// Access centralizes the tenant-scope check used by every project-scoped
// service call: admins see everything, others must own or belong to the
// project.
type Access struct {
	Projects repositories.ProjectRepository
}

// Authorize returns nil when the principal may act on the project.
// A missing project is a 404-class error, a foreign one 403-class.
func (a Access) Authorize(ctx context.Context, principal auth.Principal, projectID int64) error {
	project, err := a.Projects.FindByID(ctx, projectID)
	if err != nil {
		return domain.InternalError{Msg: "project lookup failed", Err: err}
	}
	if project == nil {
		return domain.NotFoundError{Resource: "project"}
	}
	if principal.IsAdmin() {
		return nil
	}
	member, err := a.Projects.IsMember(ctx, projectID, principal.UserID)
	if err != nil {
		return domain.InternalError{Msg: "membership lookup failed", Err: err}
	}
	if !member {
		return domain.ForbiddenError{Msg: "no access to this project"}
	}
	return nil
}
