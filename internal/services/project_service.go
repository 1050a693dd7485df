package services

import (
	"context"
	"regexp"
	"strings"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsSlug reports whether s is a valid project slug
// (lowercase alphanumerics separated by single hyphens).
func IsSlug(s string) bool { return slugPattern.MatchString(s) }

type ProjectService struct {
	Projects repositories.ProjectRepository
	Access   Access
}

// List returns the principal's visible projects plus a total for paging.
func (s ProjectService) List(ctx context.Context, principal auth.Principal, limit, offset int) ([]models.Project, int64, error) {
	projects, err := s.Projects.ListForUser(ctx, principal.UserID, limit, offset)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "project listing failed", Err: err}
	}
	total, err := s.Projects.CountForUser(ctx, principal.UserID)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "project count failed", Err: err}
	}
	return projects, total, nil
}

// ListAll is the admin listing across all tenants.
func (s ProjectService) ListAll(ctx context.Context, limit, offset int) ([]models.Project, int64, error) {
	projects, err := s.Projects.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "project listing failed", Err: err}
	}
	total, err := s.Projects.CountAll(ctx)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "project count failed", Err: err}
	}
	return projects, total, nil
}

func (s ProjectService) Create(ctx context.Context, principal auth.Principal, name, slug string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if !IsSlug(slug) {
		return nil, domain.ValidationError{Field: "slug", Msg: "must be lowercase alphanumerics separated by hyphens"}
	}

	taken, err := s.Projects.SlugExists(ctx, slug)
	if err != nil {
		return nil, domain.InternalError{Msg: "slug check failed", Err: err}
	}
	if taken {
		return nil, domain.ConflictError{Resource: "project", Msg: "slug already in use"}
	}

	id, err := s.Projects.Create(ctx, name, slug, principal.UserID)
	if err != nil {
		return nil, domain.InternalError{Msg: "project create failed", Err: err}
	}
	return s.get(ctx, id)
}

func (s ProjectService) Get(ctx context.Context, principal auth.Principal, id int64) (*models.Project, error) {
	if err := s.Access.Authorize(ctx, principal, id); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s ProjectService) Update(ctx context.Context, principal auth.Principal, id int64, name, status string) (*models.Project, error) {
	if err := s.Access.Authorize(ctx, principal, id); err != nil {
		return nil, err
	}
	project, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		project.Name = strings.TrimSpace(name)
	}
	if status != "" {
		if status != models.StatusActive && status != models.StatusInactive {
			return nil, domain.ValidationError{Field: "status", Msg: "must be one of: active, inactive"}
		}
		project.Status = status
	}
	if err := s.Projects.Update(ctx, id, project.Name, project.Status); err != nil {
		return nil, domain.InternalError{Msg: "project update failed", Err: err}
	}
	return project, nil
}

func (s ProjectService) get(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, domain.InternalError{Msg: "project lookup failed", Err: err}
	}
	if project == nil {
		return nil, domain.NotFoundError{Resource: "project"}
	}
	return project, nil
}
