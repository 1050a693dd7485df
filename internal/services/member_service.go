package services

import (
	"context"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"
)

type MemberService struct {
	Members repositories.MemberRepository
	Users   repositories.UserRepository
	Access  Access
}

func (s MemberService) List(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Member, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	members, err := s.Members.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "member listing failed", Err: err}
	}
	return members, nil
}

func (s MemberService) Add(ctx context.Context, principal auth.Principal, projectID, userID int64, role string) (*models.Member, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, domain.ValidationError{Field: "role", Msg: "must be one of: user, admin"}
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "user lookup failed", Err: err}
	}
	if user == nil {
		return nil, domain.NotFoundError{Resource: "user"}
	}

	exists, err := s.Members.Exists(ctx, projectID, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "member check failed", Err: err}
	}
	if exists {
		return nil, domain.ConflictError{Resource: "member", Msg: "user already in project"}
	}

	id, err := s.Members.Add(ctx, projectID, userID, role)
	if err != nil {
		return nil, domain.InternalError{Msg: "member add failed", Err: err}
	}
	return &models.Member{ID: id, ProjectID: projectID, UserID: userID, Role: role}, nil
}

func (s MemberService) Remove(ctx context.Context, principal auth.Principal, projectID, userID int64) error {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return err
	}
	exists, err := s.Members.Exists(ctx, projectID, userID)
	if err != nil {
		return domain.InternalError{Msg: "member check failed", Err: err}
	}
	if !exists {
		return domain.NotFoundError{Resource: "member"}
	}
	if err := s.Members.Remove(ctx, projectID, userID); err != nil {
		return domain.InternalError{Msg: "member remove failed", Err: err}
	}
	return nil
}
