package auth

import (
	"context"
	"errors"

	"finbase/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user inactive")
)

// Principal is the resolved caller identity for one request. It is built
// fresh per request and never cached.
type Principal struct {
	UserID    int64
	Role      string
	IsActive  bool
	ProjectID int64
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// UserStore is the persisted-user lookup the resolver consults.
// A nil record with nil error means not found.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Resolver turns verified claims into a Principal. Role and active status
// come from the persisted record; the tenant scope is carried from the
// token, which is a convenience and not a trust boundary override.
type Resolver struct {
	Users UserStore
}

func (r Resolver) Resolve(ctx context.Context, claims Claims) (Principal, error) {
	user, err := r.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		return Principal{}, err
	}
	if user == nil {
		return Principal{}, ErrUserNotFound
	}
	if !user.IsActive() {
		return Principal{}, ErrUserInactive
	}
	return Principal{
		UserID:    user.ID,
		Role:      user.Role,
		IsActive:  true,
		ProjectID: claims.ProjectID,
	}, nil
}
