package auth

import (
	"context"
	"testing"

	"finbase/internal/domain/models"
)

type stubUserStore struct {
	user  *models.User
	err   error
	calls int
}

func (s *stubUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.calls++
	return s.user, s.err
}

func TestResolveUnknownUser(t *testing.T) {
	r := Resolver{Users: &stubUserStore{}}
	if _, err := r.Resolve(context.Background(), Claims{UserID: 9}); err != ErrUserNotFound {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestResolveInactiveUser(t *testing.T) {
	store := &stubUserStore{user: &models.User{ID: 9, Role: models.RoleUser, Status: models.StatusInactive}}
	r := Resolver{Users: store}
	if _, err := r.Resolve(context.Background(), Claims{UserID: 9}); err != ErrUserInactive {
		t.Fatalf("got %v, want ErrUserInactive", err)
	}
}

func TestResolveRoleComesFromRecord(t *testing.T) {
	// Token claims admin, persisted record says user: record wins.
	store := &stubUserStore{user: &models.User{ID: 9, Role: models.RoleUser, Status: models.StatusActive}}
	r := Resolver{Users: store}

	p, err := r.Resolve(context.Background(), Claims{UserID: 9, Role: models.RoleAdmin, ProjectID: 3})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Role != models.RoleUser {
		t.Fatalf("role %q taken from token, want persisted role", p.Role)
	}
	if p.ProjectID != 3 {
		t.Fatalf("project scope should carry from token, got %d", p.ProjectID)
	}
	if !p.IsActive || p.IsAdmin() {
		t.Fatalf("unexpected principal: %+v", p)
	}
}
