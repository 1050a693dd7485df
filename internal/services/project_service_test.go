package services

import (
	"context"
	"testing"
	"time"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestIsSlug(t *testing.T) {
	valid := []string{"acme", "acme-corp", "a", "a1-b2-c3", "0-0"}
	for _, s := range valid {
		if !IsSlug(s) {
			t.Fatalf("expected %q to be a valid slug", s)
		}
	}

	invalid := []string{"", "ACME", "acme!", "acme corp", "-acme", "acme-", "acme--corp", "aç", "acme_corp"}
	for _, s := range invalid {
		if IsSlug(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestCreateProjectRejectsBadSlug(t *testing.T) {
	svc := ProjectService{}
	principal := auth.Principal{UserID: 4, Role: models.RoleUser, IsActive: true}

	_, err := svc.Create(context.Background(), principal, "Acme", "ACME!")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProjectSlugConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(.+) FROM projects").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := ProjectService{Projects: repositories.ProjectRepository{DB: db}}
	principal := auth.Principal{UserID: 4, Role: models.RoleUser, IsActive: true}

	_, err = svc.Create(context.Background(), principal, "Acme", "acme")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict for taken slug, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetProjectForbiddenForNonMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "owner_id", "created_at", "updated_at"}).
			AddRow(7, "Acme", "acme", "active", 9, now, now))
	mock.ExpectQuery("SELECT COUNT(.+) FROM").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	projects := repositories.ProjectRepository{DB: db}
	svc := ProjectService{Projects: projects, Access: Access{Projects: projects}}
	outsider := auth.Principal{UserID: 4, Role: models.RoleUser, IsActive: true}

	_, err = svc.Get(context.Background(), outsider, 7)
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
}
