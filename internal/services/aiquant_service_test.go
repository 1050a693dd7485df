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

func aiquantServiceFor(t *testing.T) (AIQuantService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := AIQuantService{
		Orders:   repositories.OrderRepository{DB: db},
		Projects: repositories.ProjectRepository{DB: db},
		Access:   Access{Projects: repositories.ProjectRepository{DB: db}},
	}
	return svc, mock, func() { db.Close() }
}

func expectProjectRow(mock sqlmock.Sqlmock, projectID int64) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = ?").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "owner_id", "created_at", "updated_at"}).
			AddRow(projectID, "Acme", "acme", "active", 9, now, now))
}

func expectOrderRow(mock sqlmock.Sqlmock, orderID, projectID int64, status string) {
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM aiquant_orders WHERE id = ?").
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "pair", "side", "amount", "status", "created_at", "updated_at"}).
			AddRow(orderID, projectID, "EUR/USD", models.SideBuy, 1000, status, now, now))
}

func TestPauseOrder(t *testing.T) {
	svc, mock, closeDB := aiquantServiceFor(t)
	defer closeDB()

	expectProjectRow(mock, 7)
	expectOrderRow(mock, 3, 7, models.OrderActive)
	mock.ExpectExec("UPDATE aiquant_orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := auth.Principal{UserID: 9, Role: models.RoleAdmin, IsActive: true}
	order, err := svc.PauseOrder(context.Background(), admin, 7, 3)
	if err != nil {
		t.Fatalf("pause error: %v", err)
	}
	if order.Status != models.OrderPaused {
		t.Fatalf("status = %q, want %q", order.Status, models.OrderPaused)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPauseOrderAlreadyPaused(t *testing.T) {
	svc, mock, closeDB := aiquantServiceFor(t)
	defer closeDB()

	expectProjectRow(mock, 7)
	expectOrderRow(mock, 3, 7, models.OrderPaused)

	admin := auth.Principal{UserID: 9, Role: models.RoleAdmin, IsActive: true}
	_, err := svc.PauseOrder(context.Background(), admin, 7, 3)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict pausing a paused order, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestResumeOrderClosedIsConflict(t *testing.T) {
	svc, mock, closeDB := aiquantServiceFor(t)
	defer closeDB()

	expectProjectRow(mock, 7)
	expectOrderRow(mock, 3, 7, models.OrderClosed)

	admin := auth.Principal{UserID: 9, Role: models.RoleAdmin, IsActive: true}
	_, err := svc.ResumeOrder(context.Background(), admin, 7, 3)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict resuming a closed order, got %v", err)
	}
}

func TestPauseOrderForeignProjectIsNotFound(t *testing.T) {
	svc, mock, closeDB := aiquantServiceFor(t)
	defer closeDB()

	expectProjectRow(mock, 7)
	expectOrderRow(mock, 3, 8, models.OrderActive)

	admin := auth.Principal{UserID: 9, Role: models.RoleAdmin, IsActive: true}
	_, err := svc.PauseOrder(context.Background(), admin, 7, 3)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found for order in another project, got %v", err)
	}
}

func TestCreateOrderRejectsBadSide(t *testing.T) {
	svc, mock, closeDB := aiquantServiceFor(t)
	defer closeDB()

	expectProjectRow(mock, 7)

	admin := auth.Principal{UserID: 9, Role: models.RoleAdmin, IsActive: true}
	_, err := svc.CreateOrder(context.Background(), admin, 7, "EUR/USD", "short", 1000)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for side, got %v", err)
	}
}
