package services

import (
	"context"
	"strings"
	"time"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/pdf"
	"finbase/internal/repositories"
)

type AIQuantService struct {
	Orders   repositories.OrderRepository
	Projects repositories.ProjectRepository
	Access   Access
}

func (s AIQuantService) CreateOrder(ctx context.Context, principal auth.Principal, projectID int64, pair, side string, amount int64) (*models.Order, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	pair = strings.ToUpper(strings.TrimSpace(pair))
	if pair == "" {
		return nil, domain.ValidationError{Field: "pair", Msg: "is required"}
	}
	if side != models.SideBuy && side != models.SideSell {
		return nil, domain.ValidationError{Field: "side", Msg: "must be one of: buy, sell"}
	}
	if amount <= 0 {
		return nil, domain.ValidationError{Field: "amount", Msg: "must be greater than 0"}
	}

	id, err := s.Orders.Create(ctx, projectID, pair, side, amount)
	if err != nil {
		return nil, domain.InternalError{Msg: "order create failed", Err: err}
	}
	return s.find(ctx, projectID, id)
}

func (s AIQuantService) ListOrders(ctx context.Context, principal auth.Principal, projectID int64, limit, offset int) ([]models.Order, int64, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, 0, err
	}
	orders, err := s.Orders.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "order listing failed", Err: err}
	}
	total, err := s.Orders.CountByProject(ctx, projectID)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "order count failed", Err: err}
	}
	return orders, total, nil
}

// PauseOrder suspends an active order. Pausing anything else is a conflict.
func (s AIQuantService) PauseOrder(ctx context.Context, principal auth.Principal, projectID, orderID int64) (*models.Order, error) {
	return s.transition(ctx, principal, projectID, orderID, models.OrderActive, models.OrderPaused)
}

// ResumeOrder reactivates a paused order.
func (s AIQuantService) ResumeOrder(ctx context.Context, principal auth.Principal, projectID, orderID int64) (*models.Order, error) {
	return s.transition(ctx, principal, projectID, orderID, models.OrderPaused, models.OrderActive)
}

func (s AIQuantService) transition(ctx context.Context, principal auth.Principal, projectID, orderID int64, from, to string) (*models.Order, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	order, err := s.find(ctx, projectID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, domain.ConflictError{
			Resource: "order",
			Msg:      "cannot move from " + order.Status + " to " + to,
		}
	}
	if err := s.Orders.UpdateStatus(ctx, orderID, to); err != nil {
		return nil, domain.InternalError{Msg: "order update failed", Err: err}
	}
	order.Status = to
	return order, nil
}

func (s AIQuantService) Portfolio(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Position, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	positions, err := s.Orders.PositionsByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "portfolio aggregation failed", Err: err}
	}
	return positions, nil
}

// Statement renders the portfolio as a downloadable PDF.
func (s AIQuantService) Statement(ctx context.Context, principal auth.Principal, projectID int64) ([]byte, string, error) {
	positions, err := s.Portfolio(ctx, principal, projectID)
	if err != nil {
		return nil, "", err
	}
	project, err := s.Projects.FindByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, "", domain.NotFoundError{Resource: "project"}
	}
	out, filename, err := pdf.Statement(*project, positions, time.Now())
	if err != nil {
		return nil, "", domain.InternalError{Msg: "statement render failed", Err: err}
	}
	return out, filename, nil
}

func (s AIQuantService) find(ctx context.Context, projectID, orderID int64) (*models.Order, error) {
	order, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, domain.InternalError{Msg: "order lookup failed", Err: err}
	}
	if order == nil || order.ProjectID != projectID {
		return nil, domain.NotFoundError{Resource: "order"}
	}
	return order, nil
}
