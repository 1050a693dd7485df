package services

import (
	"context"
	"strings"
	"time"

	"finbase/internal/auth"
	"finbase/internal/domain"
	"finbase/internal/domain/models"
	"finbase/internal/repositories"
)

type ForexService struct {
	Pools       repositories.PoolRepository
	Investments repositories.InvestmentRepository
	Access      Access
	Now         func() time.Time
}

func (s ForexService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s ForexService) ListPools(ctx context.Context) ([]models.Pool, error) {
	pools, err := s.Pools.List(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "pool listing failed", Err: err}
	}
	return pools, nil
}

// CreatePool registers a new liquidity pool. Admin only; the handler guards
// the route, this re-checks to keep the rule close to the data.
func (s ForexService) CreatePool(ctx context.Context, principal auth.Principal, code, pair string, unitPrice int64, lockDays int) (*models.Pool, error) {
	if !principal.IsAdmin() {
		return nil, domain.ForbiddenError{Msg: "admin role required"}
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ValidationError{Field: "code", Msg: "is required"}
	}
	if unitPrice <= 0 {
		return nil, domain.ValidationError{Field: "unit_price", Msg: "must be greater than 0"}
	}
	if lockDays < 0 {
		return nil, domain.ValidationError{Field: "lock_days", Msg: "must be at least 0"}
	}

	taken, err := s.Pools.CodeExists(ctx, code)
	if err != nil {
		return nil, domain.InternalError{Msg: "pool check failed", Err: err}
	}
	if taken {
		return nil, domain.ConflictError{Resource: "pool", Msg: "code already in use"}
	}

	id, err := s.Pools.Create(ctx, code, pair, unitPrice, lockDays)
	if err != nil {
		return nil, domain.InternalError{Msg: "pool create failed", Err: err}
	}
	pool, err := s.Pools.FindByID(ctx, id)
	if err != nil || pool == nil {
		return nil, domain.InternalError{Msg: "pool readback failed", Err: err}
	}
	return pool, nil
}

// Invest stakes units into a pool on behalf of the principal's project.
func (s ForexService) Invest(ctx context.Context, principal auth.Principal, poolID, projectID, units int64) (*models.Investment, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, domain.ValidationError{Field: "units", Msg: "must be greater than 0"}
	}
	pool, err := s.Pools.FindByID(ctx, poolID)
	if err != nil {
		return nil, domain.InternalError{Msg: "pool lookup failed", Err: err}
	}
	if pool == nil {
		return nil, domain.NotFoundError{Resource: "pool"}
	}

	id, err := s.Investments.Create(ctx, poolID, projectID, units)
	if err != nil {
		return nil, domain.InternalError{Msg: "investment create failed", Err: err}
	}
	if err := s.Pools.AddUnits(ctx, poolID, units); err != nil {
		return nil, domain.InternalError{Msg: "pool unit update failed", Err: err}
	}

	inv, err := s.Investments.FindByID(ctx, id)
	if err != nil || inv == nil {
		return nil, domain.InternalError{Msg: "investment readback failed", Err: err}
	}
	return inv, nil
}

func (s ForexService) ListInvestments(ctx context.Context, principal auth.Principal, projectID int64) ([]models.Investment, error) {
	if err := s.Access.Authorize(ctx, principal, projectID); err != nil {
		return nil, err
	}
	investments, err := s.Investments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, domain.InternalError{Msg: "investment listing failed", Err: err}
	}
	return investments, nil
}

// RedeemInvestment returns an investment's stake to the project once the
// pool's lock-up window has elapsed.
func (s ForexService) RedeemInvestment(ctx context.Context, principal auth.Principal, investmentID int64) (*models.Investment, error) {
	inv, err := s.Investments.FindByID(ctx, investmentID)
	if err != nil {
		return nil, domain.InternalError{Msg: "investment lookup failed", Err: err}
	}
	if inv == nil {
		return nil, domain.NotFoundError{Resource: "investment"}
	}
	if err := s.Access.Authorize(ctx, principal, inv.ProjectID); err != nil {
		return nil, err
	}
	pool, err := s.Pools.FindByID(ctx, inv.PoolID)
	if err != nil || pool == nil {
		return nil, domain.InternalError{Msg: "pool lookup failed", Err: err}
	}

	if reason := RedemptionBlock(*inv, *pool, s.now()); reason != "" {
		return nil, domain.ConflictError{Resource: "investment", Msg: reason}
	}

	if err := s.Investments.MarkRedeemed(ctx, investmentID); err != nil {
		return nil, domain.InternalError{Msg: "redemption failed", Err: err}
	}
	if err := s.Pools.AddUnits(ctx, inv.PoolID, -inv.Units); err != nil {
		return nil, domain.InternalError{Msg: "pool unit update failed", Err: err}
	}

	out, err := s.Investments.FindByID(ctx, investmentID)
	if err != nil || out == nil {
		return nil, domain.InternalError{Msg: "investment readback failed", Err: err}
	}
	return out, nil
}

// AllocatePoolTrade splits a trade result across a pool's active
// investments. Admin only; investors see the outcome on their statements.
func (s ForexService) AllocatePoolTrade(ctx context.Context, principal auth.Principal, poolID, amount int64) ([]models.Allocation, error) {
	if !principal.IsAdmin() {
		return nil, domain.ForbiddenError{Msg: "admin role required"}
	}
	pool, err := s.Pools.FindByID(ctx, poolID)
	if err != nil {
		return nil, domain.InternalError{Msg: "pool lookup failed", Err: err}
	}
	if pool == nil {
		return nil, domain.NotFoundError{Resource: "pool"}
	}
	investments, err := s.Investments.ListActiveByPool(ctx, poolID)
	if err != nil {
		return nil, domain.InternalError{Msg: "investment listing failed", Err: err}
	}
	if len(investments) == 0 {
		return nil, domain.ConflictError{Resource: "pool", Msg: "no active investments"}
	}
	return AllocateTrade(amount, investments), nil
}

// RedemptionBlock returns the reason an investment cannot be redeemed yet,
// or "" when it is eligible.
func RedemptionBlock(inv models.Investment, pool models.Pool, now time.Time) string {
	if inv.Status != models.InvestmentActive {
		return "already redeemed"
	}
	unlockAt := inv.InvestedAt.AddDate(0, 0, pool.LockDays)
	if now.Before(unlockAt) {
		return "still inside lock-up period"
	}
	return ""
}

// AllocateTrade splits a pooled trade result pro-rata by units across the
// active investments. Remainder minor units go to the largest holder so the
// sum of allocations always equals the input amount. Investments must be
// ordered largest first, as ListActiveByPool returns them.
func AllocateTrade(amount int64, investments []models.Investment) []models.Allocation {
	var totalUnits int64
	for _, inv := range investments {
		totalUnits += inv.Units
	}
	if totalUnits == 0 || len(investments) == 0 {
		return []models.Allocation{}
	}

	out := make([]models.Allocation, 0, len(investments))
	var allocated int64
	for _, inv := range investments {
		share := amount * inv.Units / totalUnits
		out = append(out, models.Allocation{InvestmentID: inv.ID, Amount: share})
		allocated += share
	}
	out[0].Amount += amount - allocated
	return out
}
