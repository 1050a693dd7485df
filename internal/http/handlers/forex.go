package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ForexHandler struct {
	Service services.ForexService
	Log     zerolog.Logger
}

// GET /api/v1/forex/pools
func (h ForexHandler) ListPools(c *gin.Context) {
	pools, err := h.Service.ListPools(c.Request.Context())
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, pools)
}

type createPoolRequest struct {
	Code         string `json:"code" binding:"required"`
	CurrencyPair string `json:"currency_pair" binding:"required"`
	UnitPrice    int64  `json:"unit_price" binding:"required,gt=0"`
	LockDays     int    `json:"lock_days" binding:"gte=0"`
}

// POST /api/v1/forex/pools (admin)
func (h ForexHandler) CreatePool(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req createPoolRequest
	if !BindJSON(c, &req) {
		return
	}

	pool, err := h.Service.CreatePool(c.Request.Context(), principal, req.Code, req.CurrencyPair, req.UnitPrice, req.LockDays)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, pool)
}

type allocateRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// POST /api/v1/forex/pools/:id/allocate (admin)
func (h ForexHandler) Allocate(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	poolID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req allocateRequest
	if !BindJSON(c, &req) {
		return
	}

	allocations, err := h.Service.AllocatePoolTrade(c.Request.Context(), principal, poolID, req.Amount)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"allocations": allocations})
}

type investRequest struct {
	ProjectID int64 `json:"project_id" binding:"required,gt=0"`
	Units     int64 `json:"units" binding:"required,gt=0"`
}

// POST /api/v1/forex/pools/:id/invest
func (h ForexHandler) Invest(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	poolID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req investRequest
	if !BindJSON(c, &req) {
		return
	}

	inv, err := h.Service.Invest(c.Request.Context(), principal, poolID, req.ProjectID, req.Units)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, inv)
}

// GET /api/v1/projects/:id/forex/investments
func (h ForexHandler) ListInvestments(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	investments, err := h.Service.ListInvestments(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, investments)
}

// POST /api/v1/forex/investments/:id/redeem
func (h ForexHandler) Redeem(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	investmentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.Service.RedeemInvestment(c.Request.Context(), principal, investmentID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, inv)
}
