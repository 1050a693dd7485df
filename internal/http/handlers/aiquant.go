package handlers

import (
	"context"
	"net/http"

	"finbase/internal/auth"
	"finbase/internal/domain/models"
	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AIQuantHandler struct {
	Service services.AIQuantService
	Log     zerolog.Logger
}

type createOrderRequest struct {
	Pair   string `json:"pair" binding:"required"`
	Side   string `json:"side" binding:"required,oneof=buy sell"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// POST /api/v1/projects/:id/aiquant/orders
func (h AIQuantHandler) CreateOrder(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req createOrderRequest
	if !BindJSON(c, &req) {
		return
	}

	order, err := h.Service.CreateOrder(c.Request.Context(), principal, projectID, req.Pair, req.Side, req.Amount)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, order)
}

// GET /api/v1/projects/:id/aiquant/orders
func (h AIQuantHandler) ListOrders(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var page Pagination
	if !BindQuery(c, &page) {
		return
	}

	orders, total, err := h.Service.ListOrders(c.Request.Context(), principal, projectID, page.Limit, page.Offset())
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	RespondList(c, orders, NewPageMeta(total, page.Page, page.Limit))
}

// POST /api/v1/projects/:id/aiquant/orders/:orderID/pause
func (h AIQuantHandler) PauseOrder(c *gin.Context) {
	h.transition(c, h.Service.PauseOrder)
}

// POST /api/v1/projects/:id/aiquant/orders/:orderID/resume
func (h AIQuantHandler) ResumeOrder(c *gin.Context) {
	h.transition(c, h.Service.ResumeOrder)
}

type orderTransition func(ctx context.Context, principal auth.Principal, projectID, orderID int64) (*models.Order, error)

func (h AIQuantHandler) transition(c *gin.Context, op orderTransition) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	order, err := op(c.Request.Context(), principal, projectID, orderID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, order)
}

// GET /api/v1/projects/:id/aiquant/portfolio
func (h AIQuantHandler) Portfolio(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	positions, err := h.Service.Portfolio(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"positions": positions})
}

// GET /api/v1/projects/:id/aiquant/portfolio/statement
func (h AIQuantHandler) Statement(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, filename, err := h.Service.Statement(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", out)
}
