package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type WalletHandler struct {
	Service services.WalletService
	Log     zerolog.Logger
}

type provisionWalletRequest struct {
	Chain string `json:"chain" binding:"required,oneof=neo ethereum polygon"`
}

// POST /api/v1/projects/:id/wallets
func (h WalletHandler) Provision(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req provisionWalletRequest
	if !BindJSON(c, &req) {
		return
	}

	wallet, err := h.Service.Provision(c.Request.Context(), principal, projectID, req.Chain)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, wallet)
}

// GET /api/v1/projects/:id/wallets
func (h WalletHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	wallets, err := h.Service.List(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, wallets)
}

// GET /api/v1/projects/:id/wallets/:walletID/balance
func (h WalletHandler) Balance(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	walletID, ok := pathID(c, "walletID")
	if !ok {
		return
	}

	balances, err := h.Service.Balances(c.Request.Context(), principal, projectID, walletID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"balances": balances})
}
