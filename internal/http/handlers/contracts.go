package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ContractHandler struct {
	Service services.ContractService
	Log     zerolog.Logger
}

type registerContractRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Network string `json:"network" binding:"omitempty,oneof=mainnet testnet"`
}

// POST /api/v1/projects/:id/contracts
func (h ContractHandler) Register(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req registerContractRequest
	if !BindJSON(c, &req) {
		return
	}
	if req.Network == "" {
		req.Network = "mainnet"
	}

	contract, err := h.Service.Register(c.Request.Context(), principal, projectID, req.Name, req.Address, req.Network)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, contract)
}

// GET /api/v1/projects/:id/contracts
func (h ContractHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	contracts, err := h.Service.List(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, contracts)
}

// GET /api/v1/projects/:id/contracts/:contractID/state
func (h ContractHandler) State(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	contractID, ok := pathID(c, "contractID")
	if !ok {
		return
	}

	state, err := h.Service.State(c.Request.Context(), principal, projectID, contractID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, state)
}

type readContractRequest struct {
	Method string `json:"method" binding:"required"`
	Args   []any  `json:"args"`
}

// POST /api/v1/projects/:id/contracts/:contractID/read
func (h ContractHandler) Read(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	contractID, ok := pathID(c, "contractID")
	if !ok {
		return
	}

	var req readContractRequest
	if !BindJSON(c, &req) {
		return
	}

	result, err := h.Service.Read(c.Request.Context(), principal, projectID, contractID, req.Method, req.Args)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, result)
}
