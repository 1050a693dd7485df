package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type WebhookHandler struct {
	Service services.WebhookService
	Log     zerolog.Logger
}

type createWebhookRequest struct {
	URL   string `json:"url" binding:"required,url"`
	Event string `json:"event" binding:"required"`
}

// POST /api/v1/projects/:id/webhooks
func (h WebhookHandler) Create(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req createWebhookRequest
	if !BindJSON(c, &req) {
		return
	}

	hook, err := h.Service.Create(c.Request.Context(), principal, projectID, req.URL, req.Event)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, hook)
}

// GET /api/v1/projects/:id/webhooks
func (h WebhookHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	hooks, err := h.Service.List(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, hooks)
}

// DELETE /api/v1/projects/:id/webhooks/:hookID
func (h WebhookHandler) Delete(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	hookID, ok := pathID(c, "hookID")
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), principal, projectID, hookID); err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"deleted": true})
}
