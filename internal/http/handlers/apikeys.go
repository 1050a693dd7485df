package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type APIKeyHandler struct {
	Service services.APIKeyService
	Log     zerolog.Logger
}

type issueKeyRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/v1/projects/:id/keys
func (h APIKeyHandler) Issue(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req issueKeyRequest
	if !BindJSON(c, &req) {
		return
	}

	issued, err := h.Service.Issue(c.Request.Context(), principal, projectID, req.Name)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, issued)
}

// GET /api/v1/projects/:id/keys
func (h APIKeyHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	keys, err := h.Service.List(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}

	type maskedKey struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Key       string `json:"key"`
		Revoked   bool   `json:"revoked"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]maskedKey, 0, len(keys))
	for _, k := range keys {
		out = append(out, maskedKey{
			ID:        k.ID,
			Name:      k.Name,
			Key:       k.Masked(),
			Revoked:   k.RevokedAt != nil,
			CreatedAt: k.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	Respond(c, http.StatusOK, out)
}

// DELETE /api/v1/projects/:id/keys/:keyID
func (h APIKeyHandler) Revoke(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	keyID, ok := pathID(c, "keyID")
	if !ok {
		return
	}

	if err := h.Service.Revoke(c.Request.Context(), principal, projectID, keyID); err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"revoked": true})
}
