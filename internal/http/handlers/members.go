package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type MemberHandler struct {
	Service services.MemberService
	Log     zerolog.Logger
}

// GET /api/v1/projects/:id/members
func (h MemberHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.Service.List(c.Request.Context(), principal, projectID)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, members)
}

type addMemberRequest struct {
	UserID int64  `json:"user_id" binding:"required,gt=0"`
	Role   string `json:"role" binding:"required,oneof=user admin"`
}

// POST /api/v1/projects/:id/members
func (h MemberHandler) Add(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if !BindJSON(c, &req) {
		return
	}

	member, err := h.Service.Add(c.Request.Context(), principal, projectID, req.UserID, req.Role)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, member)
}

// DELETE /api/v1/projects/:id/members/:userID
func (h MemberHandler) Remove(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	if err := h.Service.Remove(c.Request.Context(), principal, projectID, userID); err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, gin.H{"removed": true})
}
