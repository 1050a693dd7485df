package handlers

import (
	"net/http"

	"finbase/internal/http/middleware"
	"finbase/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ProjectHandler struct {
	Service services.ProjectService
	Log     zerolog.Logger
}

// GET /api/v1/projects
func (h ProjectHandler) List(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var page Pagination
	if !BindQuery(c, &page) {
		return
	}

	projects, total, err := h.Service.List(c.Request.Context(), principal, page.Limit, page.Offset())
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	RespondList(c, projects, NewPageMeta(total, page.Page, page.Limit))
}

// GET /api/v1/admin/projects
func (h ProjectHandler) ListAll(c *gin.Context) {
	var page Pagination
	if !BindQuery(c, &page) {
		return
	}

	projects, total, err := h.Service.ListAll(c.Request.Context(), page.Limit, page.Offset())
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	RespondList(c, projects, NewPageMeta(total, page.Page, page.Limit))
}

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required,slug"`
}

// POST /api/v1/projects
func (h ProjectHandler) Create(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req createProjectRequest
	if !BindJSON(c, &req) {
		return
	}

	project, err := h.Service.Create(c.Request.Context(), principal, req.Name, req.Slug)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusCreated, project)
}

// GET /api/v1/projects/:id
func (h ProjectHandler) Get(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.Service.Get(c.Request.Context(), principal, id)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, project)
}

type updateProjectRequest struct {
	Name   string `json:"name"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// PATCH /api/v1/projects/:id
func (h ProjectHandler) Update(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if !BindJSON(c, &req) {
		return
	}

	project, err := h.Service.Update(c.Request.Context(), principal, id, req.Name, req.Status)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	Respond(c, http.StatusOK, project)
}
