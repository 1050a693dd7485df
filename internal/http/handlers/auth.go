package handlers

import (
	"net/http"
	"time"

	"finbase/internal/auth"
	"finbase/internal/domain/models"
	"finbase/internal/http/middleware"
	"finbase/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler owns login, registration and the identity echo endpoint.
type AuthHandler struct {
	Users    repositories.UserRepository
	Verifier auth.TokenVerifier
	TokenTTL time.Duration
	Log      zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/v1/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSON(c, &req) {
		return
	}

	user, hash, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	// Unknown account and wrong password produce the same refusal.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		Unauthorized(c, "email or password incorrect")
		return
	}
	if !user.IsActive() {
		Unauthorized(c, "account is inactive")
		return
	}

	token, err := h.Verifier.Issue(user.ID, user.Role, 0, h.TokenTTL)
	if err != nil {
		h.Log.Error().Err(err).Int64("user_id", user.ID).Msg("token signing failed")
		Internal(c)
		return
	}

	Respond(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/v1/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	exists, err := h.Users.EmailExists(ctx, req.Email)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}
	if exists {
		Conflict(c, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error().Err(err).Msg("password hashing failed")
		Internal(c)
		return
	}

	id, err := h.Users.Create(ctx, req.Name, req.Email, string(hash), models.RoleUser)
	if err != nil {
		RespondDomainError(c, h.Log, err)
		return
	}

	Respond(c, http.StatusCreated, gin.H{
		"id":    id,
		"name":  req.Name,
		"email": req.Email,
		"role":  models.RoleUser,
	})
}

// GET /api/v1/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		Unauthorized(c, "missing credentials")
		return
	}
	Respond(c, http.StatusOK, gin.H{
		"user_id":    principal.UserID,
		"role":       principal.Role,
		"project_id": principal.ProjectID,
	})
}
