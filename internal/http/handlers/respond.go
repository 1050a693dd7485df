package handlers

import (
	"errors"
	"net/http"

	"finbase/internal/domain"
	"finbase/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PageMeta carries pagination metadata for list responses.
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPageMeta derives the meta block from a total row count.
func NewPageMeta(total int64, page, limit int) PageMeta {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  pages,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
}

// Respond writes the canonical success envelope.
func Respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// RespondList writes a success envelope with pagination meta.
func RespondList(c *gin.Context, data any, meta PageMeta) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// RespondError writes the canonical failure envelope. Status codes come only
// from the fixed table below, never chosen ad hoc at call sites.
func RespondError(c *gin.Context, status int, code, message string, details any) {
	payload := gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
		"request_id": middleware.GetRequestID(c),
	}
	if details != nil {
		payload["error"].(gin.H)["details"] = details
	}
	c.JSON(status, payload)
}

func BadRequest(c *gin.Context, message string, details any) {
	RespondError(c, http.StatusBadRequest, "bad_request", message, details)
}

func Unauthorized(c *gin.Context, message string) {
	RespondError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

func Forbidden(c *gin.Context, message string) {
	RespondError(c, http.StatusForbidden, "forbidden", message, nil)
}

func NotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, "not_found", message, nil)
}

func Conflict(c *gin.Context, message string) {
	RespondError(c, http.StatusConflict, "conflict", message, nil)
}

// Internal hides the real cause from the client; callers log it themselves.
func Internal(c *gin.Context) {
	RespondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
}

// RespondDomainError maps the domain error taxonomy onto the fixed status
// table. Unrecognized errors become a 500 with a generic message; the raw
// cause is logged server-side only.
func RespondDomainError(c *gin.Context, log zerolog.Logger, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		var details any
		if verr.Field != "" {
			details = []FieldError{{Field: verr.Field, Message: verr.Msg}}
		}
		RespondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsNotFound(err):
		NotFound(c, err.Error())
	case domain.IsConflict(err):
		Conflict(c, err.Error())
	case domain.IsForbidden(err):
		Forbidden(c, err.Error())
	default:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		Internal(c)
	}
}
