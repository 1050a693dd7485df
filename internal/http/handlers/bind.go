package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one per-field violation in a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination is the shared query value object for list endpoints.
type Pagination struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order,default=asc" binding:"omitempty,oneof=asc desc"`
}

// Offset converts page/limit into a row offset.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// BindQuery parses and shape-checks query parameters into dst. On failure it
// writes the 400 response with the full field-error list and returns false.
func BindQuery[T any](c *gin.Context, dst *T) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		fields, ok := fieldErrors(err)
		if !ok {
			BadRequest(c, "invalid query parameters", nil)
			return false
		}
		RespondError(c, 400, "validation_error", "invalid query parameters", fields)
		return false
	}
	return true
}

// BindJSON parses the body into dst. A non-parseable body yields
// malformed_body; shape violations yield validation_error with every
// collected field error.
func BindJSON[T any](c *gin.Context, dst *T) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	fields, ok := fieldErrors(err)
	if ok {
		RespondError(c, 400, "validation_error", "invalid request body", fields)
		return false
	}
	RespondError(c, 400, "malformed_body", "request body is not valid JSON", nil)
	return false
}

// fieldErrors flattens validator and JSON type errors into FieldError slices.
// A false return means the input never parsed at all.
func fieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: violationMessage(fe),
			})
		}
		return out, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}, true
	}

	if errors.Is(err, io.EOF) {
		return nil, false
	}
	return nil, false
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "lowercase":
		return "must be lowercase"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
