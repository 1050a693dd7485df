package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter, writing the 400 response itself
// when the segment is not a positive integer.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name+" parameter", []FieldError{{Field: name, Message: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}
