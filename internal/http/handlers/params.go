package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandstorm-backend/internal/http/response"
	"github.com/yungbote/brandstorm-backend/internal/platform/apierr"
)

// suggestionID parses the :id path param, writing a 400 when it is not a
// positive integer.
func suggestionID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeValidation, errors.New("invalid suggestion id"))
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dst, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
