package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandstorm-backend/internal/platform/apierr"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps *apierr.Error to its status. Anything else is
// logged and reported as a 500 without leaking the cause.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	if log != nil {
		log.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal server error"))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
