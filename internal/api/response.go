package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// statusFor maps an error kind to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case apperr.ErrInvalidInput:
		return http.StatusBadRequest, "invalid_input"
	case apperr.ErrCycle:
		return http.StatusConflict, "cycle"
	case apperr.ErrConflict:
		return http.StatusConflict, "conflict"
	case apperr.ErrLocked:
		return http.StatusConflict, "locked"
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case apperr.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes the error envelope. Storage and unclassified failures
// are logged and their details withheld from the client.
func (s *Server) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{
		Message: "malformed request body: " + err.Error(),
		Code:    "invalid_request",
	}})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
