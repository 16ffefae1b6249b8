package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/circuitbreaker"
	infraerrors "github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/errors"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

// Error codes.
const (
	codeValidation  = "VALIDATION_ERROR"
	codeNotFound    = "NOT_FOUND"
	codeUpstream    = "UPSTREAM_ERROR"
	codeUnavailable = "UPSTREAM_UNAVAILABLE"
	codeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}

// respondUpstreamError relays an upstream failure with the upstream status
// code when there is one.
func respondUpstreamError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Warn("Upstream request failed",
		logger.String("path", c.FullPath()),
		logger.Error(err),
	)

	if httpErr, ok := infraerrors.AsHTTPError(err); ok {
		message := httpErr.Message
		if message == "" {
			message = httpErr.Status
		}
		respondError(c, httpErr.StatusCode, codeUpstream, message)
		return
	}

	switch {
	case errors.Is(err, oncrawl.ErrNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, "Crawl not found")
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		respondError(c, http.StatusServiceUnavailable, codeUnavailable, "OnCrawl API temporarily unavailable")
	default:
		respondError(c, http.StatusInternalServerError, codeInternal, err.Error())
	}
}
