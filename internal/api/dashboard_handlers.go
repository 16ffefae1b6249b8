package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/domain"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/service"
)

// PriorityPages handles GET /api/v1/dashboard/priority-pages.
func (h *Handler) PriorityPages(c *gin.Context) {
	crawlID, ok := h.requestCrawlID(c)
	if !ok {
		return
	}

	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		respondError(c, http.StatusBadRequest, codeValidation, "limit must be an integer")
		return
	}
	// An absent limit takes the default; an explicit one must be positive.
	if c.Query("limit") != "" && limit < 1 {
		respondError(c, http.StatusBadRequest, codeValidation, "limit must be at least 1")
		return
	}

	req := &domain.PriorityRequest{
		CrawlID:  crawlID,
		Market:   c.Query("market"),
		Category: c.Query("category"),
		Limit:    limit,
	}

	resp, err := h.priority.GetPriorityPages(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DashboardMetrics handles GET /api/v1/dashboard/metrics.
func (h *Handler) DashboardMetrics(c *gin.Context) {
	crawlID, ok := h.requestCrawlID(c)
	if !ok {
		return
	}

	m, err := h.metrics.DashboardMetrics(c.Request.Context(), crawlID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// requestCrawlID returns ?crawl_id=, or the crawl of ?project= when only a
// project key is given. Empty means resolve the first live crawl.
func (h *Handler) requestCrawlID(c *gin.Context) (string, bool) {
	if crawlID := c.Query("crawl_id"); crawlID != "" {
		return crawlID, true
	}

	key := c.Query("project")
	if key == "" {
		return "", true
	}

	sel, err := h.projects.Switch(key)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return "", false
	}
	return sel.Project.CrawlID, true
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoLiveCrawl):
		respondError(c, http.StatusNotFound, codeNotFound, "No live crawls available")
	case errors.Is(err, domain.ErrInvalidLimit):
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
	default:
		h.logger.Error("Dashboard request failed",
			logger.String("path", c.FullPath()),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, codeInternal, err.Error())
	}
}
