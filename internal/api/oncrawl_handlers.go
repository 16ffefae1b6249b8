package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
)

const (
	defaultListLimit = 100
	defaultSortField = oncrawl.FieldInlinks
)

// TestConnection handles GET /api/v1/oncrawl/test.
func (h *Handler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.TestConnection(c.Request.Context()))
}

// Projects handles GET /api/v1/oncrawl/projects.
func (h *Handler) Projects(c *gin.Context) {
	list, err := h.client.Projects(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if list == nil {
		list = []oncrawl.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": list, "count": len(list)})
}

// LiveCrawls handles GET /api/v1/oncrawl/crawls/live.
func (h *Handler) LiveCrawls(c *gin.Context) {
	crawls, err := h.client.LiveCrawls(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if crawls == nil {
		crawls = []oncrawl.LiveCrawl{}
	}
	c.JSON(http.StatusOK, gin.H{"crawls": crawls, "count": len(crawls)})
}

// Crawl handles GET /api/v1/oncrawl/crawl/:id.
func (h *Handler) Crawl(c *gin.Context) {
	crawl, err := h.client.Crawl(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crawl": crawl})
}

// Summary handles GET /api/v1/oncrawl/crawl/:id/summary.
func (h *Handler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.TechnicalSummary(c.Request.Context(), c.Param("id")))
}

// PageFields handles GET /api/v1/oncrawl/crawl/:id/fields.
func (h *Handler) PageFields(c *gin.Context) {
	fields, err := h.client.PageFields(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// Pages handles GET /api/v1/oncrawl/crawl/:id/pages.
func (h *Handler) Pages(c *gin.Context) {
	limit, ok := h.listLimit(c)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok || offset < 0 {
		respondError(c, http.StatusBadRequest, codeValidation, "offset must be a non-negative integer")
		return
	}

	order := c.DefaultQuery("sort_order", oncrawl.SortAsc)
	if order != oncrawl.SortAsc && order != oncrawl.SortDesc {
		respondError(c, http.StatusBadRequest, codeValidation, "sort_order must be asc or desc")
		return
	}

	result, err := h.client.QueryPages(c.Request.Context(), c.Param("id"), oncrawl.PageQuery{
		Offset: offset,
		Limit:  limit,
		Fields: []string{
			oncrawl.FieldURL, oncrawl.FieldInlinks, oncrawl.FieldDepth,
			oncrawl.FieldStatusCode, oncrawl.FieldTitle, oncrawl.FieldWordCount,
		},
		OQL:  oncrawl.FetchedOK(),
		Sort: []oncrawl.SortSpec{{Field: c.DefaultQuery("sort_field", defaultSortField), Order: order}},
	})
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Orphaned handles GET /api/v1/oncrawl/crawl/:id/orphaned.
func (h *Handler) Orphaned(c *gin.Context) {
	limit, ok := h.listLimit(c)
	if !ok {
		return
	}
	h.respondPages(c)(h.classifier.Orphaned(c.Request.Context(), c.Param("id"), limit))
}

// LowInlinks handles GET /api/v1/oncrawl/crawl/:id/low-inlinks.
func (h *Handler) LowInlinks(c *gin.Context) {
	limit, ok := h.listLimit(c)
	if !ok {
		return
	}
	maxInlinks, ok := queryInt(c, "max_inlinks", h.classifier.Thresholds().MaxInlinks)
	if !ok || maxInlinks < 1 {
		respondError(c, http.StatusBadRequest, codeValidation, "max_inlinks must be a positive integer")
		return
	}
	h.respondPages(c)(h.classifier.LowInlinks(c.Request.Context(), c.Param("id"), maxInlinks, limit))
}

// DeepPages handles GET /api/v1/oncrawl/crawl/:id/deep-pages.
func (h *Handler) DeepPages(c *gin.Context) {
	limit, ok := h.listLimit(c)
	if !ok {
		return
	}
	minDepth, ok := queryInt(c, "min_depth", h.classifier.Thresholds().MinDepth)
	if !ok || minDepth < 1 {
		respondError(c, http.StatusBadRequest, codeValidation, "min_depth must be a positive integer")
		return
	}
	h.respondPages(c)(h.classifier.Deep(c.Request.Context(), c.Param("id"), minDepth, limit))
}

// InlinksDistribution handles GET /api/v1/oncrawl/crawl/:id/inlinks-distribution.
func (h *Handler) InlinksDistribution(c *gin.Context) {
	raw, err := h.classifier.InlinksDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// DepthDistribution handles GET /api/v1/oncrawl/crawl/:id/depth-distribution.
func (h *Handler) DepthDistribution(c *gin.Context) {
	raw, err := h.classifier.DepthDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// Links handles GET /api/v1/oncrawl/crawl/:id/links.
func (h *Handler) Links(c *gin.Context) {
	limit, ok := h.listLimit(c)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok || offset < 0 {
		respondError(c, http.StatusBadRequest, codeValidation, "offset must be a non-negative integer")
		return
	}

	raw, err := h.client.Links(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// listLimit reads ?limit= for the listing endpoints and writes a 400 when it
// is out of range.
func (h *Handler) listLimit(c *gin.Context) (int, bool) {
	limit, ok := queryInt(c, "limit", defaultListLimit)
	if !ok || limit < 1 || limit > h.maxPageLimit {
		respondError(c, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("limit must be between 1 and %d", h.maxPageLimit))
		return 0, false
	}
	return limit, true
}

func (h *Handler) respondPages(c *gin.Context) func(*oncrawl.PageResult, error) {
	return func(result *oncrawl.PageResult, err error) {
		if err != nil {
			respondUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
