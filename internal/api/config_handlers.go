package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/logger"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/oncrawl"
	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/projects"
)

const statusUnknown = "unknown"

// ConfigResponse describes the configured projects.
type ConfigResponse struct {
	ActiveProject     string                      `json:"active_project"`
	ActiveCrawlID     string                      `json:"active_crawl_id,omitempty"`
	ActiveProjectName string                      `json:"active_project_name,omitempty"`
	AvailableProjects map[string]projects.Project `json:"available_projects"`
	ExcludedDomains   []string                    `json:"excluded_domains"`
}

// SwitchProjectResponse reports a project selection and whether its crawl
// data can be queried.
type SwitchProjectResponse struct {
	Success        bool   `json:"success"`
	ActiveProject  string `json:"active_project"`
	ProjectName    string `json:"project_name"`
	CrawlID        string `json:"crawl_id"`
	CrawlStatus    string `json:"crawl_status"`
	DataAccessible bool   `json:"data_accessible"`
	Message        string `json:"message"`
}

// CrawlStatus is the state of one configured project's crawl.
type CrawlStatus struct {
	ProjectKey     string `json:"project_key"`
	ProjectName    string `json:"project_name"`
	CrawlID        string `json:"crawl_id"`
	Status         string `json:"status"`
	LinkStatus     string `json:"link_status"`
	DataAccessible bool   `json:"data_accessible"`
	FetchedURLs    int    `json:"fetched_urls"`
}

// CrawlStatusResponse lists every configured project's crawl state.
type CrawlStatusResponse struct {
	ActiveProject string        `json:"active_project"`
	Crawls        []CrawlStatus `json:"crawls"`
}

// GetConfig handles GET /api/v1/config.
func (h *Handler) GetConfig(c *gin.Context) {
	resp := ConfigResponse{
		AvailableProjects: h.projects.Projects(),
		ExcludedDomains:   h.projects.ExcludedDomains(),
	}
	if active, ok := h.projects.Active(); ok {
		resp.ActiveProject = active.Key
		resp.ActiveCrawlID = active.Project.CrawlID
		resp.ActiveProjectName = active.Project.Name
	}
	if resp.ExcludedDomains == nil {
		resp.ExcludedDomains = []string{}
	}

	c.JSON(http.StatusOK, resp)
}

// SwitchProject handles POST /api/v1/config/switch-project/:key. The
// selection is returned to the caller, who passes ?project= on later
// requests; server state is unchanged.
func (h *Handler) SwitchProject(c *gin.Context) {
	sel, err := h.projects.Switch(c.Param("key"))
	if err != nil {
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	status, accessible := statusUnknown, false
	if crawl := h.crawlDetails(c.Request.Context(), sel.Project.CrawlID); crawl != nil {
		status = orUnknown(crawl.Status)
		accessible = crawl.IsLive() && (crawl.Status == oncrawl.StatusDone || crawl.Status == oncrawl.StatusRunning)
	}

	message := "Switched to " + sel.Project.Name
	if !accessible {
		message += " (Note: Data may not be accessible yet)"
	}

	c.JSON(http.StatusOK, SwitchProjectResponse{
		Success:        true,
		ActiveProject:  sel.Key,
		ProjectName:    sel.Project.Name,
		CrawlID:        sel.Project.CrawlID,
		CrawlStatus:    status,
		DataAccessible: accessible,
		Message:        message,
	})
}

// CheckCrawlStatus handles GET /api/v1/config/check-crawl-status.
func (h *Handler) CheckCrawlStatus(c *gin.Context) {
	ctx := c.Request.Context()
	all := h.projects.Projects()

	crawls := make([]CrawlStatus, 0, len(all))
	for _, key := range h.projects.Keys() {
		p := all[key]
		st := CrawlStatus{
			ProjectKey:  key,
			ProjectName: p.Name,
			CrawlID:     p.CrawlID,
			Status:      statusUnknown,
			LinkStatus:  statusUnknown,
		}
		if crawl := h.crawlDetails(ctx, p.CrawlID); crawl != nil {
			st.Status = orUnknown(crawl.Status)
			st.LinkStatus = orUnknown(crawl.LinkStatus)
			st.FetchedURLs = crawl.FetchedURLs
			st.DataAccessible = crawl.IsLive() && crawl.Status == oncrawl.StatusDone
		}
		crawls = append(crawls, st)
	}

	resp := CrawlStatusResponse{Crawls: crawls}
	if active, ok := h.projects.Active(); ok {
		resp.ActiveProject = active.Key
	}

	c.JSON(http.StatusOK, resp)
}

// crawlDetails returns nil when the crawl cannot be read.
func (h *Handler) crawlDetails(ctx context.Context, crawlID string) *oncrawl.Crawl {
	crawl, err := h.client.Crawl(ctx, crawlID)
	if err != nil {
		logger.FromContext(ctx).Warn("Crawl details unavailable",
			logger.CrawlID(crawlID),
			logger.Error(err),
		)
		return nil
	}
	return crawl
}

func orUnknown(s string) string {
	if s == "" {
		return statusUnknown
	}
	return s
}
