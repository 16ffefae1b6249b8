package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/internal/telemetry"
)

// SetupServiceRoutes configures service-specific routes. Health routes are
// registered by the infrastructure gin package; api is the /api/v1 group.
func SetupServiceRoutes(router *gin.Engine, api *gin.RouterGroup, handler *Handler, tp *telemetry.Provider) {
	router.GET("/metrics", gin.WrapH(tp.Handler()))

	cfg := api.Group("/config")
	{
		cfg.GET("", handler.GetConfig)
		cfg.POST("/switch-project/:key", handler.SwitchProject)
		cfg.GET("/check-crawl-status", handler.CheckCrawlStatus)
	}

	oc := api.Group("/oncrawl")
	{
		oc.GET("/test", handler.TestConnection)
		oc.GET("/projects", handler.Projects)
		oc.GET("/crawls/live", handler.LiveCrawls)

		crawl := oc.Group("/crawl/:id")
		crawl.GET("", handler.Crawl)
		crawl.GET("/summary", handler.Summary)
		crawl.GET("/fields", handler.PageFields)
		crawl.GET("/pages", handler.Pages)
		crawl.GET("/orphaned", handler.Orphaned)
		crawl.GET("/low-inlinks", handler.LowInlinks)
		crawl.GET("/deep-pages", handler.DeepPages)
		crawl.GET("/inlinks-distribution", handler.InlinksDistribution)
		crawl.GET("/depth-distribution", handler.DepthDistribution)
		crawl.GET("/links", handler.Links)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/priority-pages", handler.PriorityPages)
		dashboard.GET("/metrics", handler.DashboardMetrics)
	}
}
