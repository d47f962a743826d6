package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/api/adapters", handlers.GetAdapters)
	router.GET("/api/adapters/:name", handlers.GetAdapter)
	router.POST("/api/adapters/:name/ipv4", RequireRole(roleOps), handlers.SetAdapterIPv4)
	router.POST("/api/adapters/:name/hwaddr", RequireRole(roleOps), handlers.SetAdapterHardwareAddr)
	router.GET("/api/stats", handlers.GetStats)
	router.GET("/api/traces", handlers.GetTraces)
	router.GET("/api/alerts", handlers.GetAlerts)
}
