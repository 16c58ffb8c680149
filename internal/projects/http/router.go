package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. The group
// must run the workspace middleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.save)
	rg.POST("/refresh", h.refresh)
	rg.POST("/export", h.exportDraft)
	rg.POST("/import", h.importFile)
	rg.GET("/:id", h.load)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.GET("/:id/export", h.export)
}
