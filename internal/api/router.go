package api

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine serving the /api routes. mode is a gin
// mode ("release", "debug" or "test").
func NewRouter(h *TableHandler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/uploads", h.ListUploads)

		energy := api.Group("/energy/:id")
		energy.GET("/table", h.GetTable)
		energy.GET("/clipboard", h.GetClipboard)
		energy.GET("/clipboard/:group", h.GetClipboardGroup)
		energy.GET("/export.xlsx", h.ExportXLSX)
	}

	return router
}
