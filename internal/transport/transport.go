package transport

import (
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(h *SessionHandler, requestTimeout time.Duration) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/quick-edits", h.ListQuickEdits)
		api.GET("/edits", h.RecentEdits)
		api.POST("/sessions", h.CreateSession)

		// event stream is long-lived, keep it outside the request timeout
		api.GET("/sessions/:id/events", h.loadSession, h.Events)

		sessions := api.Group("/sessions/:id", middleware.Timeout(requestTimeout), h.loadSession)
		{
			sessions.GET("", h.GetSession)
			sessions.DELETE("", h.DeleteSession)

			sessions.POST("/upload", h.UploadImage)
			sessions.POST("/edit", h.RequestEdit)
			sessions.POST("/quick-edit/:key", h.QuickEdit)
			sessions.POST("/undo", h.Undo)
			sessions.POST("/redo", h.Redo)
			sessions.POST("/start-over", h.StartOver)
			sessions.DELETE("/error", h.DismissError)

			sessions.PUT("/tool", h.SetTool)
			sessions.GET("/mask", h.GetMask)
			sessions.DELETE("/mask", h.ClearMask)
			sessions.POST("/pointer", h.HandlePointer)

			sessions.POST("/zoom", h.Zoom)
			sessions.DELETE("/viewport", h.ResetViewport)

			sessions.GET("/image", h.GetImage)
			sessions.GET("/download", h.Download)
			sessions.GET("/edits", h.SessionEdits)
		}
	}

	return router
}
