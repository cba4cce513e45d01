package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router wires handlers onto the gin engine.
type Router struct {
	Engine *gin.Engine
}

// NewRouter builds the route table.
func NewRouter(h *WorksheetHandler, log *zap.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLog(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/worksheets", h.Generate)
		api.GET("/worksheets/:id", h.Get)
		api.GET("/users/:userId/worksheets", h.ListByUser)
	}

	return &Router{Engine: r}
}
