package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"square-mapper/logging"
)

// Controller registers a group of routes
type Controller interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Router builds the HTTP surface of the editor: the REST controllers
// under the base URL, the websocket endpoint and a health check.
type Router struct {
	addr        string
	baseURL     string
	controllers []Controller
	webSocket   http.Handler
}

// Config holds configuration settings for creating a new Router instance
type Config struct {
	Addr        string // Address to listen on
	BaseURL     string // Base URL for API routes
	Controllers []Controller
	WebSocket   http.Handler // served at /ws when set
}

// NewRouter creates a new Router instance with the given configuration
func NewRouter(config Config) *Router {
	return &Router{
		addr:        config.Addr,
		baseURL:     config.BaseURL,
		controllers: config.Controllers,
		webSocket:   config.WebSocket,
	}
}

// Handler returns the gin engine with every route registered
func (r *Router) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if r.webSocket != nil {
		router.GET("/ws", gin.WrapH(r.webSocket))
	}

	v1 := router.Group(r.baseURL).Group("/v1")
	for _, c := range r.controllers {
		c.RegisterRoutes(v1)
	}

	return router
}

// Server returns an http.Server listening on the configured address
func (r *Router) Server() *http.Server {
	return &http.Server{
		Addr:              r.addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		logging.Info("http request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
