package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/radathip2391/Recheck-Excel/internal/api"
	"github.com/radathip2391/Recheck-Excel/internal/config"
	"github.com/radathip2391/Recheck-Excel/internal/reference"
)

// Server is the HTTP server. It owns the boundary source so every
// validation run shares the same loaded reference table.
type Server struct {
	router   *gin.Engine
	boundary *reference.Source
	api      *api.Handler
}

// NewServer creates the server and wires the routes.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	boundary := reference.NewSource(config.BoundaryPath(cfg), cfg.Boundary)
	handler := api.NewHandler(boundary)

	s := &Server{
		router:   gin.Default(),
		boundary: boundary,
		api:      handler,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "recheck-excel",
			"upload":  "POST /api/validate (multipart field: file)",
		})
	})
}

// Boundary exposes the reference source (used by startup preload).
func (s *Server) Boundary() *reference.Source {
	return s.boundary
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
