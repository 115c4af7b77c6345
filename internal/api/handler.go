package api

import (
	"github.com/gin-gonic/gin"

	"github.com/radathip2391/Recheck-Excel/internal/engine"
	"github.com/radathip2391/Recheck-Excel/internal/reference"
)

// Handler wires the validation engine to the HTTP surface. It owns the
// boundary source (the one process-wide reference resource) and the
// one-shot download store for annotated artifacts.
type Handler struct {
	schema    *engine.Schema
	boundary  *reference.Source
	downloads *downloadStore
}

// NewHandler creates the API handler.
func NewHandler(boundary *reference.Source) *Handler {
	return &Handler{
		schema:    engine.DefaultSchema(),
		boundary:  boundary,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/validate", h.Validate)
	router.GET("/validate/download/:token", h.DownloadResult)

	router.POST("/reference/reload", h.ReloadReference)
}
