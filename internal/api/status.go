package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse reports whether the service can run full validations.
type StatusResponse struct {
	BoundaryLoaded  bool   `json:"boundaryLoaded"`
	BoundaryEntries int    `json:"boundaryEntries"`
	BoundaryPath    string `json:"boundaryPath"`
	BoundaryError   string `json:"boundaryError,omitempty"`
}

// GetStatus reports boundary-table health.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{BoundaryPath: h.boundary.Path()}

	table, err := h.boundary.Table()
	if err != nil {
		resp.BoundaryError = err.Error()
	} else {
		resp.BoundaryLoaded = true
		resp.BoundaryEntries = table.Len()
	}

	c.JSON(http.StatusOK, resp)
}

// ReloadReference drops the boundary cache and reloads the source file.
// POST /api/reference/reload
func (h *Handler) ReloadReference(c *gin.Context) {
	table, err := h.boundary.Reload()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"boundaryEntries": table.Len()})
}
