package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const resultFilename = "Check_Result_Marked.xlsx"

// DownloadResult serves an annotated result file once, then discards it.
// GET /api/validate/download/:token
func (h *Handler) DownloadResult(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "result file no longer exists"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+resultFilename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
