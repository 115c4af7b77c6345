package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/radathip2391/Recheck-Excel/internal/annotate"
	"github.com/radathip2391/Recheck-Excel/internal/engine"
	"github.com/radathip2391/Recheck-Excel/internal/model"
	"github.com/radathip2391/Recheck-Excel/internal/workbook"
)

const downloadTTL = 10 * time.Minute

// ViolationSummary is one row of the caller-facing summary table.
type ViolationSummary struct {
	Row      int    `json:"row"` // worksheet row number, 1-based
	Column   string `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ValidateResponse is the result of one validation run.
type ValidateResponse struct {
	RunID          string             `json:"runId"`
	RowCount       int                `json:"rowCount"`
	ViolationCount int                `json:"violationCount"`
	Degraded       bool               `json:"degraded"` // address checks skipped
	Violations     []ViolationSummary `json:"violations"`
	DownloadURL    string             `json:"downloadUrl,omitempty"`
}

// Validate runs one validation pass over an uploaded workbook.
// POST /api/validate
func (h *Handler) Validate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no uploaded file found"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer src.Close()

	ds, err := workbook.Load(src, h.schema.DateColumns)
	if err != nil {
		if errors.Is(err, workbook.ErrSheetNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": fmt.Sprintf("sheet not found: the workbook needs both %q and %q", workbook.SheetEmployees, workbook.SheetDetails),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open workbook: " + err.Error()})
		return
	}
	defer ds.Close()

	// Reference degradation: a missing boundary source skips address
	// checks for this run, it never fails the upload.
	boundary, berr := h.boundary.Table()
	if berr != nil {
		log.Printf("boundary table unavailable, address checks skipped: %v", berr)
		boundary = nil
	}

	eng := engine.New(h.schema, boundary)
	violations := eng.Validate(ds.Table, ds.Vocab)

	if err := annotate.Apply(ds.File, ds.Table, violations); err != nil {
		log.Printf("annotate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build the annotated workbook"})
		return
	}

	runID := uuid.New().String()
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("recheck_result_%s.xlsx", runID))
	if err := ds.File.SaveAs(tempPath); err != nil {
		log.Printf("save annotated workbook failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write the annotated workbook"})
		return
	}

	token := h.downloads.put(tempPath, runID, downloadTTL)

	c.JSON(http.StatusOK, ValidateResponse{
		RunID:          runID,
		RowCount:       len(ds.Table.Rows),
		ViolationCount: len(violations),
		Degraded:       eng.Degraded(),
		Violations:     summarize(violations),
		DownloadURL:    "/api/validate/download/" + token,
	})
}

func summarize(violations []model.Violation) []ViolationSummary {
	out := make([]ViolationSummary, 0, len(violations))
	for _, v := range violations {
		out = append(out, ViolationSummary{
			Row:      v.SheetRow(),
			Column:   v.ColumnName,
			Message:  v.Message,
			Severity: string(v.Severity),
		})
	}
	return out
}
