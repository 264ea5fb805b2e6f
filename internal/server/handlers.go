package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/mindmirror/internal/analysis"
	"github.com/spacesedan/mindmirror/internal/models"
)

type Analyzer interface {
	AnalyzeJournal(ctx context.Context, text string) (models.AnalysisResult, error)
}

// StatusFunc reports whether each named signal source is usable.
type StatusFunc func() map[string]bool

type AnalyzeHandler struct {
	analyzer Analyzer
}

func NewAnalyzeHandler(analyzer Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// AnalyzeJournal handles POST /analyze_journal. A body that does not decode
// is treated the same as a missing text field.
func (h *AnalyzeHandler) AnalyzeJournal(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("[Server] Invalid request body", slog.String("error", err.Error()))
		RespondError(c, http.StatusBadRequest, msgNoText)
		return
	}

	result, err := h.analyzer.AnalyzeJournal(c.Request.Context(), req.Text)
	if err != nil {
		var internal *analysis.InternalError
		switch {
		case analysis.IsValidation(err):
			RespondError(c, http.StatusBadRequest, msgNoText)
		case errors.As(err, &internal):
			slog.Error("[Server] Analysis failed",
				slog.String("request_id", internal.RequestID),
				slog.String("error", err.Error()))
			RespondError(c, http.StatusInternalServerError, msgUnexpected)
		default:
			slog.Error("[Server] Analysis failed", slog.String("error", err.Error()))
			RespondError(c, http.StatusInternalServerError, msgUnexpected)
		}
		return
	}

	RespondOK(c, result)
}

type HealthHandler struct {
	status StatusFunc
}

func NewHealthHandler(status StatusFunc) *HealthHandler {
	return &HealthHandler{status: status}
}

// HealthCheck always answers 200; degraded sources do not make the service
// unhealthy because every source has a fallback.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	sources := map[string]bool{}
	if h.status != nil {
		sources = h.status()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sources": sources,
	})
}
