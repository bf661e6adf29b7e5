package http

import (
	"errors"
	"net/http"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/pipeline"
	"github.com/gin-gonic/gin"
)

func (h *handlers) triggerIngestion(c *gin.Context) {
	if h.ingester == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "NASA FIRMS ingestion is not configured",
			"timestamp": domain.Now(),
		})
		return
	}

	n, err := h.ingester.Ingest(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrIngestionRunning) {
			status = http.StatusConflict
		}
		h.logger.Error("manual ingestion failed", "error", err)
		c.JSON(status, gin.H{
			"success":   false,
			"error":     err.Error(),
			"timestamp": domain.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Ingestion completed",
		"events_processed": n,
		"timestamp":        domain.Now(),
	})
}

func (h *handlers) ingestionStatus(c *gin.Context) {
	services := make(map[string]string, len(h.integrations))
	for name, on := range h.integrations {
		if on {
			services[name] = "configured"
		} else {
			services[name] = "not configured"
		}
	}

	body := gin.H{
		"status":     "operational",
		"services":   services,
		"last_check": domain.Now(),
	}
	if h.ingester != nil {
		if last, ok := h.ingester.LastRun(); ok {
			body["last_run"] = last
		}
	}
	c.JSON(http.StatusOK, body)
}
