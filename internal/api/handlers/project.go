package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/willardjansen/cubby-remote-reaper/internal/logger"
	"github.com/willardjansen/cubby-remote-reaper/internal/metrics"
	"github.com/willardjansen/cubby-remote-reaper/internal/rpp"
)

// ProjectHandler turns a selection of banks into a downloadable REAPER
// project file. The generator validates nothing; the remote UI is
// responsible for sending sane MSB/LSB values.
type ProjectHandler struct {
	metrics *metrics.SentryMetrics
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{metrics: metrics.NewSentryMetrics()}
}

// Generate renders the request into project text and returns it as a
// .rpp attachment.
func (h *ProjectHandler) Generate(c *gin.Context) {
	var req rpp.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	out := rpp.Generate(req)
	h.metrics.RecordProjectGeneration(c.Request.Context(), len(req.Tracks), len(out), time.Since(start))

	name := req.Name
	if name == "" {
		name = "cubby-project"
	}

	logger.Info("Project file generated", logger.Fields{
		"project": name,
		"tracks":  len(req.Tracks),
		"bytes":   len(out),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".rpp"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out))
}
