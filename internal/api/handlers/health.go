package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/willardjansen/cubby-remote-reaper/internal/bridge"
	"github.com/willardjansen/cubby-remote-reaper/internal/catalog"
)

// HealthHandler reports bridge liveness plus the state a remote needs to
// decide whether a reload is worth offering.
type HealthHandler struct {
	store   *catalog.Store
	hub     *bridge.Hub
	version string
}

func NewHealthHandler(store *catalog.Store, hub *bridge.Hub, version string) *HealthHandler {
	return &HealthHandler{store: store, hub: hub, version: version}
}

// HealthCheck returns the health status of the bridge
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"version":      h.version,
		"banks":        len(h.store.Banks()),
		"parse_errors": len(h.store.Errors()),
		"ws_clients":   h.hub.ClientCount(),
	})
}
