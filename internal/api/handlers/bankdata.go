package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/willardjansen/cubby-remote-reaper/internal/bridge"
	"github.com/willardjansen/cubby-remote-reaper/internal/logger"
	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// BankDataHandler ingests the DAW-side polling script's HTTP uploads and
// relays them to the connected WebSocket clients.
type BankDataHandler struct {
	hub *bridge.Hub
}

func NewBankDataHandler(hub *bridge.Hub) *BankDataHandler {
	return &BankDataHandler{hub: hub}
}

// bankDataRequest is the poller's payload: the same shape as the
// bankData WebSocket envelope, minus the type tag HTTP does not need.
type bankDataRequest struct {
	TrackName     string                 `json:"trackName" binding:"required"`
	BankName      string                 `json:"bankName"`
	MSB           int                    `json:"msb"`
	LSB           int                    `json:"lsb"`
	Articulations []reabank.Articulation `json:"articulations"`
}

// Ingest accepts one bank-data upload and broadcasts it.
func (h *BankDataHandler) Ingest(c *gin.Context) {
	var req bankDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.hub.Broadcast(bridge.BankData{
		TrackName:     req.TrackName,
		BankName:      req.BankName,
		MSB:           req.MSB,
		LSB:           req.LSB,
		Articulations: req.Articulations,
	})

	logger.Debug("Bank data relayed", logger.Fields{
		"track":         req.TrackName,
		"bank":          req.BankName,
		"articulations": len(req.Articulations),
	})
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": h.hub.ClientCount()})
}
