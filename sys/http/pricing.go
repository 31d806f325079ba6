package http

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"shinypath-api/res/pricing"
	"shinypath-api/res/store"
)

// maxPricingBodySize bounds the admin rate-table upload.
const maxPricingBodySize = 1 << 20

// getPricing serves the rate table the public calculator prices against.
// It reads through the cache, so a database outage still yields a usable
// (possibly stale or default) table.
func (s *Server) getPricing(c *gin.Context) {
	c.JSON(nethttp.StatusOK, s.Pricing.Get(c.Request.Context()))
}

// getActivePricing serves the stored rate table for the admin editor,
// bypassing the cache so edits read their own writes.
func (s *Server) getActivePricing(c *gin.Context) {
	raw, err := s.Store.PricingConfigs().GetActive(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(nethttp.StatusOK, pricing.DefaultConfig())
			return
		}
		s.Logger.Printf("Error loading active pricing config: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error loading pricing"})
		return
	}

	c.Data(nethttp.StatusOK, "application/json", raw)
}

func (s *Server) saveActivePricing(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPricingBodySize))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "Malformed request body"})
		return
	}

	cfg, err := pricing.ParseConfig(json.RawMessage(raw))
	if err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Store.PricingConfigs().SaveActive(c.Request.Context(), json.RawMessage(raw)); err != nil {
		s.Logger.Printf("Error saving pricing config: %s", err)
		c.JSON(nethttp.StatusInternalServerError, gin.H{"error": "Error saving pricing"})
		return
	}

	// Published immediately: drop the cached snapshot and tell the panels.
	s.Pricing.Invalidate()
	s.hub.Broadcast("pricing", "updated", "active")

	c.JSON(nethttp.StatusOK, cfg)
}
