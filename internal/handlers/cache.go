package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/services"
	"pguncle/internal/utils"
)

type CacheHandler struct {
	caches *services.CacheService
	log    *logger.Logger
}

func NewCacheHandler(caches *services.CacheService, log *logger.Logger) *CacheHandler {
	return &CacheHandler{caches: caches, log: log}
}

// Stats handles GET /cache/clear.
func (h *CacheHandler) Stats(c *gin.Context) {
	stats, err := h.caches.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

type clearCacheRequest struct {
	Key string `json:"key"`
}

// Clear handles POST /cache/clear. Without a key the whole cache is dropped.
func (h *CacheHandler) Clear(c *gin.Context) {
	var req clearCacheRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	if err := h.caches.Clear(c.Request.Context(), req.Key); err != nil {
		respondError(c, h.log, err)
		return
	}

	msg := "Cache cleared"
	if req.Key != "" {
		msg = "Cache key " + req.Key + " cleared"
	}
	c.JSON(http.StatusOK, utils.SuccessMessage(msg))
}
