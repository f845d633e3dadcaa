package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/services"
	"pguncle/internal/utils"
)

type SystemHandler struct {
	system *services.SystemService
	log    *logger.Logger
}

func NewSystemHandler(system *services.SystemService, log *logger.Logger) *SystemHandler {
	return &SystemHandler{system: system, log: log}
}

func (h *SystemHandler) Health(c *gin.Context) {
	report := h.system.Health(c.Request.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *SystemHandler) Env(c *gin.Context) {
	c.JSON(http.StatusOK, h.system.Env())
}

func (h *SystemHandler) DocumentDiagnostics(c *gin.Context) {
	diag, err := h.system.Diagnostics(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, diag)
}

func (h *SystemHandler) RefreshSchema(c *gin.Context) {
	msg, err := h.system.RefreshSchema(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessMessage(msg))
}
