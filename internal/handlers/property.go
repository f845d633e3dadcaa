package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/services"
)

type PropertyHandler struct {
	properties *services.PropertyService
	log        *logger.Logger
}

func NewPropertyHandler(properties *services.PropertyService, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{properties: properties, log: log}
}

func (h *PropertyHandler) List(c *gin.Context) {
	props, err := h.properties.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if props == nil {
		props = []models.Property{}
	}
	c.JSON(http.StatusOK, props)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	prop, err := h.properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.CreatePropertyRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	prop, err := h.properties.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, prop)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var patch models.PropertyPatch
	if !bindJSON(c, h.log, &patch) {
		return
	}

	prop, err := h.properties.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *PropertyHandler) Toggle(c *gin.Context) {
	var req models.ToggleRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	prop, err := h.properties.SetActive(c.Request.Context(), c.Param("id"), req.IsActive)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, prop)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	if err := h.properties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
