package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/services"
)

type BookingHandler struct {
	bookings *services.BookingService
	log      *logger.Logger
}

func NewBookingHandler(bookings *services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log}
}

func (h *BookingHandler) ListForUser(c *gin.Context) {
	rows, err := h.bookings.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req models.CreateBookingRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListAll handles GET /admin/bookings?limit=&offset=.
func (h *BookingHandler) ListAll(c *gin.Context) {
	limit, offset, ok := pageParams(c, h.log)
	if !ok {
		return
	}
	bookings, err := h.bookings.ListAll(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

func pageParams(c *gin.Context, log *logger.Logger) (int, int, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		respondError(c, log, &services.Error{Kind: services.ErrValidation, Message: "limit must be a number"})
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		respondError(c, log, &services.Error{Kind: services.ErrValidation, Message: "offset must be a number"})
		return 0, 0, false
	}
	return limit, offset, true
}
