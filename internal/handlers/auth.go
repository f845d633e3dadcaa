package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/models"
	"pguncle/internal/services"
	"pguncle/internal/utils"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.OTPRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	if err := h.auth.SendOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessMessage("OTP sent"))
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.OTPVerifyRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	session, err := h.auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": session.Token, "user": session.User})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	session, err := h.auth.AdminLogin(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": session.Token})
}
