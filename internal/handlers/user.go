package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pguncle/internal/logger"
	"pguncle/internal/services"
)

type UserHandler struct {
	users *services.UserService
	log   *logger.Logger
}

func NewUserHandler(users *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// Update handles PATCH /user/update with {userId, ...fields}.
func (h *UserHandler) Update(c *gin.Context) {
	body := map[string]interface{}{}
	if !bindJSON(c, h.log, &body) {
		return
	}
	userID, _ := body["userId"].(string)

	user, err := h.users.Update(c.Request.Context(), userID, body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
