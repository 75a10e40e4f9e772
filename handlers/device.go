package handlers

import (
	"net/http"

	deviceRepo "carenow/database/repository/device"
	"carenow/middleware"
	"carenow/utils"

	"github.com/gin-gonic/gin"
)

// DeviceHandler registers FCM tokens so the notification dispatcher can
// reach the caller's device.
type DeviceHandler struct {
	Repo deviceRepo.DeviceTokenRepository
}

func NewDeviceHandler(repo deviceRepo.DeviceTokenRepository) *DeviceHandler {
	return &DeviceHandler{Repo: repo}
}

// UpdateToken handles PUT /api/devices/token.
func (h *DeviceHandler) UpdateToken(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	accountID := c.GetString(middleware.ContextAccountID)
	role := c.GetString(middleware.ContextRole)
	if err := h.Repo.SaveToken(c.Request.Context(), accountID, role, input.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "token updated"})
}
