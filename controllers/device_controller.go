package controllers

import (
	"net/http"
	"strconv"

	"github.com/PDAC95/japp/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DeviceController struct {
	DB   *gorm.DB
	Push *services.PushService
}

func NewDeviceController(db *gorm.DB, push *services.PushService) *DeviceController {
	return &DeviceController{DB: db, Push: push}
}

type RegisterDeviceInput struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
}

func (h *DeviceController) RegisterDevice(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input RegisterDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	dev, err := h.Push.RegisterDevice(userID, input.Platform, input.Token)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, gin.H{"device_id": dev.ID, "platform": dev.Platform})
}

func (h *DeviceController) ListAlerts(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	alerts, err := services.ListAlerts(h.DB, userID, limit)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, alerts)
}
