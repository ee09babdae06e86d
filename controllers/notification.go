// controllers/notification.go
package controllers

import (
	"net/http"
	"strconv"

	"tutorcrm-backend/models"
	"tutorcrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 500
)

type NotificationController struct {
	DB *gorm.DB
}

// GetNotifications lists notification log rows, newest first.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	query := nc.DB.WithContext(c.Request.Context()).Model(&models.NotificationLog{})

	if customerID := c.Query("customerId"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}
	if status := c.Query("status"); status != "" {
		if status != "sent" && status != "failed" {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		query = query.Where("status = ?", status)
	}

	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxNotificationLimit)
	}

	var logs []models.NotificationLog
	if err := query.Order("sent_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	c.JSON(http.StatusOK, logs)
}
