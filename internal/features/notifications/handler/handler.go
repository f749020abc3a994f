package handler

import (
	"net/http"

	"delivery-proof/internal/core/logger"
	"delivery-proof/internal/features/notifications/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service ports.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// GetLatest handles GET /notifications.
// @Summary Get the latest notification
// @Description Retrieves the most recent user-facing notification, if one is active.
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.Notification
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /notifications [get]
func (h *NotificationHandler) GetLatest(c *fiber.Ctx) error {
	ctx := c.Context()
	notification, err := h.service.Latest(ctx)
	if err != nil {
		logger.Get().Error("Failed to get notification", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if notification == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "No active notification",
		})
	}

	return c.Status(http.StatusOK).JSON(notification)
}
