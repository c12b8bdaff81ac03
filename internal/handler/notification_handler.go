package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/middleware"
	"github.com/OumaCavin/DataLinkCRM/internal/model"
	"github.com/OumaCavin/DataLinkCRM/pkg/cache"
	"github.com/OumaCavin/DataLinkCRM/pkg/database"
	"github.com/OumaCavin/DataLinkCRM/pkg/logger"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListNotifications handles retrieving the account's notifications,
// newest first
func ListNotifications(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var notifications []model.Notification
	result := database.GetDB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications)
	if result.Error != nil {
		log.Error("Failed to list notifications", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve notifications"})
	}

	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles marking a single notification as read.
// The read transition is one-directional and idempotent: marking an
// already-read notification succeeds without change.
func MarkNotificationRead(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNotificationOperation("mark_read")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("Invalid notification ID", zap.String("notification_id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	defer prometheus.TrackDBOperation("mark_read")(time.Now())
	var notification model.Notification
	result := database.GetDB().
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Notification not found",
				zap.String("notification_id", notificationID.String()),
				zap.Uint("user_id", userID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		log.Error("Failed to load notification", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notification"})
	}

	if !notification.IsRead {
		if err := database.GetDB().
			Model(&notification).
			Update("is_read", true).Error; err != nil {
			log.Error("Failed to mark notification as read",
				zap.String("notification_id", notificationID.String()),
				zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
		}
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Notification marked as read",
		zap.String("notification_id", notificationID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsRead handles marking every unread notification for the
// account as read. A no-op when nothing is unread.
func MarkAllNotificationsRead(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNotificationOperation("mark_all_read")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	defer prometheus.TrackDBOperation("mark_all_read")(time.Now())
	result := database.GetDB().
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		log.Error("Failed to mark all notifications as read",
			zap.Uint("user_id", userID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notifications"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("All notifications marked as read",
		zap.Uint("user_id", userID),
		zap.Int64("updated", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

// UnreadNotificationCount handles retrieving the unread notification count
func UnreadNotificationCount(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNotificationOperation("unread_count")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var count int64
	result := database.GetDB().
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	if result.Error != nil {
		log.Error("Failed to count unread notifications", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count notifications"})
	}

	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}
