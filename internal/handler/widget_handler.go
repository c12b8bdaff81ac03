package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/middleware"
	"github.com/OumaCavin/DataLinkCRM/internal/model"
	"github.com/OumaCavin/DataLinkCRM/pkg/database"
	"github.com/OumaCavin/DataLinkCRM/pkg/logger"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WidgetRequest defines the structure for widget creation/update requests
type WidgetRequest struct {
	Name          string          `json:"name"`
	WidgetType    string          `json:"widget_type"`
	Description   string          `json:"description"`
	Configuration json.RawMessage `json:"configuration"`
	IsActive      *bool           `json:"is_active"`
	Position      int             `json:"position"`
}

func (r *WidgetRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if _, ok := model.WidgetTypeLabels[r.WidgetType]; !ok {
		return "invalid widget_type"
	}
	return ""
}

// QuickActionRequest defines the structure for quick action creation/update requests
type QuickActionRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	URL         string `json:"url"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	Position    int    `json:"position"`
}

// ListWidgets handles retrieving the account's widgets ordered by position
func ListWidgets(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("widget", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var widgets []model.DashboardWidget
	result := database.GetDB().
		Where("user_id = ?", userID).
		Order("position, name").
		Find(&widgets)
	if result.Error != nil {
		log.Error("Failed to list widgets", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve widgets"})
	}

	return c.JSON(http.StatusOK, widgets)
}

// CreateWidget handles creating a new dashboard widget
func CreateWidget(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("widget", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req WidgetRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Widget validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	widget := model.DashboardWidget{
		UserID:        userID,
		Name:          req.Name,
		WidgetType:    req.WidgetType,
		Description:   req.Description,
		Configuration: req.Configuration,
		IsActive:      true,
		Position:      req.Position,
	}
	if req.IsActive != nil {
		widget.IsActive = *req.IsActive
	}
	if len(widget.Configuration) == 0 {
		widget.Configuration = json.RawMessage("{}")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&widget).Error; err != nil {
		log.Error("Failed to create widget", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create widget"})
	}

	log.Info("Widget created",
		zap.String("widget_id", widget.ID.String()),
		zap.String("type", widget.WidgetType),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, widget)
}

// UpdateWidget handles updating an existing dashboard widget
func UpdateWidget(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("widget", "update")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	widgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid widget id"})
	}

	var req WidgetRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Widget validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var widget model.DashboardWidget
	result := database.GetDB().Where("id = ? AND user_id = ?", widgetID, userID).First(&widget)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "widget not found"})
		}
		log.Error("Failed to load widget for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve widget"})
	}

	widget.Name = req.Name
	widget.WidgetType = req.WidgetType
	widget.Description = req.Description
	if len(req.Configuration) > 0 {
		widget.Configuration = req.Configuration
	}
	if req.IsActive != nil {
		widget.IsActive = *req.IsActive
	}
	widget.Position = req.Position

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&widget).Error; err != nil {
		log.Error("Failed to update widget", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update widget"})
	}

	log.Info("Widget updated",
		zap.String("widget_id", widgetID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, widget)
}

// DeleteWidget handles deleting a dashboard widget
func DeleteWidget(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("widget", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	widgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid widget id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.DashboardWidget{}, "id = ?", widgetID)
	if result.Error != nil {
		log.Error("Failed to delete widget", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete widget"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "widget not found"})
	}

	log.Info("Widget deleted",
		zap.String("widget_id", widgetID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "widget deleted successfully"})
}

// ListQuickActions handles retrieving the account's quick actions ordered by position
func ListQuickActions(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("quick_action", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var actions []model.QuickAction
	result := database.GetDB().
		Where("user_id = ?", userID).
		Order("position, name").
		Find(&actions)
	if result.Error != nil {
		log.Error("Failed to list quick actions", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve quick actions"})
	}

	return c.JSON(http.StatusOK, actions)
}

// CreateQuickAction handles creating a new quick action shortcut
func CreateQuickAction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("quick_action", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req QuickActionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	action := model.QuickAction{
		UserID:      userID,
		Name:        req.Name,
		Icon:        req.Icon,
		URL:         req.URL,
		Description: req.Description,
		IsActive:    true,
		Position:    req.Position,
	}
	if req.IsActive != nil {
		action.IsActive = *req.IsActive
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&action).Error; err != nil {
		log.Error("Failed to create quick action", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create quick action"})
	}

	log.Info("Quick action created",
		zap.String("action_id", action.ID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, action)
}

// UpdateQuickAction handles updating an existing quick action
func UpdateQuickAction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("quick_action", "update")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quick action id"})
	}

	var req QuickActionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var action model.QuickAction
	result := database.GetDB().Where("id = ? AND user_id = ?", actionID, userID).First(&action)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "quick action not found"})
		}
		log.Error("Failed to load quick action for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve quick action"})
	}

	action.Name = req.Name
	action.Icon = req.Icon
	action.URL = req.URL
	action.Description = req.Description
	if req.IsActive != nil {
		action.IsActive = *req.IsActive
	}
	action.Position = req.Position

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&action).Error; err != nil {
		log.Error("Failed to update quick action", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update quick action"})
	}

	log.Info("Quick action updated",
		zap.String("action_id", actionID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, action)
}

// DeleteQuickAction handles deleting a quick action
func DeleteQuickAction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("quick_action", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quick action id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.QuickAction{}, "id = ?", actionID)
	if result.Error != nil {
		log.Error("Failed to delete quick action", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete quick action"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "quick action not found"})
	}

	log.Info("Quick action deleted",
		zap.String("action_id", actionID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "quick action deleted successfully"})
}
