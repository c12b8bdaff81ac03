package handler

import (
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

// SubscriptionRequest defines the structure for subscription creation/update requests
type SubscriptionRequest struct {
	Plan         string     `json:"plan"`
	Status       string     `json:"status"`
	Amount       float64    `json:"amount"`
	Currency     string     `json:"currency"`
	BillingCycle string     `json:"billing_cycle"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	AutoRenew    *bool      `json:"auto_renew"`
}

func (r *SubscriptionRequest) validate() string {
	if _, ok := model.SubscriptionPlanLabels[r.Plan]; !ok {
		return "invalid plan"
	}
	if r.Status != "" {
		if _, ok := model.SubscriptionStatusLabels[r.Status]; !ok {
			return "invalid status"
		}
	}
	if r.Amount < 0 {
		return "amount must not be negative"
	}
	return ""
}

// ListSubscriptions handles retrieving the account's subscriptions
func ListSubscriptions(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("subscription", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	query := database.GetDB().Where("user_id = ?", userID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var subscriptions []model.Subscription
	result := query.Order("created_at DESC").Find(&subscriptions)
	if result.Error != nil {
		log.Error("Failed to list subscriptions", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve subscriptions"})
	}

	return c.JSON(http.StatusOK, subscriptions)
}

// GetSubscription handles retrieving a single subscription by ID
func GetSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("subscription", "get")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription id"})
	}

	var subscription model.Subscription
	result := database.GetDB().Where("id = ? AND user_id = ?", subscriptionID, userID).First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		log.Error("Failed to load subscription", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve subscription"})
	}

	return c.JSON(http.StatusOK, subscription)
}

// CreateSubscription handles creating a new subscription
func CreateSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("subscription", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req SubscriptionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Subscription validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	subscription := model.Subscription{
		UserID:       userID,
		Plan:         req.Plan,
		Status:       req.Status,
		Amount:       req.Amount,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AutoRenew:    true,
	}
	if req.AutoRenew != nil {
		subscription.AutoRenew = *req.AutoRenew
	}
	if subscription.Status == "" {
		subscription.Status = model.SubscriptionStatusActive
	}
	if subscription.Currency == "" {
		subscription.Currency = "KES"
	}
	if subscription.BillingCycle == "" {
		subscription.BillingCycle = "monthly"
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().Create(&subscription)
	if result.Error != nil {
		log.Error("Failed to create subscription", zap.String("plan", req.Plan), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create subscription"})
	}

	log.Info("Subscription created",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("plan", subscription.Plan),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, subscription)
}

// UpdateSubscription handles updating an existing subscription
func UpdateSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("subscription", "update")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription id"})
	}

	var req SubscriptionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Subscription validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var subscription model.Subscription
	result := database.GetDB().Where("id = ? AND user_id = ?", subscriptionID, userID).First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
		}
		log.Error("Failed to load subscription for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve subscription"})
	}

	subscription.Plan = req.Plan
	if req.Status != "" {
		subscription.Status = req.Status
	}
	subscription.Amount = req.Amount
	if req.Currency != "" {
		subscription.Currency = req.Currency
	}
	if req.BillingCycle != "" {
		subscription.BillingCycle = req.BillingCycle
	}
	subscription.StartDate = req.StartDate
	subscription.EndDate = req.EndDate
	if req.AutoRenew != nil {
		subscription.AutoRenew = *req.AutoRenew
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&subscription).Error; err != nil {
		log.Error("Failed to update subscription", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update subscription"})
	}

	log.Info("Subscription updated",
		zap.String("subscription_id", subscriptionID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, subscription)
}

// DeleteSubscription handles deleting a subscription (soft delete)
func DeleteSubscription(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("subscription", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	subscriptionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subscription id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.Subscription{}, "id = ?", subscriptionID)
	if result.Error != nil {
		log.Error("Failed to delete subscription", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete subscription"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
	}

	log.Info("Subscription deleted",
		zap.String("subscription_id", subscriptionID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "subscription deleted successfully"})
}
