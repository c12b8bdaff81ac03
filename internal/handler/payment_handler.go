package handler

import (
	"encoding/json"
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

// PaymentRequest defines the structure for payment creation requests.
// Gateway processing happens upstream; this records the ledger entry.
type PaymentRequest struct {
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	Metadata      json.RawMessage `json:"metadata"`
}

func (r *PaymentRequest) validate() string {
	if r.Amount <= 0 {
		return "amount must be greater than zero"
	}
	if r.Reference == "" {
		return "reference is required"
	}
	if _, ok := model.PaymentMethodLabels[r.PaymentMethod]; !ok {
		return "invalid payment_method"
	}
	if r.Status != "" {
		if _, ok := model.PaymentStatusLabels[r.Status]; !ok {
			return "invalid status"
		}
	}
	return ""
}

// ListPayments handles retrieving the account's payments with optional filtering
func ListPayments(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	query := database.GetDB().Where("user_id = ?", userID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := c.QueryParam("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}

	var payments []model.Payment
	result := query.Order("created_at DESC").Find(&payments)
	if result.Error != nil {
		log.Error("Failed to list payments", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve payments"})
	}

	return c.JSON(http.StatusOK, payments)
}

// GetPayment handles retrieving a single payment by ID
func GetPayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "get")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	var payment model.Payment
	result := database.GetDB().Where("id = ? AND user_id = ?", paymentID, userID).First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		log.Error("Failed to load payment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve payment"})
	}

	return c.JSON(http.StatusOK, payment)
}

// CreatePayment handles recording a new payment
func CreatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Payment validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	// References are unique across the system
	var count int64
	database.GetDB().Model(&model.Payment{}).Where("reference = ?", req.Reference).Count(&count)
	if count > 0 {
		log.Warn("Payment with this reference already exists", zap.String("reference", req.Reference))
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment with this reference already exists"})
	}

	payment := model.Payment{
		UserID:        userID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Description:   req.Description,
		Metadata:      req.Metadata,
	}
	if payment.Currency == "" {
		payment.Currency = "KES"
	}
	if payment.Status == "" {
		payment.Status = model.PaymentStatusPending
	}
	if payment.Status == model.PaymentStatusCompleted {
		now := time.Now()
		payment.CompletedAt = &now
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().Create(&payment)
	if result.Error != nil {
		log.Error("Failed to create payment",
			zap.String("reference", req.Reference),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create payment"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reference", payment.Reference),
		zap.Float64("amount", payment.Amount),
		zap.String("method", payment.PaymentMethod),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, payment)
}

// UpdatePaymentStatus handles moving a payment to a new status
func UpdatePaymentStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "update_status")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if _, valid := model.PaymentStatusLabels[req.Status]; !valid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	var payment model.Payment
	result := database.GetDB().Where("id = ? AND user_id = ?", paymentID, userID).First(&payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		log.Error("Failed to load payment for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve payment"})
	}

	oldStatus := payment.Status
	payment.Status = req.Status
	if req.Status == model.PaymentStatusCompleted && payment.CompletedAt == nil {
		now := time.Now()
		payment.CompletedAt = &now
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(&payment).Error; err != nil {
		log.Error("Failed to update payment status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update payment"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Payment status updated",
		zap.String("payment_id", paymentID.String()),
		zap.String("old_status", oldStatus),
		zap.String("new_status", payment.Status),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, payment)
}

// DeletePayment handles removing a payment record (soft delete). Amounts and
// references are immutable; removing the record is the only correction path.
func DeletePayment(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.Payment{}, "id = ?", paymentID)
	if result.Error != nil {
		log.Error("Failed to delete payment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete payment"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Payment deleted",
		zap.String("payment_id", paymentID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "payment deleted successfully"})
}
