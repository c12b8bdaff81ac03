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

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Gender           string     `json:"gender"`
	CustomerType     string     `json:"customer_type"`
	Status           string     `json:"status"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	County           string     `json:"county"`
	Country          string     `json:"country"`
	PostalCode       string     `json:"postal_code"`
	CompanyName      string     `json:"company_name"`
	JobTitle         string     `json:"job_title"`
	Industry         string     `json:"industry"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Notes            string     `json:"notes"`
	Tags             string     `json:"tags"`
	IsPrimaryContact bool       `json:"is_primary_contact"`
}

func (r *CustomerRequest) validate() string {
	if r.FirstName == "" || r.LastName == "" {
		return "first_name and last_name are required"
	}
	if r.Email == "" {
		return "email is required"
	}
	if r.Phone != "" && !model.ValidPhone(r.Phone) {
		return "phone number must be in format +254XXXXXXXXX"
	}
	if r.CustomerType != "" {
		if _, ok := model.CustomerTypeLabels[r.CustomerType]; !ok {
			return "invalid customer_type"
		}
	}
	if r.Status != "" {
		if _, ok := model.CustomerStatusLabels[r.Status]; !ok {
			return "invalid status"
		}
	}
	return ""
}

// ListCustomers handles retrieving the account's customers with optional filtering
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	query := database.GetDB().Where("user_id = ?", userID)

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerType := c.QueryParam("customer_type"); customerType != "" {
		query = query.Where("customer_type = ?", customerType)
	}

	var customers []model.Customer
	result := query.Order("created_at DESC").Find(&customers)
	if result.Error != nil {
		log.Error("Failed to list customers", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customers"})
	}

	log.Info("Customers retrieved", zap.Uint("user_id", userID), zap.Int("count", len(customers)))
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles retrieving a single customer by ID
func GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "get")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	var customer model.Customer
	result := database.GetDB().Where("id = ? AND user_id = ?", customerID, userID).First(&customer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Error("Failed to load customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customer"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles creating a new customer
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Customer validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	// Check if a customer with this email already exists
	var count int64
	database.GetDB().Model(&model.Customer{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		log.Warn("Customer with this email already exists", zap.String("email", req.Email))
		return c.JSON(http.StatusConflict, echo.Map{"error": "customer with this email already exists"})
	}

	customer := model.Customer{
		UserID:           userID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Gender:           req.Gender,
		CustomerType:     req.CustomerType,
		Status:           req.Status,
		Address:          req.Address,
		City:             req.City,
		County:           req.County,
		Country:          req.Country,
		PostalCode:       req.PostalCode,
		CompanyName:      req.CompanyName,
		JobTitle:         req.JobTitle,
		Industry:         req.Industry,
		DateOfBirth:      req.DateOfBirth,
		Notes:            req.Notes,
		Tags:             req.Tags,
		IsPrimaryContact: req.IsPrimaryContact,
	}
	if customer.CustomerType == "" {
		customer.CustomerType = model.CustomerTypeIndividual
	}
	if customer.Status == "" {
		customer.Status = model.CustomerStatusProspect
	}
	if customer.Country == "" {
		customer.Country = "Kenya"
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().Create(&customer)
	if result.Error != nil {
		log.Error("Failed to create customer",
			zap.String("email", req.Email),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Customer created",
		zap.String("customer_id", customer.CustomerID),
		zap.String("email", customer.Email),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles updating an existing customer. The generated
// customer ID is immutable and never touched here.
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "update")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Customer validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var customer model.Customer
	result := database.GetDB().Where("id = ? AND user_id = ?", customerID, userID).First(&customer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Error("Failed to load customer for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve customer"})
	}

	// Check if the email is changed and if the new email already exists
	if req.Email != customer.Email {
		var count int64
		database.GetDB().Model(&model.Customer{}).Where("email = ? AND id != ?", req.Email, customerID).Count(&count)
		if count > 0 {
			log.Warn("Customer with this email already exists", zap.String("email", req.Email))
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer with this email already exists"})
		}
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Gender = req.Gender
	if req.CustomerType != "" {
		customer.CustomerType = req.CustomerType
	}
	if req.Status != "" {
		customer.Status = req.Status
	}
	customer.Address = req.Address
	customer.City = req.City
	customer.County = req.County
	if req.Country != "" {
		customer.Country = req.Country
	}
	customer.PostalCode = req.PostalCode
	customer.CompanyName = req.CompanyName
	customer.JobTitle = req.JobTitle
	customer.Industry = req.Industry
	customer.DateOfBirth = req.DateOfBirth
	customer.Notes = req.Notes
	customer.Tags = req.Tags
	customer.IsPrimaryContact = req.IsPrimaryContact

	defer prometheus.TrackDBOperation("update")(time.Now())
	result = database.GetDB().Save(&customer)
	if result.Error != nil {
		log.Error("Failed to update customer",
			zap.String("customer_id", customer.CustomerID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update customer"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Customer updated",
		zap.String("customer_id", customer.CustomerID),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles deleting a customer (soft delete)
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.Customer{}, "id = ?", customerID)
	if result.Error != nil {
		log.Error("Failed to delete customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete customer"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Customer deleted",
		zap.String("customer_id", customerID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted successfully"})
}
