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

// ProjectRequest defines the structure for project creation/update requests
type ProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Budget      float64    `json:"budget"`
	CustomerID  *uuid.UUID `json:"customer_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (r *ProjectRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Status != "" {
		if _, ok := model.ProjectStatusLabels[r.Status]; !ok {
			return "invalid status"
		}
	}
	if r.Budget < 0 {
		return "budget must not be negative"
	}
	return ""
}

// ListProjects handles retrieving the account's projects with optional filtering
func ListProjects(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "list")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	query := database.GetDB().Where("user_id = ?", userID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []model.Project
	result := query.Order("created_at DESC").Find(&projects)
	if result.Error != nil {
		log.Error("Failed to list projects", zap.Uint("user_id", userID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve projects"})
	}

	return c.JSON(http.StatusOK, projects)
}

// GetProject handles retrieving a single project by ID
func GetProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "get")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var project model.Project
	result := database.GetDB().Where("id = ? AND user_id = ?", projectID, userID).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		log.Error("Failed to load project", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve project"})
	}

	return c.JSON(http.StatusOK, project)
}

// CreateProject handles creating a new project
func CreateProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "create")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Project validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	// A linked customer must belong to the same account
	if req.CustomerID != nil {
		var count int64
		database.GetDB().Model(&model.Customer{}).
			Where("id = ? AND user_id = ?", *req.CustomerID, userID).
			Count(&count)
		if count == 0 {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
	}

	project := model.Project{
		UserID:      userID,
		CustomerID:  req.CustomerID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusPlanning
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	result := database.GetDB().Create(&project)
	if result.Error != nil {
		log.Error("Failed to create project", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create project"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("name", project.Name),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, project)
}

// UpdateProject handles updating an existing project
func UpdateProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "update")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		log.Warn("Project validation failed", zap.String("reason", msg))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var project model.Project
	result := database.GetDB().Where("id = ? AND user_id = ?", projectID, userID).First(&project)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
		}
		log.Error("Failed to load project for update", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve project"})
	}

	project.Name = req.Name
	project.Description = req.Description
	if req.Status != "" {
		project.Status = req.Status
	}
	project.Budget = req.Budget
	project.CustomerID = req.CustomerID
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate

	defer prometheus.TrackDBOperation("update")(time.Now())
	result = database.GetDB().Save(&project)
	if result.Error != nil {
		log.Error("Failed to update project", zap.String("project_id", projectID.String()), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update project"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Project updated",
		zap.String("project_id", projectID.String()),
		zap.String("status", project.Status),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, project)
}

// DeleteProject handles deleting a project (soft delete)
func DeleteProject(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "delete")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("user_id = ?", userID).Delete(&model.Project{}, "id = ?", projectID)
	if result.Error != nil {
		log.Error("Failed to delete project", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete project"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "project not found"})
	}

	if err := cache.InvalidateDashboard(c.Request().Context(), userID); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
		log.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	log.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "project deleted successfully"})
}
