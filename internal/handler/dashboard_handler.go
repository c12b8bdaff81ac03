package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/dashboard"
	"github.com/OumaCavin/DataLinkCRM/internal/middleware"
	"github.com/OumaCavin/DataLinkCRM/pkg/cache"
	"github.com/OumaCavin/DataLinkCRM/pkg/database"
	"github.com/OumaCavin/DataLinkCRM/pkg/logger"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardIndex handles the main dashboard view with the full overview
func DashboardIndex(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.DashboardViewsCounter.Inc()

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	defer prometheus.TrackDBOperation("compose_dashboard")(time.Now())
	view, err := dashboard.Compose(database.GetDB(), userID, time.Now(), loc)
	if err != nil {
		log.Error("Failed to compose dashboard", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard"})
	}

	log.Info("Dashboard composed",
		zap.Uint("user_id", userID),
		zap.Int("widgets", len(view.Widgets)),
		zap.Int64("unread", view.UnreadCount))

	return c.JSON(http.StatusOK, echo.Map{
		"title": "Dashboard",
		"site": echo.Map{
			"name":        cfg.Site.Name,
			"description": cfg.Site.Description,
			"company":     cfg.Site.CompanyName,
		},
		"dashboard": view,
	})
}

// GetDashboardData handles the machine-readable dashboard summary endpoint.
// The summary is served from the Redis cache when a fresh copy exists.
func GetDashboardData(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	ctx := c.Request().Context()
	key := cache.DashboardDataKey(userID)
	if cached, err := cache.Get(ctx, key); err == nil {
		prometheus.RecordCacheResult("hit")
		log.Debug("Dashboard data served from cache", zap.Uint("user_id", userID))
		return c.JSONBlob(http.StatusOK, []byte(cached))
	}
	prometheus.RecordCacheResult("miss")

	defer prometheus.TrackDBOperation("dashboard_data")(time.Now())
	summary, err := dashboard.Data(database.GetDB(), userID, time.Now())
	if err != nil {
		log.Error("Failed to build dashboard data", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard data"})
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := cache.Set(ctx, key, string(payload), cfg.Redis.DashboardTTL); err != nil && !errors.Is(err, cache.ErrNotInitialized) {
			log.Warn("Failed to cache dashboard data", zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, summary)
}

// DashboardAnalytics handles the analytics view with time-series and
// distribution metrics over a trailing window
func DashboardAnalytics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AnalyticsViewsCounter.Inc()

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	days := dashboard.DefaultAnalyticsDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			log.Warn("Invalid days parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be a positive integer"})
		}
		days = parsed
	}

	defer prometheus.TrackDBOperation("analytics")(time.Now())
	report, err := dashboard.Analytics(database.GetDB(), userID, days, loc, time.Now())
	if err != nil {
		log.Error("Failed to build analytics report",
			zap.Uint("user_id", userID),
			zap.Int("days", days),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"title":     "Analytics",
		"analytics": report,
	})
}

// WidgetData handles retrieving the descriptor for a single widget
func WidgetData(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.WidgetDataRequestsCounter.Inc()

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing account context"})
	}

	widgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("Invalid widget ID", zap.String("widget_id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid widget id"})
	}

	descriptor, err := dashboard.WidgetPayload(database.GetDB(), userID, widgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Widget not found",
				zap.String("widget_id", widgetID.String()),
				zap.Uint("user_id", userID))
			return c.JSON(http.StatusNotFound, echo.Map{"error": "widget not found"})
		}
		log.Error("Failed to load widget data", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load widget data"})
	}

	return c.JSON(http.StatusOK, descriptor)
}

// RecomputeStats handles on-demand recomputation of the system stats snapshot
func RecomputeStats(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("recompute_stats")(time.Now())
	stats, err := dashboard.RecomputeStats(database.GetDB(), time.Now().In(loc))
	if err != nil {
		log.Error("Failed to recompute system stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to recompute stats"})
	}

	log.Info("System stats recomputed",
		zap.String("date", stats.Date),
		zap.Int64("total_customers", stats.TotalCustomers),
		zap.Int64("total_projects", stats.TotalProjects))
	return c.JSON(http.StatusOK, stats)
}
