package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/dashboard"
	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardIndex(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Notification{
		UserID: 1, Title: "Welcome", CreatedAt: time.Now(),
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard", "", 1)
	require.NoError(t, DashboardIndex(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Title string `json:"title"`
		Site  struct {
			Name string `json:"name"`
		} `json:"site"`
		Dashboard dashboard.View `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Dashboard", body.Title)
	assert.NotEmpty(t, body.Site.Name)
	require.NotNil(t, body.Dashboard.Stats)
	assert.Equal(t, int64(1), body.Dashboard.UnreadCount)
}

func TestGetDashboardData(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.SystemStats{
		Date: "2025-03-19", TotalCustomers: 11, TotalProjects: 4,
	}).Error)
	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Joy", LastName: "Achieng", Email: "joy@example.com",
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard/api/dashboard-data", "", 1)
	require.NoError(t, GetDashboardData(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary dashboard.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(11), summary.Stats.TotalCustomers)
	require.Len(t, summary.RecentCustomers, 1)
	assert.Equal(t, "Joy Achieng", summary.RecentCustomers[0].Name)
}

func TestDashboardAnalyticsDaysValidation(t *testing.T) {
	setupTestDB(t)

	for _, raw := range []string{"abc", "0", "-5", "1.5"} {
		c, rec := newTestContext(t, http.MethodGet, "/dashboard/analytics?days="+raw, "", 1)
		require.NoError(t, DashboardAnalytics(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", raw)
	}
}

func TestDashboardAnalytics(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Recent", LastName: "Signup", Email: "recent@example.com",
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard/analytics?days=7", "", 1)
	require.NoError(t, DashboardAnalytics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analytics dashboard.Report `json:"analytics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Analytics.Days)
	require.Len(t, body.Analytics.CustomersOverTime, 1)
	assert.Equal(t, int64(1), body.Analytics.CustomersOverTime[0].Count)
}

func TestDashboardAnalyticsDefaultWindow(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard/analytics", "", 1)
	require.NoError(t, DashboardAnalytics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Analytics dashboard.Report `json:"analytics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, dashboard.DefaultAnalyticsDays, body.Analytics.Days)
}

func TestWidgetData(t *testing.T) {
	db := setupTestDB(t)

	widget := model.DashboardWidget{
		UserID:        1,
		Name:          "Customer growth",
		WidgetType:    model.WidgetTypeChart,
		Configuration: []byte(`{"period":"monthly"}`),
		IsActive:      true,
	}
	require.NoError(t, db.Create(&widget).Error)

	c, rec := newTestContext(t, http.MethodGet, "/", "", 1)
	c.SetPath("/dashboard/widgets/:id/data")
	c.SetParamNames("id")
	c.SetParamValues(widget.ID.String())

	require.NoError(t, WidgetData(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var desc dashboard.WidgetDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &desc))
	assert.Equal(t, widget.ID, desc.ID)
	assert.Equal(t, "Customer growth", desc.Name)
}

func TestWidgetDataCrossAccount(t *testing.T) {
	db := setupTestDB(t)

	widget := model.DashboardWidget{
		UserID: 1, Name: "Private", WidgetType: model.WidgetTypeMetric, IsActive: true,
	}
	require.NoError(t, db.Create(&widget).Error)

	c, rec := newTestContext(t, http.MethodGet, "/", "", 2)
	c.SetPath("/dashboard/widgets/:id/data")
	c.SetParamNames("id")
	c.SetParamValues(widget.ID.String())

	require.NoError(t, WidgetData(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgetDataInvalidID(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodGet, "/", "", 1)
	c.SetPath("/dashboard/widgets/:id/data")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	require.NoError(t, WidgetData(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(t, http.MethodGet, "/", "", 1)
	c.SetPath("/dashboard/widgets/:id/data")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	require.NoError(t, WidgetData(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecomputeStatsHandler(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Only", LastName: "Customer", Email: "only@example.com",
	}).Error)

	c, rec := newTestContext(t, http.MethodPost, "/dashboard/stats/recompute", "", 1)
	require.NoError(t, RecomputeStats(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats model.SystemStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.NotEmpty(t, stats.Date)
}
