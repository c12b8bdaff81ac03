package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComposeEmptyAccount(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	view, err := Compose(db, 1, now, time.UTC)
	require.NoError(t, err)

	require.NotNil(t, view.Stats)
	assert.Equal(t, "2025-03-10", view.Stats.Date)
	assert.Empty(t, view.Widgets)
	assert.Empty(t, view.QuickActions)
	assert.Empty(t, view.Notifications)
	assert.Empty(t, view.RecentCustomers)
	assert.Empty(t, view.RecentProjects)
	assert.Empty(t, view.RecentPayments)
	assert.Equal(t, int64(0), view.UnreadCount)
	assert.Equal(t, int64(0), view.MonthCustomers)
	assert.Equal(t, float64(0), view.MonthRevenue)
	assert.Equal(t, int64(0), view.ActiveProjects)
}

func TestComposeSnapshotDateUsesReportingTimezone(t *testing.T) {
	db := setupTestDB(t)
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	// 22:30 UTC on March 9 is already March 10 in Nairobi; the lazily
	// created snapshot must carry the reporting timezone's calendar date
	now := time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC)

	view, err := Compose(db, 1, now, nairobi)
	require.NoError(t, err)
	require.NotNil(t, view.Stats)
	assert.Equal(t, "2025-03-10", view.Stats.Date)
}

func TestComposeCapsAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		n := model.Notification{
			UserID:    1,
			Title:     fmt.Sprintf("Note %d", i),
			Priority:  model.NotificationPriorityMedium,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&n).Error)
	}
	for i := 0; i < 7; i++ {
		c := model.Customer{
			UserID:    1,
			FirstName: "Customer",
			LastName:  fmt.Sprintf("Number%d", i),
			Email:     fmt.Sprintf("c%d@example.com", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&c).Error)
	}
	for i := 0; i < 10; i++ {
		q := model.QuickAction{
			UserID:   1,
			Name:     fmt.Sprintf("Action %d", i),
			IsActive: true,
			Position: i,
		}
		require.NoError(t, db.Create(&q).Error)
	}

	view, err := Compose(db, 1, now, time.UTC)
	require.NoError(t, err)

	require.Len(t, view.Notifications, 5)
	assert.Equal(t, "Note 0", view.Notifications[0].Title)
	assert.Equal(t, "Note 4", view.Notifications[4].Title)
	assert.Equal(t, int64(7), view.UnreadCount)

	require.Len(t, view.RecentCustomers, 5)
	assert.Equal(t, "Number0", view.RecentCustomers[0].LastName)

	require.Len(t, view.QuickActions, 8)
	assert.Equal(t, "Action 0", view.QuickActions[0].Name)
}

func TestComposeAccountIsolation(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.Notification{
		UserID: 1, Title: "Mine", CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.Notification{
		UserID: 2, Title: "Theirs", CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&model.Customer{
		UserID: 2, FirstName: "Other", LastName: "Account", Email: "other@example.com",
	}).Error)
	require.NoError(t, db.Create(&model.DashboardWidget{
		UserID: 2, Name: "Revenue", WidgetType: model.WidgetTypeChart, IsActive: true,
	}).Error)

	view, err := Compose(db, 1, now, time.UTC)
	require.NoError(t, err)

	require.Len(t, view.Notifications, 1)
	assert.Equal(t, "Mine", view.Notifications[0].Title)
	assert.Equal(t, int64(1), view.UnreadCount)
	assert.Empty(t, view.RecentCustomers)
	assert.Empty(t, view.Widgets)
}

func TestComposeMonthMetrics(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	// One customer this month, one from February
	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "March", LastName: "Signup", Email: "march@example.com",
		CreatedAt: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&model.Customer{
		UserID: 1, FirstName: "Feb", LastName: "Signup", Email: "feb@example.com",
		CreatedAt: time.Date(2025, 2, 25, 10, 0, 0, 0, time.UTC),
	}).Error)

	// Only completed payments inside the month count toward revenue
	require.NoError(t, db.Create(&model.Payment{
		UserID: 1, Amount: 2000, Status: model.PaymentStatusCompleted,
		PaymentMethod: model.PaymentMethodMpesa, Reference: "M-001",
		CreatedAt: time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&model.Payment{
		UserID: 1, Amount: 999, Status: model.PaymentStatusPending,
		PaymentMethod: model.PaymentMethodMpesa, Reference: "M-002",
		CreatedAt: time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&model.Payment{
		UserID: 1, Amount: 500, Status: model.PaymentStatusCompleted,
		PaymentMethod: model.PaymentMethodCash, Reference: "M-003",
		CreatedAt: time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC),
	}).Error)

	require.NoError(t, db.Create(&model.Project{
		UserID: 1, Name: "Active one", Status: model.ProjectStatusInProgress,
	}).Error)
	require.NoError(t, db.Create(&model.Project{
		UserID: 1, Name: "Planned one", Status: model.ProjectStatusPlanning,
	}).Error)
	require.NoError(t, db.Create(&model.Project{
		UserID: 1, Name: "Done one", Status: model.ProjectStatusCompleted,
	}).Error)

	view, err := Compose(db, 1, now, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, int64(1), view.MonthCustomers)
	assert.Equal(t, float64(2000), view.MonthRevenue)
	assert.Equal(t, int64(2), view.ActiveProjects)
}

func TestDataSummary(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.SystemStats{
		Date: "2025-03-19", TotalCustomers: 42, TotalProjects: 9,
		TotalRevenue: 120000, ActiveSubscriptions: 5,
	}).Error)

	for i := 0; i < 12; i++ {
		c := model.Customer{
			UserID:    1,
			FirstName: "Cust",
			LastName:  fmt.Sprintf("N%d", i),
			Email:     fmt.Sprintf("n%d@example.com", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&c).Error)
	}
	require.NoError(t, db.Create(&model.Notification{UserID: 1, Title: "Unread", CreatedAt: now}).Error)
	require.NoError(t, db.Create(&model.Notification{UserID: 1, Title: "Read", IsRead: true, CreatedAt: now}).Error)

	summary, err := Data(db, 1, now)
	require.NoError(t, err)

	assert.Equal(t, int64(42), summary.Stats.TotalCustomers)
	assert.Equal(t, float64(120000), summary.Stats.TotalRevenue)
	require.Len(t, summary.RecentCustomers, 10)
	assert.Equal(t, "Cust N0", summary.RecentCustomers[0].Name)
	assert.Equal(t, int64(1), summary.UnreadNotifications)
	assert.Equal(t, now, summary.LastUpdated)
}

func TestDataWithoutSnapshotReportsZeros(t *testing.T) {
	db := setupTestDB(t)

	summary, err := Data(db, 1, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, SummaryStats{}, summary.Stats)

	// Data must not create a snapshot as a side effect
	var count int64
	require.NoError(t, db.Model(&model.SystemStats{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWidgetPayload(t *testing.T) {
	db := setupTestDB(t)

	widget := model.DashboardWidget{
		UserID:        1,
		Name:          "Monthly revenue",
		WidgetType:    model.WidgetTypeChart,
		Configuration: []byte(`{"chart":"line"}`),
		IsActive:      true,
	}
	require.NoError(t, db.Create(&widget).Error)

	desc, err := WidgetPayload(db, 1, widget.ID)
	require.NoError(t, err)
	assert.Equal(t, widget.ID, desc.ID)
	assert.Equal(t, "Monthly revenue", desc.Name)
	assert.Equal(t, model.WidgetTypeChart, desc.Type)
	assert.JSONEq(t, `{"chart":"line"}`, string(desc.Data))

	// Another account's widget is indistinguishable from a missing one
	_, err = WidgetPayload(db, 2, widget.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = WidgetPayload(db, 1, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
