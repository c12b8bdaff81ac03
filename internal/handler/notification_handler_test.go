package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, db *gorm.DB, userID uint, title string, read bool, createdAt time.Time) model.Notification {
	t.Helper()
	n := model.Notification{
		UserID:    userID,
		Title:     title,
		Message:   "test message",
		Priority:  model.NotificationPriorityMedium,
		IsRead:    read,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&n).Error)
	return n
}

func TestListNotifications(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	seedNotification(t, db, 1, "Older", false, now.Add(-2*time.Hour))
	seedNotification(t, db, 1, "Newer", true, now.Add(-1*time.Hour))
	seedNotification(t, db, 2, "Not mine", false, now)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard/notifications", "", 1)
	require.NoError(t, ListNotifications(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Newer", got[0].Title)
	assert.Equal(t, "Older", got[1].Title)
}

func TestMarkNotificationRead(t *testing.T) {
	db := setupTestDB(t)
	n := seedNotification(t, db, 1, "Unread", false, time.Now())

	c, rec := newTestContext(t, http.MethodPost, "/", "", 1)
	c.SetPath("/dashboard/notifications/:id/mark-read")
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Notification marked as read", body["message"])

	var stored model.Notification
	require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestMarkNotificationReadIdempotent(t *testing.T) {
	db := setupTestDB(t)
	n := seedNotification(t, db, 1, "Already read", true, time.Now())

	c, rec := newTestContext(t, http.MethodPost, "/", "", 1)
	c.SetPath("/dashboard/notifications/:id/mark-read")
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stored model.Notification
	require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestMarkNotificationReadCrossAccount(t *testing.T) {
	db := setupTestDB(t)
	n := seedNotification(t, db, 1, "Owned by account 1", false, time.Now())

	c, rec := newTestContext(t, http.MethodPost, "/", "", 2)
	c.SetPath("/dashboard/notifications/:id/mark-read")
	c.SetParamNames("id")
	c.SetParamValues(n.ID.String())

	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The foreign account must not flip the read flag
	var stored model.Notification
	require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
	assert.False(t, stored.IsRead)
}

func TestMarkNotificationReadInvalidID(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodPost, "/", "", 1)
	c.SetPath("/dashboard/notifications/:id/mark-read")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkNotificationReadMissing(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodPost, "/", "", 1)
	c.SetPath("/dashboard/notifications/:id/mark-read")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	require.NoError(t, MarkNotificationRead(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	seedNotification(t, db, 1, "First unread", false, now.Add(-time.Hour))
	seedNotification(t, db, 1, "Second unread", false, now)
	seedNotification(t, db, 1, "Already read", true, now)
	other := seedNotification(t, db, 2, "Other account", false, now)

	c, rec := newTestContext(t, http.MethodPost, "/dashboard/notifications/mark-all-read", "", 1)
	require.NoError(t, MarkAllNotificationsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var unread int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", uint(1), false).
		Count(&unread).Error)
	assert.Equal(t, int64(0), unread)

	var stored model.Notification
	require.NoError(t, db.First(&stored, "id = ?", other.ID).Error)
	assert.False(t, stored.IsRead)
}

func TestMarkAllNotificationsReadNoop(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodPost, "/dashboard/notifications/mark-all-read", "", 1)
	require.NoError(t, MarkAllNotificationsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnreadNotificationCount(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	seedNotification(t, db, 1, "Unread one", false, now)
	seedNotification(t, db, 1, "Unread two", false, now)
	seedNotification(t, db, 1, "Read one", true, now)
	seedNotification(t, db, 2, "Other account", false, now)

	c, rec := newTestContext(t, http.MethodGet, "/dashboard/notifications/unread-count", "", 1)
	require.NoError(t, UnreadNotificationCount(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body["unread_count"])
}
