package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification priority choices. Priority has no behavioral effect beyond
// display ordering hints in the UI.
const (
	NotificationPriorityLow      = "low"
	NotificationPriorityMedium   = "medium"
	NotificationPriorityHigh     = "high"
	NotificationPriorityCritical = "critical"
)

// NotificationPriorityLabels maps priority codes to display labels
var NotificationPriorityLabels = map[string]string{
	NotificationPriorityLow:      "Low",
	NotificationPriorityMedium:   "Medium",
	NotificationPriorityHigh:     "High",
	NotificationPriorityCritical: "Critical",
}

// Notification is an account-scoped message. Immutable once created except
// for the read flag, which only moves from unread to read.
type Notification struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Message   string    `json:"message" gorm:"type:text"`
	Priority  string    `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	ActionURL string    `json:"action_url,omitempty" gorm:"type:varchar(200)"`
	CreatedAt time.Time `json:"created_at"`
}

// PriorityDisplay returns the display label for the notification's priority
func (n *Notification) PriorityDisplay() string {
	if label, ok := NotificationPriorityLabels[n.Priority]; ok {
		return label
	}
	return n.Priority
}

// TimeSinceCreated returns the notification age in a human readable form
func (n *Notification) TimeSinceCreated(now time.Time) string {
	diff := now.Sub(n.CreatedAt)
	switch {
	case diff >= 24*time.Hour:
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case diff >= time.Hour:
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case diff >= time.Minute:
		minutes := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	default:
		return "Just now"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
