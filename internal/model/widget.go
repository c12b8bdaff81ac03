package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Widget type choices
const (
	WidgetTypeChart    = "chart"
	WidgetTypeMetric   = "metric"
	WidgetTypeTable    = "table"
	WidgetTypeMap      = "map"
	WidgetTypeCalendar = "calendar"
	WidgetTypeList     = "list"
)

// WidgetTypeLabels maps widget type codes to display labels
var WidgetTypeLabels = map[string]string{
	WidgetTypeChart:    "Chart",
	WidgetTypeMetric:   "Metric",
	WidgetTypeTable:    "Table",
	WidgetTypeMap:      "Map",
	WidgetTypeCalendar: "Calendar",
	WidgetTypeList:     "List",
}

// DashboardWidget is a user-configurable dashboard element. Configuration is
// an opaque JSON blob interpreted by the widget renderer.
type DashboardWidget struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uint            `json:"user_id" gorm:"index;not null"`
	Name          string          `json:"name" gorm:"type:varchar(100);not null"`
	WidgetType    string          `json:"widget_type" gorm:"type:varchar(20);not null"`
	Description   string          `json:"description,omitempty" gorm:"type:text"`
	Configuration json.RawMessage `json:"configuration,omitempty" gorm:"type:jsonb"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	Position      int             `json:"position" gorm:"default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TypeDisplay returns the display label for the widget's type
func (w *DashboardWidget) TypeDisplay() string {
	if label, ok := WidgetTypeLabels[w.WidgetType]; ok {
		return label
	}
	return w.WidgetType
}

func (w *DashboardWidget) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// QuickAction is a user-configurable dashboard shortcut
type QuickAction struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(50);not null"`
	Icon        string    `json:"icon" gorm:"type:varchar(50)"`
	URL         string    `json:"url" gorm:"type:varchar(200)"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	Position    int       `json:"position" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (q *QuickAction) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
