package model

import "time"

// StatsDateFormat is the calendar-date key used for SystemStats rows
const StatsDateFormat = "2006-01-02"

// SystemStats is one dated snapshot of aggregated system metrics. Rows are
// append-only by convention: a new date means a new row, and existing rows
// change only through explicit recomputation. The date carries a uniqueness
// constraint so concurrent first reads cannot create duplicates.
type SystemStats struct {
	ID                  uint    `json:"id" gorm:"primaryKey"`
	Date                string  `json:"date" gorm:"type:date;uniqueIndex;not null"`
	TotalCustomers      int64   `json:"total_customers" gorm:"default:0"`
	TotalProjects       int64   `json:"total_projects" gorm:"default:0"`
	TotalRevenue        float64 `json:"total_revenue" gorm:"default:0"`
	ActiveSubscriptions int64   `json:"active_subscriptions" gorm:"default:0"`
	NewCustomersToday   int64   `json:"new_customers_today" gorm:"default:0"`
	ProjectsCompleted   int64   `json:"projects_completed" gorm:"default:0"`
	PaymentSuccessRate  float64 `json:"payment_success_rate" gorm:"default:0"` // percentage, 0-100
	AverageResponseTime float64 `json:"average_response_time" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
