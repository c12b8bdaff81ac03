package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project status choices
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// ProjectStatusLabels maps project status codes to display labels
var ProjectStatusLabels = map[string]string{
	ProjectStatusPlanning:   "Planning",
	ProjectStatusInProgress: "In Progress",
	ProjectStatusOnHold:     "On Hold",
	ProjectStatusCompleted:  "Completed",
	ProjectStatusCancelled:  "Cancelled",
}

// Project represents a customer project owned by an account
type Project struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty" gorm:"type:uuid;index"`
	Name        string     `json:"name" gorm:"type:varchar(200);not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Status      string     `json:"status" gorm:"type:varchar(20);index;default:'planning'"`
	Budget      float64    `json:"budget" gorm:"default:0"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// StatusDisplay returns the display label for the project's status
func (p *Project) StatusDisplay() string {
	if label, ok := ProjectStatusLabels[p.Status]; ok {
		return label
	}
	return p.Status
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
