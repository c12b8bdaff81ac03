package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription status choices
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusInactive  = "inactive"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusSuspended = "suspended"
)

// Subscription plan choices
const (
	SubscriptionPlanBasic      = "basic"
	SubscriptionPlanPro        = "pro"
	SubscriptionPlanEnterprise = "enterprise"
)

// SubscriptionPlanLabels maps plan codes to display labels
var SubscriptionPlanLabels = map[string]string{
	SubscriptionPlanBasic:      "Basic",
	SubscriptionPlanPro:        "Pro",
	SubscriptionPlanEnterprise: "Enterprise",
}

// SubscriptionStatusLabels maps subscription status codes to display labels
var SubscriptionStatusLabels = map[string]string{
	SubscriptionStatusActive:    "Active",
	SubscriptionStatusInactive:  "Inactive",
	SubscriptionStatusCancelled: "Cancelled",
	SubscriptionStatusExpired:   "Expired",
	SubscriptionStatusSuspended: "Suspended",
}

// Subscription represents a billing subscription owned by an account
type Subscription struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	Plan         string     `json:"plan" gorm:"type:varchar(20);not null"`
	Status       string     `json:"status" gorm:"type:varchar(20);index;default:'active'"`
	Amount       float64    `json:"amount" gorm:"not null"`
	Currency     string     `json:"currency" gorm:"type:varchar(3);default:'KES'"`
	BillingCycle string     `json:"billing_cycle" gorm:"type:varchar(20);default:'monthly'"` // monthly, yearly
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	AutoRenew    bool       `json:"auto_renew" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// PlanDisplay returns the display label for the subscription's plan
func (s *Subscription) PlanDisplay() string {
	if label, ok := SubscriptionPlanLabels[s.Plan]; ok {
		return label
	}
	return s.Plan
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
