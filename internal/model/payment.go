package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment status choices
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
)

// Payment method choices
const (
	PaymentMethodStripe       = "stripe"
	PaymentMethodMpesa        = "mpesa"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
	PaymentMethodCheque       = "cheque"
)

// PaymentStatusLabels maps payment status codes to display labels
var PaymentStatusLabels = map[string]string{
	PaymentStatusPending:    "Pending",
	PaymentStatusProcessing: "Processing",
	PaymentStatusCompleted:  "Completed",
	PaymentStatusFailed:     "Failed",
	PaymentStatusCancelled:  "Cancelled",
	PaymentStatusRefunded:   "Refunded",
}

// PaymentMethodLabels maps payment method codes to display labels
var PaymentMethodLabels = map[string]string{
	PaymentMethodStripe:       "Credit/Debit Card",
	PaymentMethodMpesa:        "M-PESA",
	PaymentMethodBankTransfer: "Bank Transfer",
	PaymentMethodCash:         "Cash",
	PaymentMethodCheque:       "Cheque",
}

// Payment represents a payment record owned by an account. Gateway
// integration (Stripe/M-PESA) happens upstream; this is the ledger entry.
type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uint            `json:"user_id" gorm:"index;not null"`
	Amount        float64         `json:"amount" gorm:"not null"`
	Currency      string          `json:"currency" gorm:"type:varchar(3);default:'KES'"`
	Status        string          `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(20);not null"`
	Reference     string          `json:"reference" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description   string          `json:"description,omitempty" gorm:"type:text"`
	Metadata      json.RawMessage `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// StatusDisplay returns the display label for the payment's status
func (p *Payment) StatusDisplay() string {
	if label, ok := PaymentStatusLabels[p.Status]; ok {
		return label
	}
	return p.Status
}

// MethodDisplay returns the display label for the payment's method
func (p *Payment) MethodDisplay() string {
	if label, ok := PaymentMethodLabels[p.PaymentMethod]; ok {
		return label
	}
	return p.PaymentMethod
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
