package model

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer type choices
const (
	CustomerTypeIndividual   = "individual"
	CustomerTypeBusiness     = "business"
	CustomerTypeOrganization = "organization"
)

// Customer status choices
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
	CustomerStatusProspect = "prospect"
	CustomerStatusLead     = "lead"
)

// CustomerTypeLabels maps customer type codes to display labels
var CustomerTypeLabels = map[string]string{
	CustomerTypeIndividual:   "Individual",
	CustomerTypeBusiness:     "Business",
	CustomerTypeOrganization: "Organization",
}

// CustomerStatusLabels maps customer status codes to display labels
var CustomerStatusLabels = map[string]string{
	CustomerStatusActive:   "Active",
	CustomerStatusInactive: "Inactive",
	CustomerStatusProspect: "Prospect",
	CustomerStatusLead:     "Lead",
}

// Phone numbers must be in the Kenyan format +254XXXXXXXXX
var phoneRegexp = regexp.MustCompile(`^\+254[0-9]{9}$`)

// ValidPhone reports whether the phone number matches the required format
func ValidPhone(phone string) bool {
	return phoneRegexp.MatchString(phone)
}

// Customer represents a CRM customer record owned by an account
type Customer struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	CustomerID string    `json:"customer_id" gorm:"type:varchar(20);uniqueIndex"`
	FirstName  string    `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName   string    `json:"last_name" gorm:"type:varchar(100);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(15);index"`
	Gender     string    `json:"gender,omitempty" gorm:"type:varchar(1)"`

	CustomerType string `json:"customer_type" gorm:"type:varchar(20);index;default:'individual'"`
	Status       string `json:"status" gorm:"type:varchar(20);index;default:'prospect'"`

	// Address information
	Address    string `json:"address,omitempty" gorm:"type:text"`
	City       string `json:"city,omitempty" gorm:"type:varchar(100)"`
	County     string `json:"county,omitempty" gorm:"type:varchar(100)"`
	Country    string `json:"country" gorm:"type:varchar(100);default:'Kenya'"`
	PostalCode string `json:"postal_code,omitempty" gorm:"type:varchar(10)"`

	// Business information
	CompanyName string `json:"company_name,omitempty" gorm:"type:varchar(200)"`
	JobTitle    string `json:"job_title,omitempty" gorm:"type:varchar(100)"`
	Industry    string `json:"industry,omitempty" gorm:"type:varchar(100)"`

	// Additional information
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Notes            string     `json:"notes,omitempty" gorm:"type:text"`
	Tags             string     `json:"tags,omitempty" gorm:"type:varchar(500)"` // comma-separated
	IsPrimaryContact bool       `json:"is_primary_contact" gorm:"default:false"`

	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	LastContacted *time.Time     `json:"last_contacted,omitempty"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName returns the customer's full name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// StatusDisplay returns the display label for the customer's status
func (c *Customer) StatusDisplay() string {
	if label, ok := CustomerStatusLabels[c.Status]; ok {
		return label
	}
	return c.Status
}

// TypeDisplay returns the display label for the customer's type
func (c *Customer) TypeDisplay() string {
	if label, ok := CustomerTypeLabels[c.CustomerType]; ok {
		return label
	}
	return c.CustomerType
}

// BeforeCreate assigns the record ID and the human-readable customer ID.
// The customer ID is set once at creation and never changes.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CustomerID == "" {
		c.CustomerID = fmt.Sprintf("CUS%06d", rand.Intn(900000)+100000)
	}
	return nil
}
