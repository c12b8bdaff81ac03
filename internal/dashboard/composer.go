package dashboard

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Caps on the lists a composed dashboard carries
const (
	recentLimit        = 5
	quickActionLimit   = 8
	summaryRecentLimit = 10
)

// View is the fully composed dashboard for one account
type View struct {
	Stats         *model.SystemStats      `json:"stats"`
	Widgets       []model.DashboardWidget `json:"user_widgets"`
	QuickActions  []model.QuickAction     `json:"quick_actions"`
	Notifications []model.Notification    `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`

	RecentCustomers []model.Customer `json:"recent_customers"`
	RecentProjects  []model.Project  `json:"recent_projects"`
	RecentPayments  []model.Payment  `json:"recent_payments"`

	// Current-month metrics, computed from month start in the configured timezone
	MonthCustomers int64   `json:"month_customers"`
	MonthRevenue   float64 `json:"month_revenue"`
	ActiveProjects int64   `json:"active_projects"`

	CurrentDate time.Time `json:"current_date"`
}

// Compose assembles the dashboard view for an account: the latest stats
// snapshot, configured widgets and quick actions, recent records across
// domains, notification state, and derived current-month metrics.
func Compose(db *gorm.DB, userID uint, now time.Time, loc *time.Location) (*View, error) {
	// All calendar arithmetic, including the snapshot date a first read may
	// persist, uses the reporting timezone rather than the host's
	now = now.In(loc)
	view := &View{CurrentDate: now}

	stats, err := LatestStats(db, now)
	if err != nil {
		return nil, err
	}
	view.Stats = stats

	if err := db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("position, name").
		Find(&view.Widgets).Error; err != nil {
		return nil, err
	}

	if err := db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("position, name").
		Limit(quickActionLimit).
		Find(&view.QuickActions).Error; err != nil {
		return nil, err
	}

	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&view.Notifications).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&view.UnreadCount).Error; err != nil {
		return nil, err
	}

	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&view.RecentCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&view.RecentProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&view.RecentPayments).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	if err := db.Model(&model.Customer{}).
		Where("user_id = ? AND created_at >= ?", userID, monthStart).
		Count(&view.MonthCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, model.PaymentStatusCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&view.MonthRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Project{}).
		Where("user_id = ? AND status IN ?", userID, []string{model.ProjectStatusInProgress, model.ProjectStatusPlanning}).
		Count(&view.ActiveProjects).Error; err != nil {
		return nil, err
	}

	return view, nil
}

// Summary is the machine-readable dashboard payload
type Summary struct {
	Stats               SummaryStats      `json:"stats"`
	RecentCustomers     []CustomerSummary `json:"recent_customers"`
	RecentProjects      []ProjectSummary  `json:"recent_projects"`
	RecentPayments      []PaymentSummary  `json:"recent_payments"`
	UnreadNotifications int64             `json:"unread_notifications"`
	LastUpdated         time.Time         `json:"last_updated"`
}

type SummaryStats struct {
	TotalCustomers      int64   `json:"total_customers"`
	TotalProjects       int64   `json:"total_projects"`
	TotalRevenue        float64 `json:"total_revenue"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
}

type CustomerSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentSummary struct {
	ID        uuid.UUID `json:"id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

// Data builds the JSON dashboard summary for an account: ten recent records
// per category, headline stats, and the unread notification count. Unlike
// Compose it does not create a snapshot when none exists; it reports zeros.
func Data(db *gorm.DB, userID uint, now time.Time) (*Summary, error) {
	summary := &Summary{LastUpdated: now}

	var stats model.SystemStats
	err := db.Order("date DESC").First(&stats).Error
	if err == nil {
		summary.Stats = SummaryStats{
			TotalCustomers:      stats.TotalCustomers,
			TotalProjects:       stats.TotalProjects,
			TotalRevenue:        stats.TotalRevenue,
			ActiveSubscriptions: stats.ActiveSubscriptions,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var customers []model.Customer
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(summaryRecentLimit).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	summary.RecentCustomers = make([]CustomerSummary, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		summary.RecentCustomers = append(summary.RecentCustomers, CustomerSummary{
			ID:        c.ID,
			Name:      c.FullName(),
			Email:     c.Email,
			CreatedAt: c.CreatedAt,
		})
	}

	var projects []model.Project
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(summaryRecentLimit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	summary.RecentProjects = make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		summary.RecentProjects = append(summary.RecentProjects, ProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			Status:    p.StatusDisplay(),
			CreatedAt: p.CreatedAt,
		})
	}

	var payments []model.Payment
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(summaryRecentLimit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	summary.RecentPayments = make([]PaymentSummary, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		summary.RecentPayments = append(summary.RecentPayments, PaymentSummary{
			ID:        p.ID,
			Amount:    p.Amount,
			Status:    p.StatusDisplay(),
			Method:    p.MethodDisplay(),
			CreatedAt: p.CreatedAt,
		})
	}

	if err := db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&summary.UnreadNotifications).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

// WidgetDescriptor is the payload served for a single widget
type WidgetDescriptor struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// WidgetPayload returns the descriptor for one widget. A widget that does
// not exist or belongs to another account yields gorm.ErrRecordNotFound.
func WidgetPayload(db *gorm.DB, userID uint, widgetID uuid.UUID) (*WidgetDescriptor, error) {
	var widget model.DashboardWidget
	if err := db.Where("id = ? AND user_id = ?", widgetID, userID).First(&widget).Error; err != nil {
		return nil, err
	}
	return &WidgetDescriptor{
		ID:        widget.ID,
		Name:      widget.Name,
		Type:      widget.WidgetType,
		Data:      widget.Configuration,
		CreatedAt: widget.CreatedAt,
	}, nil
}
