package dashboard

import (
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/model"

	"gorm.io/gorm"
)

// DefaultAnalyticsDays is the trailing window used when no period is given
const DefaultAnalyticsDays = 30

// CountPoint is one day of a count series
type CountPoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// TotalPoint is one day of a sum series
type TotalPoint struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
}

// Distribution is one bucket of a frequency distribution
type Distribution struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// Report carries time-series and distribution analytics for one account
type Report struct {
	Days              int            `json:"days"`
	CustomersOverTime []CountPoint   `json:"customers_over_time"`
	RevenueOverTime   []TotalPoint   `json:"revenue_over_time"`
	ProjectStatusDist []Distribution `json:"project_status_dist"`
	PaymentMethodDist []Distribution `json:"payment_method_dist"`
}

// Analytics builds the analytics report for an account: per-day new-customer
// counts and completed-payment sums over the trailing window, plus status and
// payment-method distributions over all of the account's records. Day
// bucketing truncates timestamps to the calendar date in loc, so the series
// is stable across database dialects.
func Analytics(db *gorm.DB, userID uint, days int, loc *time.Location, now time.Time) (*Report, error) {
	report := &Report{Days: days}

	// The window covers exactly `days` calendar dates ending today, so the
	// start is midnight in loc rather than the raw now-days instant. Keeping
	// the clock time would admit a partial extra day at the boundary.
	local := now.In(loc)
	startDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))

	var customers []model.Customer
	if err := db.Select("created_at").
		Where("user_id = ? AND created_at >= ?", userID, startDate).
		Order("created_at").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	customerDays := make(map[string]int64)
	var customerOrder []string
	for i := range customers {
		day := customers[i].CreatedAt.In(loc).Format(model.StatsDateFormat)
		if _, seen := customerDays[day]; !seen {
			customerOrder = append(customerOrder, day)
		}
		customerDays[day]++
	}
	report.CustomersOverTime = make([]CountPoint, 0, len(customerOrder))
	for _, day := range customerOrder {
		report.CustomersOverTime = append(report.CustomersOverTime, CountPoint{Day: day, Count: customerDays[day]})
	}

	var payments []model.Payment
	if err := db.Select("created_at, amount").
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, model.PaymentStatusCompleted, startDate).
		Order("created_at").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	revenueDays := make(map[string]float64)
	var revenueOrder []string
	for i := range payments {
		day := payments[i].CreatedAt.In(loc).Format(model.StatsDateFormat)
		if _, seen := revenueDays[day]; !seen {
			revenueOrder = append(revenueOrder, day)
		}
		revenueDays[day] += payments[i].Amount
	}
	report.RevenueOverTime = make([]TotalPoint, 0, len(revenueOrder))
	for _, day := range revenueOrder {
		report.RevenueOverTime = append(report.RevenueOverTime, TotalPoint{Day: day, Total: revenueDays[day]})
	}

	// Distributions cover all records for the account, not just the window
	if err := db.Model(&model.Project{}).
		Select("status as value, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Order("status").
		Scan(&report.ProjectStatusDist).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Select("payment_method as value, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("payment_method").
		Order("payment_method").
		Scan(&report.PaymentMethodDist).Error; err != nil {
		return nil, err
	}

	return report, nil
}
