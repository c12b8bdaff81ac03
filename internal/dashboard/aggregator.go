// Package dashboard implements the metrics aggregator and dashboard
// composition layer: system stats snapshots, the per-account dashboard view,
// and the trailing-window analytics report.
package dashboard

import (
	"errors"
	"time"

	"github.com/OumaCavin/DataLinkCRM/internal/model"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LatestStats returns the most recent system stats snapshot. When no snapshot
// exists yet, a zero-valued row is persisted for today's date and returned,
// so the operation never reports not-found. The insert goes through an
// ON CONFLICT DO NOTHING on the date uniqueness constraint, which makes
// concurrent first reads idempotent.
func LatestStats(db *gorm.DB, now time.Time) (*model.SystemStats, error) {
	var stats model.SystemStats
	err := db.Order("date DESC").First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	today := now.Format(model.StatsDateFormat)
	fresh := model.SystemStats{Date: today}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	prometheus.StatsSnapshotsCreatedCounter.Inc()

	// Re-read so a concurrent creator's row wins over the local struct
	if err := db.Where("date = ?", today).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecomputeStats recounts system-wide metrics and upserts them into today's
// snapshot row.
func RecomputeStats(db *gorm.DB, now time.Time) (*model.SystemStats, error) {
	stats := model.SystemStats{Date: now.Format(model.StatsDateFormat)}

	if err := db.Model(&model.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Project{}).Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Subscription{}).
		Where("status = ?", model.SubscriptionStatusActive).
		Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&model.Customer{}).
		Where("created_at >= ?", dayStart).
		Count(&stats.NewCustomersToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Project{}).
		Where("status = ?", model.ProjectStatusCompleted).
		Count(&stats.ProjectsCompleted).Error; err != nil {
		return nil, err
	}

	var totalPayments, completedPayments int64
	if err := db.Model(&model.Payment{}).Count(&totalPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusCompleted).
		Count(&completedPayments).Error; err != nil {
		return nil, err
	}
	if totalPayments > 0 {
		stats.PaymentSuccessRate = float64(completedPayments) / float64(totalPayments) * 100
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_customers", "total_projects", "total_revenue",
			"active_subscriptions", "new_customers_today", "projects_completed",
			"payment_success_rate", "average_response_time", "updated_at",
		}),
	}).Create(&stats).Error; err != nil {
		return nil, err
	}

	// Re-read to pick up the row ID when the upsert hit an existing date
	var persisted model.SystemStats
	if err := db.Where("date = ?", stats.Date).First(&persisted).Error; err != nil {
		return nil, err
	}
	return &persisted, nil
}
