package dashboard

import (
	"os"
	"testing"

	"github.com/OumaCavin/DataLinkCRM/internal/model"
	"github.com/OumaCavin/DataLinkCRM/pkg/config"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	prometheus.InitMetrics(cfg)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Customer{},
		&model.Project{},
		&model.Payment{},
		&model.Subscription{},
		&model.DashboardWidget{},
		&model.QuickAction{},
		&model.Notification{},
		&model.SystemStats{},
	))

	return db
}
