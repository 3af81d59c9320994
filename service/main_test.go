package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gitlab.com/lingzhi-platform/contribution_api/config"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

func testConfig() config.Config {
	return config.Config{
		Value: config.ValueConfig{
			UnitValue: 0.1,
			Currency:  "CNY",
			LockBonus: map[string]float64{
				"year1": 0.20,
				"year2": 0.50,
				"year3": 1.00,
			},
		},
		ReferralConfig: config.ReferralsConfig{L1: 0.10, L2: 0.05, L3: 0.03},
		Scheduler: config.SchedulerConfig{
			DormancyDays:       30,
			StreakBadges:       []int{7, 30, 100},
			ProjectPenalty:     50,
			PendingRewardBatch: 500,
		},
		Rewards: config.RewardsConfig{
			NewUser: 100,
			Wakeup:  50,
			Badge:   map[string]float64{"7": 20, "30": 100, "100": 500},
			Checkin: 5,
		},
	}
}

// newTestService builds a service over the default tier table with no
// database behind it, enough for the pure computation paths
func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("unable to build test service: %v", err)
	}
	return svc
}

// newMockedService builds a service over a sqlmock-backed repo for the
// transactional paths
func newMockedService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	svc, err := NewService(testConfig(), &queries.Repo{Conn: db, ConnReader: db}, nil)
	require.NoError(t, err)
	return svc, mock
}
