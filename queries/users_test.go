package queries

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
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

	return &Repo{Conn: db, ConnReader: db}, mock
}

func TestGetUserByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "email", "partner_tier", "referral_code"}).
		AddRow(42, "user@example.com", "regular_partner", "K4XRTQ2M")
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(rows)

	user, err := repo.GetUserByID(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetUserByID(7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetDormantCandidates(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "email", "dormant"}).
		AddRow(5, "a@example.com", false).
		AddRow(9, "b@example.com", false)
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \(dormant = false\) AND last_login_at IS NOT NULL AND last_login_at < \$1`).
		WithArgs(cutoff).
		WillReturnRows(rows)

	users, err := repo.GetDormantCandidates(cutoff, 100)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, uint64(5), users[0].ID)
	assert.Equal(t, uint64(9), users[1].ID)
}
