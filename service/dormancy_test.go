package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A user flagged by an earlier scan must not receive a second wakeup reward
// when a later scan picks them up again before the candidate query reflects
// the flag.
func TestScanDormancy_RepeatScanSkipsDormantUser(t *testing.T) {
	svc, mock := newMockedService(t)
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -30)
	last := cutoff.AddDate(0, 0, -5)

	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \(dormant = false\) AND last_login_at IS NOT NULL AND last_login_at < \$1`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_login_at", "dormant"}).
			AddRow(5, last, false))

	// the locked row shows another scan got there first: no update, no reward
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_login_at", "dormant"}).
			AddRow(5, last, true))
	mock.ExpectRollback()

	marked, err := svc.ScanDormancy(now)
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
