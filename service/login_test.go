package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStreak(t *testing.T) {
	day := func(value string) time.Time {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			t.Fatalf("bad test timestamp %s: %v", value, err)
		}
		return parsed
	}

	Convey("A first ever login starts the streak at one", t, func() {
		So(nextStreak(nil, day("2026-03-10T09:00:00Z"), 0), ShouldEqual, 1)
	})

	Convey("A repeat login on the same day leaves the streak unchanged", t, func() {
		last := day("2026-03-10T08:00:00Z")
		So(nextStreak(&last, day("2026-03-10T22:00:00Z"), 4), ShouldEqual, 4)
	})

	Convey("A login on the next calendar day extends the streak", t, func() {
		last := day("2026-03-10T23:59:00Z")
		So(nextStreak(&last, day("2026-03-11T00:01:00Z"), 4), ShouldEqual, 5)
	})

	Convey("A missed day resets the streak to one", t, func() {
		last := day("2026-03-10T12:00:00Z")
		So(nextStreak(&last, day("2026-03-12T12:00:00Z"), 9), ShouldEqual, 1)
	})

	Convey("A corrupted zero streak with a known login restarts at one", t, func() {
		last := day("2026-03-10T12:00:00Z")
		So(nextStreak(&last, day("2026-03-11T12:00:00Z"), 0), ShouldEqual, 1)
	})
}

// A user whose streak broke and rebuilt to a threshold already holds the
// badge row. The duplicate must not abort the transaction: the login update
// still has to land.
func TestOnUserLogin_BadgeAlreadyQueued(t *testing.T) {
	svc, mock := newMockedService(t)
	last := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "partner_tier", "consecutive_login_days", "last_login_at", "dormant"}).
			AddRow(42, "user@example.com", "normal_user", 6, last, false))
	// the badge key already exists, the insert resolves to zero rows
	mock.ExpectQuery(`INSERT INTO "pending_rewards" .*ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := svc.OnUserLogin(42, now)
	require.NoError(t, err)
	assert.Equal(t, 7, user.ConsecutiveLoginDays)
	assert.False(t, user.Dormant)
	assert.NoError(t, mock.ExpectationsWereMet())
}
