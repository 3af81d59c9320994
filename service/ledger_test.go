package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
)

func TestProjectContribution(t *testing.T) {
	svc := newTestService(t)

	Convey("It should score difficulty times quality times participation times ten", t, func() {
		score, err := svc.ProjectContribution(2.0, 8.0, 0.5)
		So(err, ShouldBeNil)
		So(score.Cmp(conv.NewDecimalFromFloat(80)), ShouldEqual, 0)
	})

	Convey("A full score project yields the maximum", t, func() {
		score, err := svc.ProjectContribution(3.0, 10.0, 1.0)
		So(err, ShouldBeNil)
		So(score.Cmp(conv.NewDecimalFromFloat(300)), ShouldEqual, 0)
	})

	Convey("Zero participation yields zero units", t, func() {
		score, err := svc.ProjectContribution(1.0, 10.0, 0)
		So(err, ShouldBeNil)
		So(score.Sign(), ShouldEqual, 0)
	})

	Convey("It should reject a difficulty outside its range", t, func() {
		_, err := svc.ProjectContribution(0.05, 5.0, 0.5)
		So(err, ShouldEqual, ErrInvalidScoreInput)

		_, err = svc.ProjectContribution(3.5, 5.0, 0.5)
		So(err, ShouldEqual, ErrInvalidScoreInput)
	})

	Convey("It should reject a quality outside its range", t, func() {
		_, err := svc.ProjectContribution(1.0, -1.0, 0.5)
		So(err, ShouldEqual, ErrInvalidScoreInput)

		_, err = svc.ProjectContribution(1.0, 10.5, 0.5)
		So(err, ShouldEqual, ErrInvalidScoreInput)
	})

	Convey("It should reject a participation rate outside its range", t, func() {
		_, err := svc.ProjectContribution(1.0, 5.0, -0.1)
		So(err, ShouldEqual, ErrInvalidScoreInput)

		_, err = svc.ProjectContribution(1.0, 5.0, 1.1)
		So(err, ShouldEqual, ErrInvalidScoreInput)
	})
}

func TestKeySuffix(t *testing.T) {
	Convey("It should return the rule specific tail of an idempotency key", t, func() {
		So(keySuffix("badge:42:7"), ShouldEqual, "7")
		So(keySuffix("upgrade:42:senior_partner"), ShouldEqual, "senior_partner")
		So(keySuffix("new_user:42"), ShouldEqual, "42")
	})
}

// A consumption pushing the remaining balance below zero rolls back the whole
// call: no record, no balance movement.
func TestRecordContribution_InsufficientBalance(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_tier"}).
			AddRow(42, "normal_user"))
	mock.ExpectQuery(`SELECT .* FROM "contribution_balances" WHERE user_id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "cumulative_contribution", "consumed_contribution"}).
			AddRow(42, "100", "0"))
	mock.ExpectRollback()

	record, err := svc.RecordContribution(42, conv.NewDecimalFromFloat(-200), model.ContributionKind_Exchange, "exchange:test")
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent same-day check-in that loses the race on the per-day unique
// guard is a quiet no-op, not a second grant and not an error.
func TestCheckin_ConcurrentDuplicateIsNoOp(t *testing.T) {
	svc, mock := newMockedService(t)
	at := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "contribution_records"`).
		WithArgs(42, "checkin", "checkin:2026-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "partner_tier"}).
			AddRow(42, "normal_user"))
	mock.ExpectQuery(`SELECT .* FROM "contribution_balances" WHERE user_id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "cumulative_contribution", "consumed_contribution"}).
			AddRow(42, "10", "0"))
	mock.ExpectQuery(`INSERT INTO "contribution_records"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	record, err := svc.Checkin(42, at)
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}
