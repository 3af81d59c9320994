package service

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A failure while recording the contribution rolls the status transition
// back with it: the assignment stays open instead of completing without its
// units.
func TestCompleteAssignment_RecordFailureKeepsAssignmentOpen(t *testing.T) {
	svc, mock := newMockedService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "project_assignments" WHERE id = \$1`).
		WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "project_ref", "difficulty", "status"}).
			AddRow(77, 42, "apollo", 2.0, "open"))
	mock.ExpectExec(`UPDATE "project_assignments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// the owning user row is gone, the contribution cannot be recorded
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	record, err := svc.CompleteAssignment(77, 8.0, 0.5)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, record)
	assert.NoError(t, mock.ExpectationsWereMet())
}
