package queries

import (
	"time"

	"gorm.io/gorm"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// GetOverdueAssignments lists open assignments past their deadline
func (r *Repo) GetOverdueAssignments(now time.Time, limit int) ([]model.ProjectAssignment, error) {
	assignments := make([]model.ProjectAssignment, 0)
	db := r.ConnReader.
		Where("status = ?", model.ProjectAssignmentStatus_Open).
		Where("deadline < ?", now).
		Order("deadline ASC").
		Limit(limit).
		Find(&assignments)
	if db.Error != nil {
		return nil, db.Error
	}
	return assignments, nil
}

// PenalizeAssignment moves an assignment from open to its terminal penalized
// state. The status guard makes the transition happen at most once even when
// two scans overlap on retry.
func PenalizeAssignment(tx *gorm.DB, id uint64, at time.Time) (bool, error) {
	db := tx.Model(&model.ProjectAssignment{}).
		Where("id = ?", id).
		Where("status = ?", model.ProjectAssignmentStatus_Open).
		Updates(map[string]interface{}{
			"status":     model.ProjectAssignmentStatus_Penalized,
			"updated_at": at,
		})
	if db.Error != nil {
		return false, db.Error
	}
	return db.RowsAffected == 1, nil
}
