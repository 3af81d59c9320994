package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"gitlab.com/lingzhi-platform/contribution_api/conv"
	"gitlab.com/lingzhi-platform/contribution_api/model"
	"gitlab.com/lingzhi-platform/contribution_api/monitor"
	"gitlab.com/lingzhi-platform/contribution_api/queries"
)

// CreateAssignment opens a project assignment with its deadline
func (service *Service) CreateAssignment(userID uint64, projectRef string, difficulty float64, deadline time.Time) (*model.ProjectAssignment, error) {
	if difficulty < 0.1 || difficulty > 3.0 {
		return nil, ErrInvalidScoreInput
	}
	assignment := &model.ProjectAssignment{
		UserID:     userID,
		ProjectRef: projectRef,
		Difficulty: difficulty,
		Deadline:   deadline,
		Status:     model.ProjectAssignmentStatus_Open,
	}
	if err := service.repo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// CompleteAssignment scores a finished assignment and records the project
// contribution. The open-to-completed transition and the base record land in
// one transaction; a failed record leaves the assignment open. Commissions
// propagate after commit like any other earning event.
func (service *Service) CompleteAssignment(assignmentID uint64, quality, participationRate float64) (*model.ContributionRecord, error) {
	tx := service.repo.Conn.Begin()
	assignment := model.ProjectAssignment{}
	if err := tx.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	score, err := service.ProjectContribution(assignment.Difficulty, quality, participationRate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	update := tx.Model(&model.ProjectAssignment{}).
		Where("id = ?", assignmentID).
		Where("status = ?", model.ProjectAssignmentStatus_Open).
		Updates(map[string]interface{}{
			"status":             model.ProjectAssignmentStatus_Completed,
			"quality":            quality,
			"participation_rate": participationRate,
			"updated_at":         time.Now(),
		})
	if update.Error != nil {
		tx.Rollback()
		return nil, update.Error
	}
	if update.RowsAffected != 1 {
		tx.Rollback()
		return nil, errors.New("assignment is not open")
	}

	record, err := service.recordContribution(tx, assignment.UserID, score, model.ContributionKind_Project,
		fmt.Sprintf("project:%s", assignment.ProjectRef))
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	service.propagateCommissions(assignment.UserID, record, score, model.ContributionKind_Project)
	return record, nil
}

// PenalizeOverdueAssignments applies the deadline penalty to every open
// assignment past its deadline. One transaction per assignment: the
// open-to-penalized transition and the negative adjustment land together or
// not at all, and a failure on one user never aborts the scan.
func (service *Service) PenalizeOverdueAssignments(now time.Time, limit int) (int, error) {
	overdue, err := service.repo.GetOverdueAssignments(now, limit)
	if err != nil {
		return 0, err
	}

	penalized := 0
	for _, assignment := range overdue {
		if err := service.penalizeAssignment(&assignment, now); err != nil {
			monitor.SchedulerItemFailures.WithLabelValues("project_timeout_scan").Inc()
			log.Error().Err(err).
				Str("section", "service").
				Str("action", "project_timeout").
				Uint64("user_id", assignment.UserID).
				Uint64("assignment_id", assignment.ID).
				Msg("Unable to penalize overdue assignment")
			continue
		}
		penalized++
	}
	return penalized, nil
}

func (service *Service) penalizeAssignment(assignment *model.ProjectAssignment, now time.Time) error {
	penalty := conv.NewDecimalFromFloat(service.cfg.Scheduler.ProjectPenalty)
	if assignment.PenaltyAmount != nil && assignment.PenaltyAmount.V != nil && assignment.PenaltyAmount.V.Sign() > 0 {
		penalty = conv.CloneToPrecision(assignment.PenaltyAmount.V)
	}

	tx := service.repo.Conn.Begin()
	moved, err := queries.PenalizeAssignment(tx, assignment.ID, now)
	if err != nil {
		tx.Rollback()
		return err
	}
	if !moved {
		// another scan already handled it
		tx.Rollback()
		return nil
	}
	if penalty.Sign() > 0 {
		reference := fmt.Sprintf("project_timeout:%d", assignment.ID)
		if _, err := service.recordContribution(tx, assignment.UserID, conv.Neg(penalty), model.ContributionKind_AdminAdjustment, reference); err != nil {
			// an insufficient balance keeps the assignment open for the
			// next scan instead of clamping the penalty
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}
