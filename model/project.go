package model

import (
	"time"

	"github.com/ericlagergren/decimal/sql/postgres"
)

type ProjectAssignmentStatus string

const (
	ProjectAssignmentStatus_Open      ProjectAssignmentStatus = "open"
	ProjectAssignmentStatus_Completed ProjectAssignmentStatus = "completed"
	// ProjectAssignmentStatus_Penalized terminal state set by the deadline scan
	ProjectAssignmentStatus_Penalized ProjectAssignmentStatus = "penalized"
)

// ProjectAssignment tracks one user's project engagement. The deadline scan
// moves overdue open assignments to penalized exactly once.
type ProjectAssignment struct {
	ID                uint64                  `gorm:"primary_key" json:"id"`
	UserID            uint64                  `gorm:"column:user_id" json:"user_id"`
	ProjectRef        string                  `gorm:"column:project_ref" json:"project_ref"`
	Difficulty        float64                 `gorm:"column:difficulty" json:"difficulty"`
	Quality           float64                 `gorm:"column:quality" json:"quality"`
	ParticipationRate float64                 `gorm:"column:participation_rate" json:"participation_rate"`
	Deadline          time.Time               `gorm:"column:deadline" json:"deadline"`
	Status            ProjectAssignmentStatus `gorm:"column:status" json:"status"`
	PenaltyAmount     *postgres.Decimal       `gorm:"column:penalty_amount" sql:"type:decimal(36,18)" json:"-"`
	CreatedAt         time.Time               `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time               `gorm:"column:updated_at" json:"updated_at"`
}

func (ProjectAssignment) TableName() string {
	return "project_assignments"
}

// IsOverdue reports whether an open assignment has passed its deadline
func (p *ProjectAssignment) IsOverdue(now time.Time) bool {
	return p.Status == ProjectAssignmentStatus_Open && now.After(p.Deadline)
}
