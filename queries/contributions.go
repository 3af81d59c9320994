package queries

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// GetBalanceForUpdate loads the balance row inside the given transaction
// with a per-user row lock. A missing row is created on the fly so every
// user has a balance from their first movement on.
func GetBalanceForUpdate(tx *gorm.DB, userID uint64) (*model.ContributionBalance, error) {
	balance := model.ContributionBalance{}
	db := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&balance, "user_id = ?", userID)
	if db.Error == nil {
		return &balance, nil
	}
	if !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		return nil, db.Error
	}
	fresh := model.NewContributionBalance(userID)
	if err := tx.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

// GetBalance returns a read-only balance snapshot; unknown users get a
// zero-valued balance
func (r *Repo) GetBalance(userID uint64) (*model.ContributionBalance, error) {
	balance := model.ContributionBalance{}
	db := r.ConnReader.First(&balance, "user_id = ?", userID)
	if db.Error != nil {
		if errors.Is(db.Error, gorm.ErrRecordNotFound) {
			return model.NewContributionBalance(userID), nil
		}
		return nil, db.Error
	}
	return &balance, nil
}

// GetContributionRecords lists a user's records newest first with paging
func (r *Repo) GetContributionRecords(userID uint64, limit, page int) ([]model.ContributionRecord, int64, error) {
	records := make([]model.ContributionRecord, 0)
	var rowCount int64

	q := r.ConnReader.Table("contribution_records").Where("user_id = ?", userID)
	if err := q.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	db := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&records)
	if db.Error != nil {
		return nil, 0, db.Error
	}
	return records, rowCount, nil
}

// HasContributionWithReference reports whether a record with the given kind
// and source reference already exists, used as the daily check-in guard
func (r *Repo) HasContributionWithReference(userID uint64, kind model.ContributionKind, reference string) (bool, error) {
	var count int64
	db := r.ConnReader.Table("contribution_records").
		Where("user_id = ?", userID).
		Where("kind = ?", kind).
		Where("source_reference = ?", reference).
		Count(&count)
	if db.Error != nil {
		return false, db.Error
	}
	return count > 0, nil
}

// GetCommissionEntries lists payouts credited to the given beneficiary
func (r *Repo) GetCommissionEntries(beneficiaryID uint64, limit, page int) ([]model.CommissionLedgerEntry, int64, error) {
	entries := make([]model.CommissionLedgerEntry, 0)
	var rowCount int64

	q := r.ConnReader.Table("commission_ledger_entries").Where("beneficiary_id = ?", beneficiaryID)
	if err := q.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	db := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&entries)
	if db.Error != nil {
		return nil, 0, db.Error
	}
	return entries, rowCount, nil
}
